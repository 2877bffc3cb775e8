package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"axiom/internal/game"
	"axiom/internal/service"
	"axiom/internal/storage"
)

// respondError maps the error taxonomy onto HTTP status codes: not-found
// sentinels become 404, validation errors 400, lifecycle conflicts 409.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, storage.ErrExperimentNotFound),
		errors.Is(err, storage.ErrRunNotFound),
		errors.Is(err, game.ErrStrategyNotFound):
		status = http.StatusNotFound
	case errors.Is(err, game.ErrInvalidMatrix),
		errors.Is(err, game.ErrInvalidTurnCount),
		errors.Is(err, game.ErrInvalidConfig),
		errors.Is(err, game.ErrInvalidAction):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidRunState):
		status = http.StatusConflict
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
