package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"axiom/internal/game"
)

const version = "0.1.0"

type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":               "ok",
		"version":              version,
		"strategies_available": len(game.List()),
	})
}
