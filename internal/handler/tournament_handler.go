package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"axiom/internal/game"
)

type TournamentHandler struct{}

func NewTournamentHandler() *TournamentHandler {
	return &TournamentHandler{}
}

type tournamentRequest struct {
	Strategies  []string `json:"strategies" binding:"required,min=2"`
	Turns       int      `json:"turns"`
	Repetitions int      `json:"repetitions"`
}

// RunTournament plays a synchronous round-robin tournament.
func (h *TournamentHandler) RunTournament(c *gin.Context) {
	var req tournamentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Turns <= 0 {
		req.Turns = 200
	}
	if req.Repetitions <= 0 {
		req.Repetitions = 10
	}

	result, err := game.RunTournament(req.Strategies, req.Turns, req.Repetitions)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
