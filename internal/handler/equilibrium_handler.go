package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"axiom/internal/game"
)

type EquilibriumHandler struct{}

func NewEquilibriumHandler() *EquilibriumHandler {
	return &EquilibriumHandler{}
}

type computeEquilibriumRequest struct {
	Matrix [][]float64 `json:"matrix" binding:"required"`
}

type expectedPayoffRequest struct {
	Matrix  [][]float64          `json:"matrix" binding:"required"`
	Profile game.StrategyProfile `json:"profile" binding:"required"`
}

// ComputeEquilibrium returns the pure and mixed Nash equilibria of a payoff
// matrix.
func (h *EquilibriumHandler) ComputeEquilibrium(c *gin.Context) {
	var req computeEquilibriumRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := game.ComputeEquilibria(req.Matrix)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ExpectedPayoff evaluates the row player's expected payoff for a mixed
// strategy profile.
func (h *EquilibriumHandler) ExpectedPayoff(c *gin.Context) {
	var req expectedPayoffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	payoff, err := game.ComputeExpectedPayoff(req.Matrix, req.Profile)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"expected_payoff": payoff})
}
