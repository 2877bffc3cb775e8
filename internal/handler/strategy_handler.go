package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"axiom/internal/game"
)

type StrategyHandler struct{}

func NewStrategyHandler() *StrategyHandler {
	return &StrategyHandler{}
}

type playRequest struct {
	History []game.HistoryEntry `json:"history"`
}

type analyzeRequest struct {
	Turns int `json:"turns"`
}

// ListStrategies returns the strategy catalog.
func (h *StrategyHandler) ListStrategies(c *gin.Context) {
	strategies := game.List()
	c.JSON(http.StatusOK, gin.H{
		"strategies": strategies,
		"total":      len(strategies),
	})
}

// PlayStrategy asks a named strategy for its next action given a history.
func (h *StrategyHandler) PlayStrategy(c *gin.Context) {
	name := c.Param("name")

	// An empty body means no history, i.e. the first move.
	var req playRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	action, reasoning, err := game.Play(name, req.History)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"action":        action,
		"reasoning":     reasoning,
		"strategy_name": name,
	})
}

// AnalyzeStrategy characterizes a strategy against the canonical probes.
func (h *StrategyHandler) AnalyzeStrategy(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Turns <= 0 {
		req.Turns = 200
	}

	result, err := game.AnalyzeStrategy(c.Param("name"), req.Turns)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
