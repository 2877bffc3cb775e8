package handler

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"axiom/internal/model"
	"axiom/internal/service"
	"axiom/internal/storage"
)

type ExperimentHandler struct {
	experiments *service.ExperimentService
	executor    *service.RunExecutor
}

func NewExperimentHandler(experiments *service.ExperimentService, executor *service.RunExecutor) *ExperimentHandler {
	return &ExperimentHandler{experiments: experiments, executor: executor}
}

type createExperimentRequest struct {
	Name        string                 `json:"name" binding:"required"`
	Hypothesis  string                 `json:"hypothesis" binding:"required"`
	Description string                 `json:"description"`
	Tags        []string               `json:"tags"`
	Config      model.ExperimentConfig `json:"config" binding:"required"`
}

type updateExperimentRequest struct {
	Name        *string                 `json:"name"`
	Hypothesis  *string                 `json:"hypothesis"`
	Description *string                 `json:"description"`
	Tags        *[]string               `json:"tags"`
	Config      *model.ExperimentConfig `json:"config"`
	Status      *string                 `json:"status"`
}

type createRunsRequest struct {
	Count int `json:"count"`
}

// CreateExperiment records a new experiment in draft status.
func (h *ExperimentHandler) CreateExperiment(c *gin.Context) {
	var req createExperimentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	experiment, err := h.experiments.CreateExperiment(c.Request.Context(), req.Name, req.Hypothesis, req.Description, req.Tags, req.Config)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, experiment)
}

// ListExperiments lists experiments, optionally filtered by status and by
// any-of tags (comma-separated).
func (h *ExperimentHandler) ListExperiments(c *gin.Context) {
	status := c.Query("status")
	var tags []string
	if raw := c.Query("tags"); raw != "" {
		tags = strings.Split(raw, ",")
	}

	experiments, err := h.experiments.ListExperiments(c.Request.Context(), status, tags)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"experiments": experiments,
		"total":       len(experiments),
	})
}

func (h *ExperimentHandler) GetExperiment(c *gin.Context) {
	experiment, err := h.experiments.GetExperiment(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, experiment)
}

func (h *ExperimentHandler) UpdateExperiment(c *gin.Context) {
	var req updateExperimentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	experiment, err := h.experiments.UpdateExperiment(c.Request.Context(), c.Param("id"), service.ExperimentUpdate{
		Name:        req.Name,
		Hypothesis:  req.Hypothesis,
		Description: req.Description,
		Tags:        req.Tags,
		Config:      req.Config,
		Status:      req.Status,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, experiment)
}

func (h *ExperimentHandler) DeleteExperiment(c *gin.Context) {
	if err := h.experiments.DeleteExperiment(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CreateRuns creates pending runs, each with its own config snapshot.
func (h *ExperimentHandler) CreateRuns(c *gin.Context) {
	// An empty body defaults to a single run.
	var req createRunsRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Count <= 0 {
		req.Count = 1
	}

	runs, err := h.experiments.CreateRuns(c.Request.Context(), c.Param("id"), req.Count)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"runs":  runs,
		"total": len(runs),
	})
}

// ListRuns lists an experiment's runs sorted by run number.
func (h *ExperimentHandler) ListRuns(c *gin.Context) {
	runs, err := h.experiments.ListRuns(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"runs":  runs,
		"total": len(runs),
	})
}

// GetRun returns one run; the run must belong to the experiment in the path.
func (h *ExperimentHandler) GetRun(c *gin.Context) {
	run, err := h.experiments.GetRun(c.Request.Context(), c.Param("run_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if run.ExperimentID != c.Param("id") {
		respondError(c, storage.ErrRunNotFound)
		return
	}
	c.JSON(http.StatusOK, run)
}

// ExecuteRun dispatches one pending run for background execution and returns
// the run in running state. The outcome is observed by polling the run.
func (h *ExperimentHandler) ExecuteRun(c *gin.Context) {
	run, err := h.experiments.GetRun(c.Request.Context(), c.Param("run_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if run.ExperimentID != c.Param("id") {
		respondError(c, storage.ErrRunNotFound)
		return
	}

	run, err = h.executor.ExecuteRun(c.Request.Context(), run.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, run)
}

// ExecuteAll dispatches every pending run of the experiment.
func (h *ExperimentHandler) ExecuteAll(c *gin.Context) {
	dispatched, err := h.executor.ExecuteAll(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"dispatched": dispatched})
}

// AnalyzeExperiment aggregates statistics across the experiment's runs.
func (h *ExperimentHandler) AnalyzeExperiment(c *gin.Context) {
	analysis, err := h.experiments.AnalyzeExperiment(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, analysis)
}
