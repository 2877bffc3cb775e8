package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"axiom/internal/model"
	"axiom/internal/storage"
)

// ErrInvalidRunState is returned when a run is asked to do something its
// current lifecycle state does not allow, e.g. executing a non-pending run.
var ErrInvalidRunState = errors.New("invalid run state")

// Defaults applied to experiment configs, matching the tournament engine's
// intended operating range.
const (
	DefaultTurns       = 200
	DefaultRepetitions = 10
	DefaultTargetRuns  = 30
)

// ExperimentUpdate carries a partial experiment update; nil fields are left
// untouched.
type ExperimentUpdate struct {
	Name        *string
	Hypothesis  *string
	Description *string
	Tags        *[]string
	Config      *model.ExperimentConfig
	Status      *string
}

// ExperimentService owns the experiment and run lifecycle on top of the
// repository contracts.
type ExperimentService struct {
	experiments storage.ExperimentRepository
	runs        storage.RunRepository
}

func NewExperimentService(experiments storage.ExperimentRepository, runs storage.RunRepository) *ExperimentService {
	return &ExperimentService{experiments: experiments, runs: runs}
}

// CreateExperiment records a new experiment in draft status.
func (s *ExperimentService) CreateExperiment(ctx context.Context, name, hypothesis, description string, tags []string, config model.ExperimentConfig) (*model.Experiment, error) {
	applyConfigDefaults(&config)
	if tags == nil {
		tags = []string{}
	}

	now := time.Now().UTC()
	experiment := &model.Experiment{
		ID:          uuid.NewString(),
		Name:        name,
		Hypothesis:  hypothesis,
		Description: description,
		Tags:        tags,
		Config:      config,
		Status:      model.ExperimentStatusDraft,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.experiments.Create(ctx, experiment); err != nil {
		return nil, err
	}
	return experiment, nil
}

func (s *ExperimentService) GetExperiment(ctx context.Context, id string) (*model.Experiment, error) {
	return s.experiments.Get(ctx, id)
}

func (s *ExperimentService) ListExperiments(ctx context.Context, status string, tags []string) ([]model.Experiment, error) {
	return s.experiments.List(ctx, storage.ExperimentFilter{Status: status, Tags: tags})
}

// UpdateExperiment applies a partial update. Runs created before the update
// keep their config snapshots.
func (s *ExperimentService) UpdateExperiment(ctx context.Context, id string, update ExperimentUpdate) (*model.Experiment, error) {
	experiment, err := s.experiments.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		experiment.Name = *update.Name
	}
	if update.Hypothesis != nil {
		experiment.Hypothesis = *update.Hypothesis
	}
	if update.Description != nil {
		experiment.Description = *update.Description
	}
	if update.Tags != nil {
		experiment.Tags = *update.Tags
	}
	if update.Config != nil {
		config := *update.Config
		applyConfigDefaults(&config)
		experiment.Config = config
	}
	if update.Status != nil {
		experiment.Status = *update.Status
	}
	experiment.UpdatedAt = time.Now().UTC()

	if err := s.experiments.Update(ctx, experiment); err != nil {
		return nil, err
	}
	return experiment, nil
}

func (s *ExperimentService) DeleteExperiment(ctx context.Context, id string) error {
	return s.experiments.Delete(ctx, id)
}

// CreateRuns creates count pending runs for an experiment, each with its own
// snapshot of the experiment's current configuration. Run numbers are
// assigned by the repository.
func (s *ExperimentService) CreateRuns(ctx context.Context, experimentID string, count int) ([]model.ExperimentRun, error) {
	if count < 1 {
		return nil, fmt.Errorf("%w: run count must be at least 1, got %d", ErrInvalidRunState, count)
	}
	experiment, err := s.experiments.Get(ctx, experimentID)
	if err != nil {
		return nil, err
	}

	runs := make([]model.ExperimentRun, 0, count)
	for i := 0; i < count; i++ {
		run := model.ExperimentRun{
			ID:             uuid.NewString(),
			ExperimentID:   experimentID,
			Status:         model.RunStatusPending,
			ConfigSnapshot: snapshotConfig(experiment.Config),
			CreatedAt:      time.Now().UTC(),
		}
		if err := s.runs.Create(ctx, &run); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, nil
}

func (s *ExperimentService) GetRun(ctx context.Context, id string) (*model.ExperimentRun, error) {
	return s.runs.Get(ctx, id)
}

// ListRuns returns an experiment's runs sorted by run number. The experiment
// must exist.
func (s *ExperimentService) ListRuns(ctx context.Context, experimentID string) ([]model.ExperimentRun, error) {
	if _, err := s.experiments.Get(ctx, experimentID); err != nil {
		return nil, err
	}
	return s.runs.ListByExperiment(ctx, experimentID)
}

func applyConfigDefaults(config *model.ExperimentConfig) {
	if config.Turns <= 0 {
		config.Turns = DefaultTurns
	}
	if config.Repetitions <= 0 {
		config.Repetitions = DefaultRepetitions
	}
	if config.TargetRuns <= 0 {
		config.TargetRuns = DefaultTargetRuns
	}
}

// snapshotConfig deep-copies a config so later experiment edits cannot reach
// already-created runs.
func snapshotConfig(config model.ExperimentConfig) model.ExperimentConfig {
	snapshot := config
	snapshot.Strategies = append([]string(nil), config.Strategies...)
	return snapshot
}
