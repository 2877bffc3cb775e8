// Package storage defines the repository contracts for experiments and runs
// plus the in-memory and database-backed implementations. Every
// read-modify-write is atomic per entity; in particular run numbers are
// assigned by the repository so concurrent creation never produces gaps or
// duplicates.
package storage

import (
	"context"
	"errors"
	"time"

	"axiom/internal/model"
)

var (
	ErrExperimentNotFound = errors.New("experiment not found")
	ErrRunNotFound        = errors.New("run not found")
	ErrRunNotPending      = errors.New("run is not pending")
)

// ExperimentFilter narrows experiment listing. Zero values match everything;
// Tags matches experiments carrying any of the given tags.
type ExperimentFilter struct {
	Status string
	Tags   []string
}

// ExperimentRepository persists experiments.
type ExperimentRepository interface {
	Create(ctx context.Context, experiment *model.Experiment) error
	Get(ctx context.Context, id string) (*model.Experiment, error)
	List(ctx context.Context, filter ExperimentFilter) ([]model.Experiment, error)
	Update(ctx context.Context, experiment *model.Experiment) error
	Delete(ctx context.Context, id string) error
}

// RunRepository persists experiment runs. Create assigns the run's RunNumber:
// 1-based, monotonic per experiment, atomic under concurrent creation. Claim
// moves a pending run to running and stamps StartedAt in one atomic step, so
// of any number of concurrent claimants exactly one succeeds; the rest get
// ErrRunNotPending.
type RunRepository interface {
	Create(ctx context.Context, run *model.ExperimentRun) error
	Get(ctx context.Context, id string) (*model.ExperimentRun, error)
	ListByExperiment(ctx context.Context, experimentID string) ([]model.ExperimentRun, error)
	Update(ctx context.Context, run *model.ExperimentRun) error
	Claim(ctx context.Context, id string, startedAt time.Time) (*model.ExperimentRun, error)
}

func matchesFilter(experiment *model.Experiment, filter ExperimentFilter) bool {
	if filter.Status != "" && experiment.Status != filter.Status {
		return false
	}
	if len(filter.Tags) == 0 {
		return true
	}
	for _, want := range filter.Tags {
		for _, have := range experiment.Tags {
			if want == have {
				return true
			}
		}
	}
	return false
}
