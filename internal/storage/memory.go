package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"axiom/internal/model"
)

// MemoryExperimentRepository keeps experiments in a map. Data is lost on
// restart; used when no database is configured and in tests.
type MemoryExperimentRepository struct {
	mu          sync.Mutex
	experiments map[string]model.Experiment
}

func NewMemoryExperimentRepository() *MemoryExperimentRepository {
	return &MemoryExperimentRepository{experiments: map[string]model.Experiment{}}
}

func (r *MemoryExperimentRepository) Create(_ context.Context, experiment *model.Experiment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.experiments[experiment.ID] = *experiment
	return nil
}

func (r *MemoryExperimentRepository) Get(_ context.Context, id string) (*model.Experiment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	experiment, ok := r.experiments[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrExperimentNotFound, id)
	}
	return &experiment, nil
}

func (r *MemoryExperimentRepository) List(_ context.Context, filter ExperimentFilter) ([]model.Experiment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := []model.Experiment{}
	for _, experiment := range r.experiments {
		e := experiment
		if matchesFilter(&e, filter) {
			result = append(result, e)
		}
	}
	// Newest first.
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (r *MemoryExperimentRepository) Update(_ context.Context, experiment *model.Experiment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.experiments[experiment.ID]; !ok {
		return fmt.Errorf("%w: %s", ErrExperimentNotFound, experiment.ID)
	}
	r.experiments[experiment.ID] = *experiment
	return nil
}

func (r *MemoryExperimentRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.experiments[id]; !ok {
		return fmt.Errorf("%w: %s", ErrExperimentNotFound, id)
	}
	delete(r.experiments, id)
	return nil
}

// MemoryRunRepository keeps runs in a map. Run numbers are assigned under the
// repository lock, so concurrent creation for one experiment yields exactly
// the sequence 1..N.
type MemoryRunRepository struct {
	mu       sync.Mutex
	runs     map[string]model.ExperimentRun
	counters map[string]int
}

func NewMemoryRunRepository() *MemoryRunRepository {
	return &MemoryRunRepository{
		runs:     map[string]model.ExperimentRun{},
		counters: map[string]int{},
	}
}

func (r *MemoryRunRepository) Create(_ context.Context, run *model.ExperimentRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counters[run.ExperimentID]++
	run.RunNumber = r.counters[run.ExperimentID]
	r.runs[run.ID] = *run
	return nil
}

func (r *MemoryRunRepository) Get(_ context.Context, id string) (*model.ExperimentRun, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	run, ok := r.runs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return &run, nil
}

func (r *MemoryRunRepository) ListByExperiment(_ context.Context, experimentID string) ([]model.ExperimentRun, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := []model.ExperimentRun{}
	for _, run := range r.runs {
		if run.ExperimentID == experimentID {
			result = append(result, run)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].RunNumber < result[j].RunNumber })
	return result, nil
}

// Claim checks the pending status and performs the running transition under
// one hold of the lock, so concurrent claimants cannot both observe pending.
func (r *MemoryRunRepository) Claim(_ context.Context, id string, startedAt time.Time) (*model.ExperimentRun, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	run, ok := r.runs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if run.Status != model.RunStatusPending {
		return nil, fmt.Errorf("%w: %s is %s", ErrRunNotPending, id, run.Status)
	}
	run.Status = model.RunStatusRunning
	run.StartedAt = &startedAt
	r.runs[id] = run
	return &run, nil
}

func (r *MemoryRunRepository) Update(_ context.Context, run *model.ExperimentRun) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.runs[run.ID]; !ok {
		return fmt.Errorf("%w: %s", ErrRunNotFound, run.ID)
	}
	r.runs[run.ID] = *run
	return nil
}
