package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"gorm.io/datatypes"

	"axiom/internal/game"
	"axiom/internal/model"
	"axiom/internal/storage"
)

// Dispatcher schedules a job to run independently of the caller. The
// production implementation is a plain goroutine; tests substitute a
// synchronous one.
type Dispatcher interface {
	Dispatch(job func())
}

// GoDispatcher runs each job on its own goroutine.
type GoDispatcher struct{}

func (GoDispatcher) Dispatch(job func()) { go job() }

// RunExecutor executes experiment runs. ExecuteRun transitions a pending run
// to running synchronously and then dispatches the tournament; the outcome is
// only ever observable through the persisted run record, never through the
// dispatching call.
type RunExecutor struct {
	experiments storage.ExperimentRepository
	runs        storage.RunRepository
	dispatcher  Dispatcher
}

func NewRunExecutor(experiments storage.ExperimentRepository, runs storage.RunRepository, dispatcher Dispatcher) *RunExecutor {
	return &RunExecutor{experiments: experiments, runs: runs, dispatcher: dispatcher}
}

// ExecuteRun dispatches one pending run. The running transition is a single
// atomic repository claim, so concurrent dispatch attempts on the same run
// never both succeed, and it happens before any computation, so a crash
// mid-execution leaves the run observably stuck in running rather than
// falsely pending.
func (e *RunExecutor) ExecuteRun(ctx context.Context, runID string) (*model.ExperimentRun, error) {
	run, err := e.runs.Claim(ctx, runID, time.Now().UTC())
	if err != nil {
		if errors.Is(err, storage.ErrRunNotPending) {
			return nil, fmt.Errorf("%w: run %s is not pending", ErrInvalidRunState, runID)
		}
		return nil, err
	}

	e.dispatcher.Dispatch(func() { e.execute(run.ID) })
	return run, nil
}

// ExecuteAll dispatches every pending run of an experiment as an independent
// unit of work and returns how many were dispatched.
func (e *RunExecutor) ExecuteAll(ctx context.Context, experimentID string) (int, error) {
	if _, err := e.experiments.Get(ctx, experimentID); err != nil {
		return 0, err
	}
	runs, err := e.runs.ListByExperiment(ctx, experimentID)
	if err != nil {
		return 0, err
	}

	dispatched := 0
	for i := range runs {
		if runs[i].Status != model.RunStatusPending {
			continue
		}
		if _, err := e.ExecuteRun(ctx, runs[i].ID); err != nil {
			// Lost the race to another dispatcher; the run is already taken.
			if errors.Is(err, ErrInvalidRunState) {
				continue
			}
			return dispatched, err
		}
		dispatched++
	}
	return dispatched, nil
}

// execute runs the tournament for an already-running run and persists the
// terminal state. Errors are captured onto the run record, never propagated:
// a failing run must not abort siblings.
func (e *RunExecutor) execute(runID string) {
	ctx := context.Background()
	run, err := e.runs.Get(ctx, runID)
	if err != nil {
		log.Printf("worker: run %s vanished before execution: %v", runID, err)
		return
	}

	result, err := e.runTournament(run.ConfigSnapshot)
	now := time.Now().UTC()
	run.CompletedAt = &now

	if err != nil {
		run.Status = model.RunStatusFailed
		record := model.RunError{Message: err.Error(), Category: categorize(err), Timestamp: now}
		payload, merr := json.Marshal(record)
		if merr != nil {
			payload = []byte(fmt.Sprintf(`{"message":%q}`, err.Error()))
		}
		run.Error = datatypes.JSON(payload)
		log.Printf("worker: run %s failed: %v", runID, err)
	} else {
		payload, merr := json.Marshal(result)
		if merr != nil {
			run.Status = model.RunStatusFailed
			record := model.RunError{Message: merr.Error(), Category: "computation_failure", Timestamp: now}
			errPayload, _ := json.Marshal(record)
			run.Error = datatypes.JSON(errPayload)
		} else {
			run.Status = model.RunStatusCompleted
			run.Results = datatypes.JSON(payload)
		}
	}

	if err := e.runs.Update(ctx, run); err != nil {
		log.Printf("worker: run %s: persisting terminal state failed: %v", runID, err)
	}
}

// runTournament executes the tournament from a config snapshot, converting
// panics into errors so the worker always reaches a terminal state.
func (e *RunExecutor) runTournament(config model.ExperimentConfig) (result *game.TournamentResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("tournament panicked: %v", r)
		}
	}()
	if len(config.Strategies) == 0 {
		return nil, errors.New("no strategies specified in config snapshot")
	}
	return game.RunTournament(config.Strategies, config.Turns, config.Repetitions)
}

func categorize(err error) string {
	switch {
	case errors.Is(err, game.ErrStrategyNotFound):
		return "strategy_not_found"
	case errors.Is(err, game.ErrInvalidTurnCount):
		return "invalid_turn_count"
	case errors.Is(err, game.ErrInvalidConfig):
		return "invalid_config"
	case errors.Is(err, game.ErrInvalidMatrix):
		return "invalid_matrix"
	default:
		return "computation_failure"
	}
}
