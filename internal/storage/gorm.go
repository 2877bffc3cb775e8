package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"axiom/internal/model"
)

// GormExperimentRepository persists experiments through gorm.
type GormExperimentRepository struct {
	db *gorm.DB
}

func NewGormExperimentRepository(db *gorm.DB) *GormExperimentRepository {
	return &GormExperimentRepository{db: db}
}

func (r *GormExperimentRepository) Create(ctx context.Context, experiment *model.Experiment) error {
	if err := r.db.WithContext(ctx).Create(experiment).Error; err != nil {
		return fmt.Errorf("create experiment: %w", err)
	}
	return nil
}

func (r *GormExperimentRepository) Get(ctx context.Context, id string) (*model.Experiment, error) {
	var experiment model.Experiment
	err := r.db.WithContext(ctx).First(&experiment, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrExperimentNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get experiment: %w", err)
	}
	return &experiment, nil
}

func (r *GormExperimentRepository) List(ctx context.Context, filter ExperimentFilter) ([]model.Experiment, error) {
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	var experiments []model.Experiment
	if err := query.Find(&experiments).Error; err != nil {
		return nil, fmt.Errorf("list experiments: %w", err)
	}
	if len(filter.Tags) == 0 {
		return experiments, nil
	}
	// Tags live in a JSON column; any-of matching happens here.
	matched := []model.Experiment{}
	for i := range experiments {
		if matchesFilter(&experiments[i], ExperimentFilter{Tags: filter.Tags}) {
			matched = append(matched, experiments[i])
		}
	}
	return matched, nil
}

func (r *GormExperimentRepository) Update(ctx context.Context, experiment *model.Experiment) error {
	result := r.db.WithContext(ctx).Model(&model.Experiment{}).
		Where("id = ?", experiment.ID).
		Select("name", "hypothesis", "description", "tags", "config", "status").
		Updates(experiment)
	if result.Error != nil {
		return fmt.Errorf("update experiment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrExperimentNotFound, experiment.ID)
	}
	return nil
}

func (r *GormExperimentRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&model.Experiment{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("delete experiment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrExperimentNotFound, id)
	}
	return nil
}

// GormRunRepository persists runs through gorm.
type GormRunRepository struct {
	db *gorm.DB
}

func NewGormRunRepository(db *gorm.DB) *GormRunRepository {
	return &GormRunRepository{db: db}
}

// Create assigns the next run number inside a transaction holding a row lock
// on the experiment's existing runs, so concurrent creation cannot observe
// the same maximum.
func (r *GormRunRepository) Create(ctx context.Context, run *model.ExperimentRun) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var maxNumber int
		err := tx.Model(&model.ExperimentRun{}).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("experiment_id = ?", run.ExperimentID).
			Select("COALESCE(MAX(run_number), 0)").
			Scan(&maxNumber).Error
		if err != nil {
			return err
		}
		run.RunNumber = maxNumber + 1
		return tx.Create(run).Error
	})
	if err != nil {
		return fmt.Errorf("create run: %w", err)
	}
	return nil
}

func (r *GormRunRepository) Get(ctx context.Context, id string) (*model.ExperimentRun, error) {
	var run model.ExperimentRun
	err := r.db.WithContext(ctx).First(&run, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	return &run, nil
}

func (r *GormRunRepository) ListByExperiment(ctx context.Context, experimentID string) ([]model.ExperimentRun, error) {
	var runs []model.ExperimentRun
	err := r.db.WithContext(ctx).
		Where("experiment_id = ?", experimentID).
		Order("run_number ASC").
		Find(&runs).Error
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// Claim guards the running transition with a conditional UPDATE on the pending
// status, so of concurrent claimants only one sees an affected row.
func (r *GormRunRepository) Claim(ctx context.Context, id string, startedAt time.Time) (*model.ExperimentRun, error) {
	result := r.db.WithContext(ctx).Model(&model.ExperimentRun{}).
		Where("id = ? AND status = ?", id, model.RunStatusPending).
		Updates(map[string]any{
			"status":     model.RunStatusRunning,
			"started_at": startedAt,
		})
	if result.Error != nil {
		return nil, fmt.Errorf("claim run: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		if _, err := r.Get(ctx, id); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s", ErrRunNotPending, id)
	}
	return r.Get(ctx, id)
}

func (r *GormRunRepository) Update(ctx context.Context, run *model.ExperimentRun) error {
	result := r.db.WithContext(ctx).Model(&model.ExperimentRun{}).
		Where("id = ?", run.ID).
		Select("status", "results", "error", "started_at", "completed_at").
		Updates(run)
	if result.Error != nil {
		return fmt.Errorf("update run: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, run.ID)
	}
	return nil
}
