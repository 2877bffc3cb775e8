package model

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Run statuses. pending -> running -> {completed | failed}; terminal states
// are final and never retried automatically.
const (
	RunStatusPending   = "pending"
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// RunError is the structured error persisted on a failed run.
type RunError struct {
	Message   string    `json:"message"`
	Category  string    `json:"category"`
	Timestamp time.Time `json:"timestamp"`
}

// ExperimentRun is one execution of an experiment's configuration. The config
// snapshot is copied at creation time, so later experiment edits do not
// affect runs that already exist.
type ExperimentRun struct {
	ID        string         `gorm:"type:varchar(36);primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	ExperimentID   string           `gorm:"type:varchar(36);not null;index" json:"experiment_id"`
	RunNumber      int              `gorm:"not null" json:"run_number"`
	Status         string           `gorm:"type:varchar(20);index" json:"status"`
	ConfigSnapshot ExperimentConfig `gorm:"serializer:json;type:text" json:"config_snapshot"`
	Results        datatypes.JSON   `gorm:"type:json" json:"results,omitempty"`
	Error          datatypes.JSON   `gorm:"type:json" json:"error,omitempty"`
	StartedAt      *time.Time       `json:"started_at,omitempty"`
	CompletedAt    *time.Time       `json:"completed_at,omitempty"`
}

// DurationSeconds derives the run's wall-clock duration, or nil while the run
// has not reached a terminal state.
func (r *ExperimentRun) DurationSeconds() *float64 {
	if r.StartedAt == nil || r.CompletedAt == nil {
		return nil
	}
	d := r.CompletedAt.Sub(*r.StartedAt).Seconds()
	return &d
}

// MarshalJSON includes the derived duration alongside the stored fields.
func (r ExperimentRun) MarshalJSON() ([]byte, error) {
	type alias ExperimentRun
	return json.Marshal(struct {
		alias
		DurationSeconds *float64 `json:"duration_seconds,omitempty"`
	}{alias(r), r.DurationSeconds()})
}
