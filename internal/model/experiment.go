package model

import (
	"time"

	"gorm.io/gorm"
)

// Experiment statuses. Transitions are caller-driven and never inferred from
// run outcomes.
const (
	ExperimentStatusDraft     = "draft"
	ExperimentStatusRunning   = "running"
	ExperimentStatusCompleted = "completed"
	ExperimentStatusFailed    = "failed"
)

// ExperimentConfig is the tournament configuration evaluated by each run.
type ExperimentConfig struct {
	Strategies  []string `json:"strategies"`
	Turns       int      `json:"turns"`
	Repetitions int      `json:"repetitions"`
	TargetRuns  int      `json:"target_runs"`
}

// Experiment is a permanent research record: a hypothesis plus the tournament
// configuration used to test it.
type Experiment struct {
	ID        string         `gorm:"type:varchar(36);primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name        string           `gorm:"type:varchar(200);not null" json:"name"`
	Hypothesis  string           `gorm:"type:text" json:"hypothesis"`
	Description string           `gorm:"type:text" json:"description"`
	Tags        []string         `gorm:"serializer:json;type:text" json:"tags"`
	Config      ExperimentConfig `gorm:"serializer:json;type:text" json:"config"`
	Status      string           `gorm:"type:varchar(20);index" json:"status"`
}
