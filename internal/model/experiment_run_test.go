package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestExperimentRun_DurationSeconds(t *testing.T) {
	run := ExperimentRun{}
	if run.DurationSeconds() != nil {
		t.Error("expected nil duration before execution")
	}

	started := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	completed := started.Add(1500 * time.Millisecond)
	run.StartedAt = &started
	run.CompletedAt = &completed

	d := run.DurationSeconds()
	if d == nil || *d != 1.5 {
		t.Errorf("duration = %v, want 1.5", d)
	}
}

func TestExperimentRun_JSONIncludesDuration(t *testing.T) {
	started := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	completed := started.Add(2 * time.Second)
	run := ExperimentRun{
		ID:           "run-1",
		ExperimentID: "exp-1",
		RunNumber:    1,
		Status:       RunStatusCompleted,
		StartedAt:    &started,
		CompletedAt:  &completed,
	}

	data, err := json.Marshal(run)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if decoded["duration_seconds"] != 2.0 {
		t.Errorf("duration_seconds = %v, want 2", decoded["duration_seconds"])
	}
	if decoded["run_number"] != 1.0 {
		t.Errorf("run_number = %v, want 1", decoded["run_number"])
	}

	// Pending runs omit the derived field entirely.
	pending := ExperimentRun{ID: "run-2", Status: RunStatusPending}
	data, err = json.Marshal(pending)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	decoded = map[string]any{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if _, ok := decoded["duration_seconds"]; ok {
		t.Error("pending run should not expose duration_seconds")
	}
}
