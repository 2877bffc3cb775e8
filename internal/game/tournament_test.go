package game

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

func TestRunTournament_CooperatorVsDefector(t *testing.T) {
	result, err := RunTournament([]string{"Cooperator", "Defector"}, 10, 1)
	if err != nil {
		t.Fatalf("RunTournament failed: %v", err)
	}

	// Two strategies, both orderings, one repetition.
	if result.TotalMatches != 2 {
		t.Errorf("total matches = %d, want 2", result.TotalMatches)
	}
	if result.Winner != "Defector" {
		t.Errorf("winner = %s, want Defector", result.Winner)
	}
	if len(result.Rankings) != 2 {
		t.Fatalf("expected 2 rankings, got %d", len(result.Rankings))
	}
	if result.Rankings[0].Strategy != "Defector" || result.Rankings[0].Rank != 1 {
		t.Errorf("unexpected first ranking: %+v", result.Rankings[0])
	}
	if result.Rankings[0].Score <= result.Rankings[1].Score {
		t.Errorf("Defector should outscore Cooperator: %f vs %f", result.Rankings[0].Score, result.Rankings[1].Score)
	}
	if result.CooperationRates["Cooperator"] != 1 {
		t.Errorf("Cooperator cooperation rate = %f, want 1", result.CooperationRates["Cooperator"])
	}
	if result.CooperationRates["Defector"] != 0 {
		t.Errorf("Defector cooperation rate = %f, want 0", result.CooperationRates["Defector"])
	}
}

func TestRunTournament_TiesKeepInputOrder(t *testing.T) {
	// TitForTat and Cooperator always cooperate with each other, so their
	// scores tie and the first-listed strategy wins.
	result, err := RunTournament([]string{"TitForTat", "Cooperator"}, 20, 3)
	if err != nil {
		t.Fatalf("RunTournament failed: %v", err)
	}
	if result.Rankings[0].Score != result.Rankings[1].Score {
		t.Fatalf("expected a tie, got %f vs %f", result.Rankings[0].Score, result.Rankings[1].Score)
	}
	if result.Winner != "TitForTat" {
		t.Errorf("tie should be broken by input order, winner = %s", result.Winner)
	}
}

func TestRunTournament_MatchCount(t *testing.T) {
	names := []string{"Cooperator", "Defector", "TitForTat", "Grudger"}
	result, err := RunTournament(names, 5, 3)
	if err != nil {
		t.Fatalf("RunTournament failed: %v", err)
	}
	// N*(N-1)*repetitions ordered pairs.
	if want := 4 * 3 * 3; result.TotalMatches != want {
		t.Errorf("total matches = %d, want %d", result.TotalMatches, want)
	}
}

func TestRunTournament_Validation(t *testing.T) {
	if _, err := RunTournament([]string{"Cooperator"}, 10, 1); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig for fewer than 2 strategies, got %v", err)
	}
	if _, err := RunTournament([]string{"Cooperator", "Defector"}, 0, 1); !errors.Is(err, ErrInvalidTurnCount) {
		t.Errorf("expected ErrInvalidTurnCount for zero turns, got %v", err)
	}
	if _, err := RunTournament([]string{"Cooperator", "Defector"}, 10, 0); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig for zero repetitions, got %v", err)
	}
	if _, err := RunTournament([]string{"Cooperator", "NoSuchStrategy"}, 10, 1); !errors.Is(err, ErrStrategyNotFound) {
		t.Errorf("expected ErrStrategyNotFound, got %v", err)
	}
}

func TestTournamentResult_JSONRoundTrip(t *testing.T) {
	result, err := RunTournament([]string{"TitForTat", "Defector", "Grudger"}, 10, 2)
	if err != nil {
		t.Fatalf("RunTournament failed: %v", err)
	}

	data, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var decoded TournamentResult
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if !reflect.DeepEqual(*result, decoded) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", decoded, *result)
	}
}
