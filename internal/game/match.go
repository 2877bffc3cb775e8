package game

import "fmt"

// MatchResult holds the full action record and derived metrics of one
// repeated game between two strategies.
type MatchResult struct {
	ActionsA     []Action `json:"actions_a"`
	ActionsB     []Action `json:"actions_b"`
	ScoreA       float64  `json:"score_a"`
	ScoreB       float64  `json:"score_b"`
	CooperationA float64  `json:"cooperation_a"`
	CooperationB float64  `json:"cooperation_b"`
}

// stagePayoff is the standard prisoner's dilemma stage game.
func stagePayoff(a, b Action) (float64, float64) {
	switch {
	case a == Cooperate && b == Cooperate:
		return 3, 3
	case a == Cooperate && b == Defect:
		return 0, 5
	case a == Defect && b == Cooperate:
		return 5, 0
	default:
		return 1, 1
	}
}

// PlayMatch plays a repeated prisoner's dilemma between two strategies for the
// given number of turns. Each turn both strategies observe only the history of
// completed rounds, so neither sees the opponent's current move.
func PlayMatch(a, b Strategy, turns int) (*MatchResult, error) {
	if turns < 1 {
		return nil, fmt.Errorf("%w: turns must be at least 1, got %d", ErrInvalidTurnCount, turns)
	}

	result := &MatchResult{
		ActionsA: make([]Action, 0, turns),
		ActionsB: make([]Action, 0, turns),
	}
	historyA := make([]HistoryEntry, 0, turns)
	historyB := make([]HistoryEntry, 0, turns)

	for round := 1; round <= turns; round++ {
		actA := a.NextAction(historyA)
		actB := b.NextAction(historyB)

		payA, payB := stagePayoff(actA, actB)
		result.ScoreA += payA
		result.ScoreB += payB
		result.ActionsA = append(result.ActionsA, actA)
		result.ActionsB = append(result.ActionsB, actB)

		historyA = append(historyA, HistoryEntry{Round: round, Own: actA, Opponent: actB})
		historyB = append(historyB, HistoryEntry{Round: round, Own: actB, Opponent: actA})
	}

	result.CooperationA = cooperationRate(result.ActionsA)
	result.CooperationB = cooperationRate(result.ActionsB)
	return result, nil
}

func cooperationRate(actions []Action) float64 {
	if len(actions) == 0 {
		return 0
	}
	cooperations := 0
	for _, a := range actions {
		if a == Cooperate {
			cooperations++
		}
	}
	return float64(cooperations) / float64(len(actions))
}
