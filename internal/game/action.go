package game

// Action is a single move in the iterated prisoner's dilemma.
type Action string

const (
	Cooperate Action = "C"
	Defect    Action = "D"
)

func (a Action) valid() bool {
	return a == Cooperate || a == Defect
}

// HistoryEntry records one completed round from one player's perspective.
// Rounds are numbered from 1 and only ever appended during a match.
type HistoryEntry struct {
	Round    int    `json:"round"`
	Own      Action `json:"own_action"`
	Opponent Action `json:"opponent_action"`
}
