package game

import "fmt"

// Play resolves a strategy, asks it for its next move given the history, and
// returns the move together with a short human-readable explanation. History
// entries carrying anything other than "C"/"D" are rejected.
func Play(name string, history []HistoryEntry) (Action, string, error) {
	strategy, err := Resolve(name)
	if err != nil {
		return "", "", err
	}
	for _, h := range history {
		if !h.Own.valid() || !h.Opponent.valid() {
			return "", "", fmt.Errorf("%w: history round %d", ErrInvalidAction, h.Round)
		}
	}
	action := strategy.NextAction(history)
	return action, reasoningFor(strategy.Name(), history), nil
}

func reasoningFor(name string, history []HistoryEntry) string {
	if len(history) == 0 {
		return fmt.Sprintf("%s: first move, following initial strategy", name)
	}
	last := history[len(history)-1]

	switch name {
	case "Cooperator":
		return "Cooperator: always cooperate"
	case "Defector":
		return "Defector: always defect"
	case "TitForTat":
		return fmt.Sprintf("TitForTat: copying opponent's last action (%s)", last.Opponent)
	case "Grudger":
		for _, h := range history {
			if h.Opponent == Defect {
				return "Grudger: opponent defected before, retaliating forever"
			}
		}
		return "Grudger: cooperating while opponent cooperates"
	case "WinStayLoseShift":
		if last.Own == last.Opponent {
			return "WinStayLoseShift: both took the same action last round, repeating my action"
		}
		return "WinStayLoseShift: actions differed last round, switching"
	default:
		return fmt.Sprintf("%s: following strategy logic based on history", name)
	}
}
