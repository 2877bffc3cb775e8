package game

import (
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"
)

// Strategy decides the next move of an iterated prisoner's dilemma given the
// bounded history seen so far. Implementations must derive any state from the
// history alone so that a fresh instance starts every match clean.
type Strategy interface {
	Name() string
	NextAction(history []HistoryEntry) Action
}

// Info describes a registered strategy for listing purposes.
type Info struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type registration struct {
	name        string
	description string
	factory     func() Strategy
}

// registry is keyed by lowercase canonical name.
var registry = map[string]registration{}

// aliases maps lowercase colloquial names to lowercase canonical names.
// Resolved before registry lookup.
var aliases = map[string]string{
	"pavlov": "winstayloseshift",
}

func register(name, description string, factory func() Strategy) {
	registry[strings.ToLower(name)] = registration{name: name, description: description, factory: factory}
}

func init() {
	register("Cooperator", "Always cooperates.", func() Strategy { return cooperator{} })
	register("Defector", "Always defects.", func() Strategy { return defector{} })
	register("TitForTat", "Cooperates first, then copies the opponent's last move.", func() Strategy { return titForTat{} })
	register("TitForTwoTats", "Defects only after two consecutive opponent defections.", func() Strategy { return titForTwoTats{} })
	register("Grudger", "Cooperates until the opponent defects once, then defects forever.", func() Strategy { return grudger{} })
	register("WinStayLoseShift", "Repeats its move after matching the opponent, switches otherwise.", func() Strategy { return winStayLoseShift{} })
	register("Random", "Cooperates or defects with equal probability.", func() Strategy {
		return &randomStrategy{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
	})
	register("Alternator", "Alternates between cooperation and defection, starting with cooperation.", func() Strategy { return alternator{} })
	register("SuspiciousTitForTat", "Defects first, then copies the opponent's last move.", func() Strategy { return suspiciousTitForTat{} })
}

// Resolve returns a fresh instance of the named strategy. Lookup is
// case-insensitive and aliases are resolved first.
func Resolve(name string) (Strategy, error) {
	key := strings.ToLower(name)
	if canonical, ok := aliases[key]; ok {
		key = canonical
	}
	reg, ok := registry[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrStrategyNotFound, name)
	}
	return reg.factory(), nil
}

// List returns the catalog of registered strategies sorted by name.
func List() []Info {
	infos := make([]Info, 0, len(registry))
	for _, reg := range registry {
		infos = append(infos, Info{Name: reg.name, Description: reg.description})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

type cooperator struct{}

func (cooperator) Name() string                     { return "Cooperator" }
func (cooperator) NextAction([]HistoryEntry) Action { return Cooperate }

type defector struct{}

func (defector) Name() string                     { return "Defector" }
func (defector) NextAction([]HistoryEntry) Action { return Defect }

type titForTat struct{}

func (titForTat) Name() string { return "TitForTat" }

func (titForTat) NextAction(history []HistoryEntry) Action {
	if len(history) == 0 {
		return Cooperate
	}
	return history[len(history)-1].Opponent
}

type titForTwoTats struct{}

func (titForTwoTats) Name() string { return "TitForTwoTats" }

func (titForTwoTats) NextAction(history []HistoryEntry) Action {
	n := len(history)
	if n >= 2 && history[n-1].Opponent == Defect && history[n-2].Opponent == Defect {
		return Defect
	}
	return Cooperate
}

type grudger struct{}

func (grudger) Name() string { return "Grudger" }

func (grudger) NextAction(history []HistoryEntry) Action {
	for _, h := range history {
		if h.Opponent == Defect {
			return Defect
		}
	}
	return Cooperate
}

type winStayLoseShift struct{}

func (winStayLoseShift) Name() string { return "WinStayLoseShift" }

func (winStayLoseShift) NextAction(history []HistoryEntry) Action {
	if len(history) == 0 {
		return Cooperate
	}
	last := history[len(history)-1]
	if last.Own == last.Opponent {
		return last.Own
	}
	if last.Own == Cooperate {
		return Defect
	}
	return Cooperate
}

type randomStrategy struct {
	rng *rand.Rand
}

func (*randomStrategy) Name() string { return "Random" }

func (s *randomStrategy) NextAction([]HistoryEntry) Action {
	if s.rng.Intn(2) == 0 {
		return Cooperate
	}
	return Defect
}

type alternator struct{}

func (alternator) Name() string { return "Alternator" }

func (alternator) NextAction(history []HistoryEntry) Action {
	if len(history)%2 == 0 {
		return Cooperate
	}
	return Defect
}

type suspiciousTitForTat struct{}

func (suspiciousTitForTat) Name() string { return "SuspiciousTitForTat" }

func (suspiciousTitForTat) NextAction(history []HistoryEntry) Action {
	if len(history) == 0 {
		return Defect
	}
	return history[len(history)-1].Opponent
}
