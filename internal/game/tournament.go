package game

import (
	"fmt"
	"sort"
)

// Ranking is one strategy's aggregate standing in a tournament.
type Ranking struct {
	Rank            int     `json:"rank"`
	Strategy        string  `json:"strategy"`
	Score           float64 `json:"score"`
	CooperationRate float64 `json:"cooperation_rate"`
}

// TournamentResult aggregates a full round-robin tournament.
type TournamentResult struct {
	Rankings         []Ranking          `json:"rankings"`
	TotalMatches     int                `json:"total_matches"`
	Winner           string             `json:"winner"`
	CooperationRates map[string]float64 `json:"cooperation_rates"`
}

type standing struct {
	name    string
	order   int
	score   float64
	coop    float64
	matches int
}

// RunTournament plays a round-robin tournament: every ordered pair of
// distinct strategies plays `repetitions` independent matches of `turns`
// turns, for a total of N*(N-1)*repetitions matches. Strategy resolution is
// validated up front so a partial tournament is never produced. Rankings are
// sorted by descending mean score with ties broken by input order.
func RunTournament(names []string, turns, repetitions int) (*TournamentResult, error) {
	if len(names) < 2 {
		return nil, fmt.Errorf("%w: a tournament needs at least 2 strategies, got %d", ErrInvalidConfig, len(names))
	}
	if turns < 1 {
		return nil, fmt.Errorf("%w: turns must be at least 1, got %d", ErrInvalidTurnCount, turns)
	}
	if repetitions < 1 {
		return nil, fmt.Errorf("%w: repetitions must be at least 1, got %d", ErrInvalidConfig, repetitions)
	}

	// Resolve every name before playing anything so unknown strategies fail
	// fast with no matches played.
	canonical := make([]string, len(names))
	for i, name := range names {
		strategy, err := Resolve(name)
		if err != nil {
			return nil, err
		}
		canonical[i] = strategy.Name()
	}

	standings := make([]*standing, len(canonical))
	byName := make(map[string]*standing, len(canonical))
	for i, name := range canonical {
		s := &standing{name: name, order: i}
		standings[i] = s
		if _, exists := byName[name]; !exists {
			byName[name] = s
		}
	}

	totalMatches := 0
	for i := range canonical {
		for j := range canonical {
			if i == j {
				continue
			}
			for rep := 0; rep < repetitions; rep++ {
				// Fresh instances per match so no strategy state leaks
				// between repetitions.
				a, _ := Resolve(canonical[i])
				b, _ := Resolve(canonical[j])
				match, err := PlayMatch(a, b, turns)
				if err != nil {
					return nil, err
				}
				totalMatches++
				record(byName[canonical[i]], match.ScoreA, match.CooperationA)
				record(byName[canonical[j]], match.ScoreB, match.CooperationB)
			}
		}
	}

	ranked := make([]*standing, 0, len(byName))
	seen := map[string]bool{}
	for _, s := range standings {
		if !seen[s.name] {
			seen[s.name] = true
			ranked = append(ranked, s)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		si, sj := ranked[i], ranked[j]
		if si.meanScore() != sj.meanScore() {
			return si.meanScore() > sj.meanScore()
		}
		return si.order < sj.order
	})

	result := &TournamentResult{
		Rankings:         make([]Ranking, 0, len(ranked)),
		TotalMatches:     totalMatches,
		CooperationRates: make(map[string]float64, len(ranked)),
	}
	for i, s := range ranked {
		r := Ranking{
			Rank:            i + 1,
			Strategy:        s.name,
			Score:           s.meanScore(),
			CooperationRate: s.meanCooperation(),
		}
		result.Rankings = append(result.Rankings, r)
		result.CooperationRates[s.name] = r.CooperationRate
	}
	result.Winner = result.Rankings[0].Strategy
	return result, nil
}

func record(s *standing, score, coop float64) {
	s.score += score
	s.coop += coop
	s.matches++
}

func (s *standing) meanScore() float64 {
	if s.matches == 0 {
		return 0
	}
	return s.score / float64(s.matches)
}

func (s *standing) meanCooperation() float64 {
	if s.matches == 0 {
		return 0
	}
	return s.coop / float64(s.matches)
}
