package game

import "fmt"

// ProbeResult holds a strategy's metrics against one canonical opponent.
type ProbeResult struct {
	Score           float64 `json:"score"`
	CooperationRate float64 `json:"cooperation_rate"`
}

// AnalysisResult characterizes a strategy's behavior against the three
// canonical probes.
type AnalysisResult struct {
	StrategyName    string      `json:"strategy_name"`
	CooperationRate float64     `json:"cooperation_rate"`
	AverageScore    float64     `json:"average_score"`
	VsCooperator    ProbeResult `json:"vs_cooperator"`
	VsDefector      ProbeResult `json:"vs_defector"`
	VsTitForTat     ProbeResult `json:"vs_tit_for_tat"`
}

// AnalyzeStrategy plays the named strategy against Cooperator, Defector and
// TitForTat, one match each, using a freshly resolved instance per probe.
func AnalyzeStrategy(name string, turns int) (*AnalysisResult, error) {
	// Resolve once up front so an unknown name fails before any match.
	target, err := Resolve(name)
	if err != nil {
		return nil, err
	}
	if turns < 1 {
		return nil, fmt.Errorf("%w: turns must be at least 1, got %d", ErrInvalidTurnCount, turns)
	}

	result := &AnalysisResult{StrategyName: target.Name()}
	probes := []struct {
		opponent string
		slot     *ProbeResult
	}{
		{"Cooperator", &result.VsCooperator},
		{"Defector", &result.VsDefector},
		{"TitForTat", &result.VsTitForTat},
	}

	for _, probe := range probes {
		fresh, err := Resolve(name)
		if err != nil {
			return nil, err
		}
		opponent, err := Resolve(probe.opponent)
		if err != nil {
			return nil, err
		}
		match, err := PlayMatch(fresh, opponent, turns)
		if err != nil {
			return nil, err
		}
		probe.slot.Score = match.ScoreA
		probe.slot.CooperationRate = match.CooperationA
	}

	result.CooperationRate = (result.VsCooperator.CooperationRate +
		result.VsDefector.CooperationRate +
		result.VsTitForTat.CooperationRate) / 3
	result.AverageScore = (result.VsCooperator.Score +
		result.VsDefector.Score +
		result.VsTitForTat.Score) / 3
	return result, nil
}
