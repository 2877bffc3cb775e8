package service

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"axiom/internal/game"
	"axiom/internal/model"
)

// MetricStats summarizes one metric across an experiment's completed runs.
type MetricStats struct {
	Mean     float64 `json:"mean"`
	Std      float64 `json:"std"`
	CI95Low  float64 `json:"ci95_low"`
	CI95High float64 `json:"ci95_high"`
}

// StrategyStats is the per-strategy breakdown across completed runs.
type StrategyStats struct {
	MeanScore           float64 `json:"mean_score"`
	MeanCooperationRate float64 `json:"mean_cooperation_rate"`
	Wins                int     `json:"wins"`
}

// ExperimentAnalysis aggregates all runs of one experiment.
type ExperimentAnalysis struct {
	ExperimentID    string                   `json:"experiment_id"`
	TotalRuns       int                      `json:"total_runs"`
	SuccessfulRuns  int                      `json:"successful_runs"`
	FailedRuns      int                      `json:"failed_runs"`
	CooperationRate *MetricStats             `json:"cooperation_rate,omitempty"`
	Score           *MetricStats             `json:"score,omitempty"`
	ByStrategy      map[string]StrategyStats `json:"by_strategy"`
	ComputedAt      time.Time                `json:"computed_at"`
}

// AnalyzeExperiment computes aggregate statistics over the persisted results
// of an experiment's completed runs.
func (s *ExperimentService) AnalyzeExperiment(ctx context.Context, experimentID string) (*ExperimentAnalysis, error) {
	if _, err := s.experiments.Get(ctx, experimentID); err != nil {
		return nil, err
	}
	runs, err := s.runs.ListByExperiment(ctx, experimentID)
	if err != nil {
		return nil, err
	}

	analysis := &ExperimentAnalysis{
		ExperimentID: experimentID,
		TotalRuns:    len(runs),
		ByStrategy:   map[string]StrategyStats{},
		ComputedAt:   time.Now().UTC(),
	}

	var coopSamples, scoreSamples []float64
	type accumulator struct {
		score, coop float64
		runs        int
		wins        int
	}
	byStrategy := map[string]*accumulator{}

	for i := range runs {
		switch runs[i].Status {
		case model.RunStatusFailed:
			analysis.FailedRuns++
			continue
		case model.RunStatusCompleted:
		default:
			continue
		}

		var result game.TournamentResult
		if err := json.Unmarshal(runs[i].Results, &result); err != nil || len(result.Rankings) == 0 {
			continue
		}
		analysis.SuccessfulRuns++

		runScore, runCoop := 0.0, 0.0
		for _, ranking := range result.Rankings {
			runScore += ranking.Score
			runCoop += ranking.CooperationRate

			acc := byStrategy[ranking.Strategy]
			if acc == nil {
				acc = &accumulator{}
				byStrategy[ranking.Strategy] = acc
			}
			acc.score += ranking.Score
			acc.coop += ranking.CooperationRate
			acc.runs++
			if ranking.Strategy == result.Winner {
				acc.wins++
			}
		}
		coopSamples = append(coopSamples, runCoop/float64(len(result.Rankings)))
		scoreSamples = append(scoreSamples, runScore/float64(len(result.Rankings)))
	}

	if len(coopSamples) > 0 {
		coop := summarize(coopSamples)
		score := summarize(scoreSamples)
		analysis.CooperationRate = &coop
		analysis.Score = &score
	}
	for name, acc := range byStrategy {
		analysis.ByStrategy[name] = StrategyStats{
			MeanScore:           acc.score / float64(acc.runs),
			MeanCooperationRate: acc.coop / float64(acc.runs),
			Wins:                acc.wins,
		}
	}
	return analysis, nil
}

// summarize computes mean, sample standard deviation and a normal-approx 95%
// confidence interval for the mean.
func summarize(samples []float64) MetricStats {
	n := float64(len(samples))
	mean := 0.0
	for _, v := range samples {
		mean += v
	}
	mean /= n

	variance := 0.0
	if len(samples) > 1 {
		for _, v := range samples {
			variance += (v - mean) * (v - mean)
		}
		variance /= n - 1
	}
	std := math.Sqrt(variance)
	half := 1.96 * std / math.Sqrt(n)

	return MetricStats{
		Mean:     mean,
		Std:      std,
		CI95Low:  mean - half,
		CI95High: mean + half,
	}
}
