// Package risk turns per-trial outcomes into distributional statistics.
package risk

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"nev-montecarlo/internal/model"
)

type Limits struct {
	// TailLevel is the VaR/CVaR quantile, 0.05 by default.
	TailLevel float64 `json:"tail_level" yaml:"tail_level"`
	// UpperLevel is the upper reporting quantile, 0.95 by default.
	UpperLevel float64 `json:"upper_level" yaml:"upper_level"`
	// MaxFailureRate is the largest tolerated share of failed or
	// discarded trials before a triple is marked failed.
	MaxFailureRate float64 `json:"max_failure_rate" yaml:"max_failure_rate"`
}

func DefaultLimits() Limits {
	return Limits{TailLevel: 0.05, UpperLevel: 0.95, MaxFailureRate: 0.10}
}

func (l Limits) Validate() error {
	if !(l.TailLevel > 0 && l.TailLevel < 1) {
		return &model.ConfigurationError{Field: "risk.tail_level", Message: "must be in (0, 1)"}
	}
	if !(l.UpperLevel > 0 && l.UpperLevel < 1) || l.UpperLevel <= l.TailLevel {
		return &model.ConfigurationError{Field: "risk.upper_level", Message: "must be in (tail_level, 1)"}
	}
	if math.IsNaN(l.MaxFailureRate) || l.MaxFailureRate < 0 || l.MaxFailureRate > 1 {
		return &model.ConfigurationError{Field: "risk.max_failure_rate", Message: "must be in [0, 1]"}
	}
	return nil
}

// Aggregate summarizes the outcomes of one triple. benchmark holds the
// benchmark strategy's outcomes for the same trials; pass nil for the
// benchmark's own row.
func Aggregate(key model.TripleKey, outcomes, benchmark []model.TrialOutcome, limits Limits) model.SummaryRow {
	row := model.SummaryRow{
		Strategy: key.Strategy,
		Scenario: key.Scenario,
		Horizon:  key.Horizon,
		Trials:   len(outcomes),
	}

	values := make([]float64, 0, len(outcomes))
	valid := make(map[int]float64, len(outcomes))
	for _, o := range outcomes {
		switch {
		case errors.Is(o.Err, model.ErrNonFinite):
			row.Discarded++
		case o.Err != nil:
			row.FailedTrials++
		case !finite(o.TotalNEV):
			row.Discarded++
		default:
			values = append(values, o.TotalNEV)
			valid[o.Trial] = o.TotalNEV
		}
	}
	row.ValidTrials = len(values)

	if len(values) > 0 {
		sort.Float64s(values)
		row.ExpectedNEV = stat.Mean(values, nil)
		if len(values) > 1 {
			row.StdDevNEV = stat.StdDev(values, nil)
		}
		row.VaR5 = quantileSorted(values, limits.TailLevel)
		row.CVaR5 = tailMean(values, row.VaR5)
		row.P95 = quantileSorted(values, limits.UpperLevel)
	}

	if benchmark != nil {
		row.OutperformanceProb = outperformance(valid, benchmark)
	}

	invalid := row.FailedTrials + row.Discarded
	switch {
	case row.Trials == 0:
		row.Failed = true
		row.FailureReason = "no trials"
	case row.ValidTrials == 0:
		row.Failed = true
		row.FailureReason = fmt.Sprintf("no valid trials (%d failed, %d discarded)", row.FailedTrials, row.Discarded)
	case float64(invalid)/float64(row.Trials) > limits.MaxFailureRate:
		row.Failed = true
		row.FailureReason = fmt.Sprintf("%d of %d trials failed or were discarded, above the %.0f%% limit",
			invalid, row.Trials, limits.MaxFailureRate*100)
	}
	return row
}

// outperformance is the share of paired trials, both valid, where the
// candidate beats the benchmark. Nil when no pair exists.
func outperformance(candidate map[int]float64, benchmark []model.TrialOutcome) *float64 {
	pairs, wins := 0, 0
	for _, b := range benchmark {
		if b.Err != nil || !finite(b.TotalNEV) {
			continue
		}
		c, ok := candidate[b.Trial]
		if !ok {
			continue
		}
		pairs++
		if c > b.TotalNEV {
			wins++
		}
	}
	if pairs == 0 {
		return nil
	}
	p := float64(wins) / float64(pairs)
	return &p
}

func finite(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }
