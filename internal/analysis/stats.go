package analysis

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"nev-montecarlo/internal/model"
)

// streamStats summarizes one demand stream. Volatility is the sample
// std-dev of log growth rates; with fewer than two usable growth rates it
// falls back to the coefficient of variation of the levels.
func streamStats(levels []float64) model.DemandStats {
	mean := stat.Mean(levels, nil)
	if mean <= 0 {
		return model.DemandStats{}
	}

	growth := logGrowth(levels)
	var vol float64
	switch {
	case len(growth) >= 2:
		vol = stat.StdDev(growth, nil)
	case len(levels) >= 2:
		vol = stat.StdDev(levels, nil) / mean
	}
	if math.IsNaN(vol) {
		vol = 0
	}
	return model.DemandStats{Base: mean, Volatility: vol}
}

// logGrowth returns ln(x[i]/x[i-1]) for each consecutive pair where both
// levels are positive.
func logGrowth(levels []float64) []float64 {
	out := make([]float64, 0, len(levels))
	for i := 1; i < len(levels); i++ {
		prev, cur := levels[i-1], levels[i]
		if prev <= 0 || cur <= 0 {
			continue
		}
		out = append(out, math.Log(cur/prev))
	}
	return out
}
