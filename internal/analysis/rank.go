package analysis

import (
	"sort"

	"nev-montecarlo/internal/model"
)

// RankMetric selects the statistic used to order strategies.
type RankMetric string

const (
	RankByExpected RankMetric = "expected"
	RankByCVaR     RankMetric = "cvar"
)

func ParseRankMetric(s string) (RankMetric, bool) {
	switch RankMetric(s) {
	case RankByExpected, RankByCVaR:
		return RankMetric(s), true
	case "":
		return RankByExpected, true
	}
	return "", false
}

// RankedCell is the ordering of strategies for one (scenario, horizon) cell.
type RankedCell struct {
	Scenario string             `json:"scenario"`
	Horizon  model.Horizon      `json:"horizon"`
	Rows     []model.SummaryRow `json:"rows"`
	Best     string             `json:"best,omitempty"`
}

// Rank groups summary rows by (scenario, horizon) and sorts each group
// descending by metric. Failed rows sort last. Cell order follows the first
// appearance of each cell in rows.
func Rank(rows []model.SummaryRow, metric RankMetric) []RankedCell {
	type cellKey struct {
		scenario string
		horizon  model.Horizon
	}
	index := map[cellKey]int{}
	var out []RankedCell
	for _, r := range rows {
		k := cellKey{r.Scenario, r.Horizon}
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, RankedCell{Scenario: r.Scenario, Horizon: r.Horizon})
		}
		out[i].Rows = append(out[i].Rows, r)
	}

	for i := range out {
		cell := out[i].Rows
		sort.SliceStable(cell, func(a, b int) bool {
			if cell[a].Failed != cell[b].Failed {
				return !cell[a].Failed
			}
			return metricOf(cell[a], metric) > metricOf(cell[b], metric)
		})
		if len(cell) > 0 && !cell[0].Failed {
			out[i].Best = cell[0].Strategy
		}
	}
	return out
}

func metricOf(r model.SummaryRow, m RankMetric) float64 {
	if m == RankByCVaR {
		return r.CVaR5
	}
	return r.ExpectedNEV
}
