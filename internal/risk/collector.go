package risk

import (
	"sort"

	"nev-montecarlo/internal/model"
)

// Collector gathers the trial outcomes of one (scenario, horizon) cell,
// keyed by strategy. It is not safe for concurrent use; give each worker
// its own collector and Merge them.
type Collector struct {
	scenario string
	horizon  model.Horizon
	byName   map[string][]model.TrialOutcome
}

func NewCollector(scenario string, horizon model.Horizon) *Collector {
	return &Collector{scenario: scenario, horizon: horizon, byName: map[string][]model.TrialOutcome{}}
}

func (c *Collector) Add(o model.TrialOutcome) {
	c.byName[o.Strategy] = append(c.byName[o.Strategy], o)
}

// Merge moves other's outcomes into c.
func (c *Collector) Merge(other *Collector) {
	if other == nil {
		return
	}
	for name, outs := range other.byName {
		c.byName[name] = append(c.byName[name], outs...)
	}
}

// Outcomes returns a strategy's outcomes ordered by trial.
func (c *Collector) Outcomes(strategy string) []model.TrialOutcome {
	outs := c.byName[strategy]
	sort.Slice(outs, func(i, j int) bool { return outs[i].Trial < outs[j].Trial })
	return outs
}

// Summarize aggregates one row per strategy, in the given order. The row
// named benchmark gets no outperformance probability.
func (c *Collector) Summarize(strategies []string, benchmark string, limits Limits) []model.SummaryRow {
	bench := c.Outcomes(benchmark)
	rows := make([]model.SummaryRow, 0, len(strategies))
	for _, name := range strategies {
		var ref []model.TrialOutcome
		if name != benchmark && benchmark != "" {
			ref = bench
			if ref == nil {
				ref = []model.TrialOutcome{}
			}
		}
		key := model.TripleKey{Strategy: name, Scenario: c.scenario, Horizon: c.horizon}
		rows = append(rows, Aggregate(key, c.Outcomes(name), ref, limits))
	}
	return rows
}
