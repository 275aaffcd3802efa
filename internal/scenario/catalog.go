package scenario

import (
	"fmt"

	"nev-montecarlo/internal/model"
	"nev-montecarlo/internal/strategy"
)

// Catalog is the immutable input of one run: what to evaluate, where and
// for how long. Pass it by value.
type Catalog struct {
	Scenarios  []Scenario            `json:"scenarios" yaml:"scenarios"`
	Strategies []strategy.Definition `json:"strategies" yaml:"strategies"`
	Horizons   []model.Horizon       `json:"horizons" yaml:"horizons"`
	// Benchmark names the strategy other strategies are compared against.
	Benchmark string `json:"benchmark" yaml:"benchmark"`
}

func (c Catalog) Validate() error {
	if len(c.Scenarios) == 0 {
		return &model.ConfigurationError{Field: "scenarios", Message: "at least one scenario is required"}
	}
	if len(c.Strategies) == 0 {
		return &model.ConfigurationError{Field: "strategies", Message: "at least one strategy is required"}
	}
	if len(c.Horizons) == 0 {
		return &model.ConfigurationError{Field: "horizons", Message: "at least one horizon is required"}
	}

	names := map[string]bool{}
	for _, d := range c.Strategies {
		if err := d.Validate(); err != nil {
			return err
		}
		if names[d.Name] {
			return &model.ConfigurationError{Field: "strategies", Message: fmt.Sprintf("duplicate strategy %q", d.Name)}
		}
		names[d.Name] = true
	}
	if c.Benchmark != "" && !names[c.Benchmark] {
		return &model.ConfigurationError{Field: "benchmark", Message: fmt.Sprintf("unknown strategy %q", c.Benchmark)}
	}

	seenH := map[model.Horizon]bool{}
	for _, h := range c.Horizons {
		if !h.Valid() {
			return &model.ConfigurationError{Field: "horizons", Message: fmt.Sprintf("invalid horizon %d", h)}
		}
		if seenH[h] {
			return &model.ConfigurationError{Field: "horizons", Message: fmt.Sprintf("duplicate horizon %d", h)}
		}
		seenH[h] = true
	}

	seenS := map[string]bool{}
	for _, s := range c.Scenarios {
		if err := s.Validate(); err != nil {
			return err
		}
		if seenS[s.Name] {
			return &model.ConfigurationError{Field: "scenarios", Message: fmt.Sprintf("duplicate scenario %q", s.Name)}
		}
		seenS[s.Name] = true
		if _, err := s.Apply(c.Strategies); err != nil {
			return err
		}
	}
	return nil
}

// StrategyNames returns the strategy names in catalog order.
func (c Catalog) StrategyNames() []string {
	out := make([]string, len(c.Strategies))
	for i, d := range c.Strategies {
		out[i] = d.Name
	}
	return out
}

// Scenario looks a scenario up by name.
func (c Catalog) Scenario(name string) (Scenario, bool) {
	for _, s := range c.Scenarios {
		if s.Name == name {
			return s, true
		}
	}
	return Scenario{}, false
}

func f(v float64) *float64 { return &v }

// DefaultCatalog is the standard evaluation: ten scenarios, three
// strategies, four horizons, SELL as benchmark.
//
// "Attractive exit market" scales the configured offer by 1.20 instead of
// fixing an absolute sale price, so it stays above the base offer whatever
// that offer is.
func DefaultCatalog() Catalog {
	neutral := model.NeutralDemand()
	shift := func(s float64) model.DemandAssumptions {
		d := neutral
		d.Shift = s
		return d
	}
	rele, oilts, sell := string(model.KindContinue), string(model.KindFranchise), string(model.KindSell)

	return Catalog{
		Scenarios: []Scenario{
			{Name: "Base case", Demand: neutral},
			{Name: "Mild demand downside", Demand: shift(-0.10)},
			{Name: "Mild demand upside", Demand: shift(0.10)},
			{Name: "Cost inflation shock", Demand: neutral, OperatingShift: 0.06},
			{
				Name: "Lean staffing, low morale", Demand: neutral, OperatingShift: -0.04,
				Overrides: []Override{
					{Strategy: rele, AdminScore: f(6.0)},
					{Strategy: oilts, AdminScore: f(5.0)},
				},
			},
			{
				Name: "RELE quality focus", Demand: neutral, OperatingShift: 0.02,
				Overrides: []Override{{Strategy: rele, ReputationScore: f(8.5), BrandScore: f(8.0)}},
			},
			{
				Name: "OILTS better franchise deal", Demand: neutral,
				Overrides: []Override{{Strategy: oilts, RoyaltyRate: f(0.04), ReputationScore: f(9.0)}},
			},
			{
				Name: "OILTS worse franchise deal", Demand: neutral,
				Overrides: []Override{{Strategy: oilts, RoyaltyRate: f(0.06)}},
			},
			{
				Name: "Aggressive OILTS growth", Demand: neutral, OperatingShift: 0.03,
				Overrides: []Override{{Strategy: oilts, DemandMultiplier: f(1.15), ReputationScore: f(9.0), BrandScore: f(7.5)}},
			},
			{
				Name: "Attractive exit market", Demand: neutral,
				Overrides: []Override{{Strategy: sell, OfferMultiplier: f(1.20)}},
			},
		},
		Strategies: strategy.DefaultDefinitions(),
		Horizons:   append([]model.Horizon(nil), model.StandardHorizons...),
		Benchmark:  sell,
	}
}
