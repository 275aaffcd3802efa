package scenario

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nev-montecarlo/internal/model"
	"nev-montecarlo/internal/strategy"
)

func byName(defs []strategy.Definition, name string) strategy.Definition {
	for _, d := range defs {
		if d.Name == name {
			return d
		}
	}
	return strategy.Definition{}
}

func TestDefaultCatalog(t *testing.T) {
	c := DefaultCatalog()
	require.NoError(t, c.Validate())
	assert.Len(t, c.Scenarios, 10)
	assert.Len(t, c.Strategies, 3)
	assert.Equal(t, []model.Horizon{2, 5, 7, 10}, c.Horizons)
	assert.Equal(t, "SELL", c.Benchmark)
	assert.Equal(t, []string{"RELE", "OILTS", "SELL"}, c.StrategyNames())

	// the catalog owns its horizons slice
	c.Horizons[0] = 99
	assert.Equal(t, model.Horizon(2), model.StandardHorizons[0])
}

func TestApply_Overrides(t *testing.T) {
	c := DefaultCatalog()

	tests := []struct {
		scenario string
		check    func(t *testing.T, defs []strategy.Definition)
	}{
		{"Base case", func(t *testing.T, defs []strategy.Definition) {
			assert.Equal(t, c.Strategies, defs)
		}},
		{"Cost inflation shock", func(t *testing.T, defs []strategy.Definition) {
			for _, d := range defs {
				assert.InDelta(t, 0.06, d.OperatingShift, 1e-12)
			}
		}},
		{"Lean staffing, low morale", func(t *testing.T, defs []strategy.Definition) {
			assert.Equal(t, 6.0, byName(defs, "RELE").Intangible.AdminScore)
			assert.Equal(t, 5.0, byName(defs, "OILTS").Intangible.AdminScore)
		}},
		{"OILTS better franchise deal", func(t *testing.T, defs []strategy.Definition) {
			o := byName(defs, "OILTS")
			require.NotNil(t, o.RoyaltyRate)
			assert.Equal(t, 0.04, *o.RoyaltyRate)
			assert.Equal(t, 9.0, o.Intangible.ReputationScore)
		}},
		{"Aggressive OILTS growth", func(t *testing.T, defs []strategy.Definition) {
			o := byName(defs, "OILTS")
			assert.InDelta(t, 1.15, o.DemandMultiplier, 1e-12)
			assert.Zero(t, o.WeekendDemandMultiplier)
			assert.InDelta(t, 1.0, byName(defs, "RELE").DemandMultiplier, 1e-12)
		}},
		{"Attractive exit market", func(t *testing.T, defs []strategy.Definition) {
			assert.InDelta(t, 2_520_000.0, byName(defs, "SELL").Offer, 1e-6)
			assert.Greater(t, byName(defs, "SELL").Offer, byName(strategy.DefaultDefinitions(), "SELL").Offer)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.scenario, func(t *testing.T) {
			s, ok := c.Scenario(tt.scenario)
			require.True(t, ok)
			defs, err := s.Apply(c.Strategies)
			require.NoError(t, err)
			tt.check(t, defs)
		})
	}
}

func TestApply_DoesNotMutateCatalog(t *testing.T) {
	c := DefaultCatalog()
	before := DefaultCatalog().Strategies

	for _, s := range c.Scenarios {
		_, err := s.Apply(c.Strategies)
		require.NoError(t, err)
	}
	assert.Equal(t, before, c.Strategies)
	assert.InDelta(t, 0.035, *byName(c.Strategies, "OILTS").RoyaltyRate, 1e-12)
}

func TestApply_UnknownStrategy(t *testing.T) {
	s := Scenario{Name: "x", Demand: model.NeutralDemand(), Overrides: []Override{{Strategy: "HOLD"}}}
	_, err := s.Apply(DefaultCatalog().Strategies)
	var ce *model.ConfigurationError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "scenarios.x.overrides", ce.Field)
}

func TestCatalog_Validate(t *testing.T) {
	tests := []struct {
		name  string
		mod   func(*Catalog)
		field string
	}{
		{"no scenarios", func(c *Catalog) { c.Scenarios = nil }, "scenarios"},
		{"no horizons", func(c *Catalog) { c.Horizons = nil }, "horizons"},
		{"bad horizon", func(c *Catalog) { c.Horizons = []model.Horizon{0} }, "horizons"},
		{"duplicate horizon", func(c *Catalog) { c.Horizons = []model.Horizon{5, 5} }, "horizons"},
		{"unknown benchmark", func(c *Catalog) { c.Benchmark = "HOLD" }, "benchmark"},
		{"duplicate scenario", func(c *Catalog) { c.Scenarios = append(c.Scenarios, c.Scenarios[0]) }, "scenarios"},
		{"negative shift", func(c *Catalog) { c.Scenarios[1].Demand.Shift = -2 }, "scenarios.Mild demand downside.demand.shift"},
		{"override breaks definition", func(c *Catalog) {
			c.Scenarios[0].Overrides = []Override{{Strategy: "RELE", AdminScore: f(12)}}
		}, "strategies.RELE.intangible"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultCatalog()
			tt.mod(&c)
			var ce *model.ConfigurationError
			require.ErrorAs(t, c.Validate(), &ce)
			assert.Equal(t, tt.field, ce.Field)
		})
	}
}
