package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nev-montecarlo/internal/analysis"
	"nev-montecarlo/internal/data"
	"nev-montecarlo/internal/model"
	"nev-montecarlo/internal/montecarlo"
	"nev-montecarlo/internal/scenario"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestDefault_MatchesBuiltins(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, scenario.DefaultCatalog(), c.ToCatalog())
	assert.Equal(t, montecarlo.DefaultOptions(), c.ToOptions())
	assert.Equal(t, 5, c.ToCalibrationOptions().DebtTermYears)
}

func TestLoad_EmptyFileIsDefault(t *testing.T) {
	p := writeFile(t, t.TempDir(), "empty.yaml", "")
	c, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, Default().ToCatalog(), c.ToCatalog())
}

func TestLoad_OverlaysSections(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "history.csv", "period,revenue\n")
	p := writeFile(t, dir, "run.yaml", `
history_file: history.csv
calibration:
  debt:
    principal: 250000
    rate: 0.04
    term_years: 5
simulation:
  trials: 500
  seed: 7
  periods_per_year: 4
  timeout: 30s
valuation:
  discount_rate: 0
  terminal_multiple: 4.5
risk:
  tail_level: 0.10
intangibles:
  moral: 200000
horizons: [3, 6]
`)
	c, err := Load(p)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "history.csv"), c.HistoryFile)

	o := c.ToOptions()
	assert.Equal(t, 500, o.Trials)
	assert.Equal(t, uint64(7), o.Seed)
	assert.Equal(t, 4, o.Workers)
	assert.Equal(t, 4, o.PeriodsPerYear)
	assert.Equal(t, 30*time.Second, o.Timeout)
	assert.Equal(t, 0.0, o.Valuation.DiscountRate)
	assert.Equal(t, 4.5, o.Valuation.TerminalMultiple)
	assert.Equal(t, 0.10, o.Limits.TailLevel)
	assert.Equal(t, 0.95, o.Limits.UpperLevel)
	assert.Equal(t, 200_000.0, o.Rates.Moral)
	assert.Equal(t, 75_000.0, o.Rates.Reputation)

	cal := c.ToCalibrationOptions()
	require.NotNil(t, cal.Debt)
	assert.Equal(t, model.DebtSchedule{Principal: 250_000, Rate: 0.04, TermYears: 5}, *cal.Debt)

	cat := c.ToCatalog()
	assert.Equal(t, []model.Horizon{3, 6}, cat.Horizons)
	assert.Len(t, cat.Scenarios, 10)
}

func TestLoad_StrategiesOverlayDefaults(t *testing.T) {
	p := writeFile(t, t.TempDir(), "s.yaml", `
strategies:
  - name: RELE
  - name: OILTS
    royalty_rate: 0.05
    renovation:
      cost: 300000
      amortization_years: 3
  - name: SELL
    offer: 1800000
    intangible:
      admin_score: 4
scenarios:
  - name: Flat
  - name: Recession
    demand:
      shift: -0.2
      growth: -0.03
    overrides:
      - strategy: SELL
        offer_multiplier: 0.8
`)
	c, err := Load(p)
	require.NoError(t, err)
	cat := c.ToCatalog()

	require.Len(t, cat.Strategies, 3)
	rele, oilts, sell := cat.Strategies[0], cat.Strategies[1], cat.Strategies[2]
	assert.Equal(t, model.KindContinue, rele.Kind)
	assert.Equal(t, 1.0, rele.PriceMultiplier)
	assert.Equal(t, 0.58, oilts.PriceMultiplier)
	require.NotNil(t, oilts.RoyaltyRate)
	assert.Equal(t, 0.05, *oilts.RoyaltyRate)
	assert.Equal(t, 3, oilts.Renovation.AmortizationYears)
	assert.Equal(t, 1_800_000.0, sell.Offer)
	assert.Equal(t, 4.0, sell.Intangible.AdminScore)
	assert.Equal(t, 2.0, sell.Intangible.PrestigeScore)

	require.Len(t, cat.Scenarios, 2)
	assert.Equal(t, model.NeutralDemand(), cat.Scenarios[0].Demand)
	assert.Equal(t, 1.0, cat.Scenarios[1].Demand.VolatilityMultiplier)
	assert.Equal(t, -0.2, cat.Scenarios[1].Demand.Shift)
	require.Len(t, cat.Scenarios[1].Overrides, 1)
	assert.Equal(t, 0.8, *cat.Scenarios[1].Overrides[0].OfferMultiplier)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"unknown kind", "strategies:\n  - name: HOLD\n", "strategies.HOLD.kind"},
		{"bad benchmark", "benchmark: HOLD\n", "benchmark"},
		{"bad horizon", "horizons: [0]\n", "horizons"},
		{"negative trials", "simulation:\n  trials: -5\n", "simulation.trials"},
		{"bad debt", "calibration:\n  debt:\n    principal: 10\n", "calibration.debt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := writeFile(t, t.TempDir(), "bad.yaml", tt.body)
			_, err := Load(p)
			var ce *model.ConfigurationError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.field, ce.Field)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Parse([]byte("simulation: [1, 2"))
	assert.Error(t, err)
}

func TestLoadRuntime(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_PRETTY", "true")
	t.Setenv("API_PORT", "9090")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.example, http://b.example,")
	t.Setenv("RESULT_CACHE_TTL", "5m")
	t.Setenv("RUN_TIMEOUT", "bogus")

	r := LoadRuntime()
	assert.Equal(t, "debug", r.LogLevel)
	assert.True(t, r.LogPretty)
	assert.Equal(t, "9090", r.APIPort)
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, r.CORSAllowedOrigins)
	assert.Equal(t, 5*time.Minute, r.ResultCacheTTL)
	assert.Equal(t, 2*time.Minute, r.RunTimeout)
	assert.False(t, r.Production())
}

func TestParseOver_KeepsBase(t *testing.T) {
	base, err := Parse([]byte("simulation:\n  trials: 200\n"))
	require.NoError(t, err)

	c, err := ParseOver(base, []byte("simulation:\n  seed: 9\n"))
	require.NoError(t, err)
	assert.Equal(t, 200, c.Simulation.Trials)
	assert.Equal(t, uint64(9), c.Simulation.Seed)
	assert.Equal(t, uint64(42), base.Simulation.Seed)
}

func TestLoad_ExampleConfig(t *testing.T) {
	c, err := Load(filepath.Join("..", "..", "examples", "config.yaml"))
	require.NoError(t, err)

	cat := c.ToCatalog()
	require.Len(t, cat.Scenarios, 6)
	assert.Equal(t, []string{"RELE", "OILTS", "SELL"}, cat.StrategyNames())
	assert.Equal(t, 1.0, cat.Scenarios[1].Demand.VolatilityMultiplier)
	assert.InDelta(t, -0.10, cat.Scenarios[1].Demand.Shift, 1e-12)
	assert.Equal(t, 2*time.Minute, c.ToOptions().Timeout)

	records, err := data.LoadHistory(c.HistoryFile)
	require.NoError(t, err)
	require.Len(t, records, 5)

	params, err := analysis.Calibrate(records, c.ToCalibrationOptions())
	require.NoError(t, err)
	assert.Equal(t, model.DebtSchedule{Principal: 250000, TermYears: 5}, params.Debt)
	assert.InDelta(t, 0.16, params.RoyaltyRate, 1e-3)
}
