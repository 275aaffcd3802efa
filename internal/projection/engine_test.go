package projection

import (
	"bytes"
	"encoding/csv"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nev-montecarlo/internal/model"
	"nev-montecarlo/internal/strategy"
)

func build(t *testing.T, kind model.StrategyKind) strategy.Strategy {
	t.Helper()
	for _, def := range strategy.DefaultDefinitions() {
		if def.Kind == kind {
			s, err := strategy.Build(def)
			require.NoError(t, err)
			return s
		}
	}
	t.Fatalf("no default definition for %s", kind)
	return nil
}

func flatTrajectory(h model.Horizon, ppy int, sw, ws float64) model.DemandTrajectory {
	n := h.Years() * ppy
	tr := model.DemandTrajectory{Scenario: "flat", Horizon: h, PeriodsPerYear: ppy,
		StudentWeeks: make([]float64, n), WeekendStudents: make([]float64, n)}
	for i := 0; i < n; i++ {
		tr.StudentWeeks[i] = sw
		tr.WeekendStudents[i] = ws
	}
	return tr
}

func simpleParams() model.CalibratedParameters {
	return model.CalibratedParameters{UnitPrice: 10, FixedCosts: 200}
}

func TestRun_ContinueDiscounting(t *testing.T) {
	e := New(Config{DiscountRate: 0.1, TerminalMultiple: 2})
	res, err := e.Run(flatTrajectory(2, 1, 100, 0), simpleParams(), build(t, model.KindContinue))
	require.NoError(t, err)

	// net per year: 1000 revenue - 200 fixed = 800
	p := res.Projection
	assert.Equal(t, []float64{800, 800}, p.CashFlows)
	assert.Equal(t, []float64{800, 800}, p.AnnualCashFlows)
	assert.InDelta(t, 800/1.1+800/1.21, p.PresentValueFlows, 1e-9)
	assert.InDelta(t, 1600.0, p.TerminalValue, 1e-9)
	assert.InDelta(t, 1600/1.21, p.PresentValueTerminal, 1e-9)
	assert.InDelta(t, p.PresentValueFlows+p.PresentValueTerminal, p.FinancialNEV, 1e-9)

	require.Len(t, res.Ledger, 2)
	assert.InDelta(t, 1/1.21, res.Ledger[1].DiscountFactor, 1e-12)
	assert.InDelta(t, p.PresentValueFlows, res.Ledger[1].CumPresentValue, 1e-9)
}

func TestRun_PeriodsPerYearKeepsAnnualRate(t *testing.T) {
	e := New(Config{DiscountRate: 0.08, TerminalMultiple: 0})
	res, err := e.Run(flatTrajectory(2, 4, 25, 0), simpleParams(), build(t, model.KindContinue))
	require.NoError(t, err)

	require.Len(t, res.Ledger, 8)
	assert.InDelta(t, 1/1.08, res.Ledger[3].DiscountFactor, 1e-12)
	assert.InDelta(t, 1/(1.08*1.08), res.Ledger[7].DiscountFactor, 1e-12)
	assert.InDelta(t, 800.0, res.Projection.AnnualCashFlows[0], 1e-9)
}

func TestProject_SellIgnoresDemand(t *testing.T) {
	e := New(DefaultConfig())
	params := simpleParams()
	params.Debt = model.DebtSchedule{Principal: 250_000, TermYears: 5}

	a, err := e.Project(flatTrajectory(5, 1, 100, 10), params, build(t, model.KindSell))
	require.NoError(t, err)
	b, err := e.Project(flatTrajectory(5, 1, 999, 0), params, build(t, model.KindSell))
	require.NoError(t, err)

	assert.InDelta(t, 1_850_000.0, a.FinancialNEV, 1e-6)
	assert.Equal(t, a.FinancialNEV, b.FinancialNEV)
	assert.Zero(t, a.PresentValueFlows)
	assert.Zero(t, a.TerminalValue)
}

func TestProject_FranchiseRenovationInYearOne(t *testing.T) {
	e := New(Config{DiscountRate: 0, TerminalMultiple: 0})
	params := simpleParams()
	params.FixedCosts = 0

	p, err := e.Project(flatTrajectory(2, 1, 100, 0), params, build(t, model.KindFranchise))
	require.NoError(t, err)
	rev := 10 * 0.58 * 100.0
	net := rev - 0.035*rev
	assert.InDelta(t, net-200_000, p.CashFlows[0], 1e-9)
	assert.InDelta(t, net, p.CashFlows[1], 1e-9)
}

func TestRun_Errors(t *testing.T) {
	e := New(DefaultConfig())
	var se *model.SimulationError

	_, err := e.Run(model.DemandTrajectory{Scenario: "s", Horizon: 2}, simpleParams(), build(t, model.KindContinue))
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "RELE", se.Strategy)
	assert.NotErrorIs(t, err, model.ErrNonFinite)

	tr := flatTrajectory(2, 1, math.Inf(1), 0)
	_, err = e.Run(tr, simpleParams(), build(t, model.KindContinue))
	require.ErrorAs(t, err, &se)
	assert.ErrorIs(t, err, model.ErrNonFinite)

	_, err = e.Run(flatTrajectory(2, 1, 1, 1), simpleParams(), nil)
	require.ErrorAs(t, err, &se)
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
	assert.Error(t, Config{DiscountRate: -1}.Validate())
	assert.Error(t, Config{TerminalMultiple: -0.5}.Validate())
}

func TestEncodeLedgerCSV(t *testing.T) {
	res, err := New(DefaultConfig()).Run(flatTrajectory(2, 1, 100, 5), simpleParams(), build(t, model.KindContinue))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, EncodeLedgerCSV(&buf, res.Ledger))
	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "index", rows[0][0])
	assert.Equal(t, "2", rows[2][1])
}
