package projection

import (
	"errors"
	"fmt"
	"math"

	"nev-montecarlo/internal/model"
	"nev-montecarlo/internal/strategy"
)

// Config holds the valuation conventions. Rates are annual; cash flows are
// discounted at the end of each period and the terminal value at the horizon.
type Config struct {
	DiscountRate     float64
	TerminalMultiple float64
}

func DefaultConfig() Config {
	return Config{DiscountRate: 0.08, TerminalMultiple: 3}
}

func (c Config) Validate() error {
	if math.IsNaN(c.DiscountRate) || c.DiscountRate <= -1 {
		return &model.ConfigurationError{Field: "valuation.discount_rate", Message: "must be > -1"}
	}
	if math.IsNaN(c.TerminalMultiple) || c.TerminalMultiple < 0 {
		return &model.ConfigurationError{Field: "valuation.terminal_multiple", Message: "must be >= 0"}
	}
	return nil
}

type Engine struct {
	cfg Config
}

func New(cfg Config) *Engine { return &Engine{cfg: cfg} }

func (e *Engine) Config() Config { return e.cfg }

// Run projects one strategy over one trajectory and keeps a per-period ledger.
func (e *Engine) Run(tr model.DemandTrajectory, params model.CalibratedParameters, strat strategy.Strategy) (*Result, error) {
	return e.run(tr, params, strat, true)
}

// Project is Run without the ledger, for the simulation loop.
func (e *Engine) Project(tr model.DemandTrajectory, params model.CalibratedParameters, strat strategy.Strategy) (model.ProjectionResult, error) {
	res, err := e.run(tr, params, strat, false)
	if err != nil {
		return model.ProjectionResult{}, err
	}
	return res.Projection, nil
}

func (e *Engine) run(tr model.DemandTrajectory, params model.CalibratedParameters, strat strategy.Strategy, withLedger bool) (*Result, error) {
	fail := func(err error) (*Result, error) {
		se := &model.SimulationError{Scenario: tr.Scenario, Horizon: tr.Horizon, Trial: tr.Trial, Err: err}
		if strat != nil {
			se.Strategy = strat.Name()
		}
		return nil, se
	}
	if strat == nil {
		return fail(errors.New("strategy is nil"))
	}
	n := tr.Len()
	if n == 0 {
		return fail(errors.New("empty trajectory"))
	}
	if len(tr.WeekendStudents) != n {
		return fail(fmt.Errorf("stream lengths differ: %d vs %d", n, len(tr.WeekendStudents)))
	}
	ppy := tr.PeriodsPerYear
	if ppy <= 0 {
		ppy = 1
	}

	out := model.ProjectionResult{
		Strategy:        strat.Name(),
		CashFlows:       make([]float64, n),
		AnnualCashFlows: make([]float64, (n+ppy-1)/ppy),
	}
	var ledger []LedgerRow
	if withLedger {
		ledger = make([]LedgerRow, 0, n)
	}

	out.InitialCashFlow = strat.Open(strategy.Context{Params: params, PeriodsPerYear: ppy})
	if !finite(out.InitialCashFlow) {
		return fail(fmt.Errorf("initial cash flow: %w", model.ErrNonFinite))
	}

	perPeriod := math.Pow(1+e.cfg.DiscountRate, 1/float64(ppy))
	df := 1.0
	cumPV := out.InitialCashFlow
	lastYearOperating := 0.0
	lastYear := (n - 1) / ppy

	for idx := 0; idx < n; idx++ {
		year := idx/ppy + 1
		f := strat.Decide(strategy.PeriodContext{
			Index:           idx,
			Year:            year,
			PeriodsPerYear:  ppy,
			StudentWeeks:    tr.StudentWeeks[idx],
			WeekendStudents: tr.WeekendStudents[idx],
			Params:          params,
		})
		net := f.Net()
		if !finite(net) {
			return fail(fmt.Errorf("period %d: cash flow: %w", idx, model.ErrNonFinite))
		}

		df /= perPeriod
		pv := net * df
		cumPV += pv
		out.CashFlows[idx] = net
		out.AnnualCashFlows[year-1] += net
		out.PresentValueFlows += pv
		if year-1 == lastYear {
			lastYearOperating += f.Operating()
		}

		if withLedger {
			ledger = append(ledger, LedgerRow{
				Index:           idx,
				Year:            year,
				StudentWeeks:    tr.StudentWeeks[idx],
				WeekendStudents: tr.WeekendStudents[idx],
				Revenue:         f.Revenue,
				VariableCosts:   f.VariableCosts,
				FixedCosts:      f.FixedCosts,
				DebtService:     f.DebtService,
				Investment:      f.Investment,
				Net:             net,
				DiscountFactor:  df,
				PresentValue:    pv,
				CumPresentValue: cumPV,
			})
		}
	}

	horizon := tr.Horizon
	if !horizon.Valid() {
		horizon = model.Horizon((n + ppy - 1) / ppy)
	}
	out.TerminalValue = strat.Terminal(strategy.TerminalContext{
		Params:            params,
		Horizon:           horizon,
		PeriodsPerYear:    ppy,
		LastYearOperating: lastYearOperating,
		Multiple:          e.cfg.TerminalMultiple,
	})
	out.PresentValueTerminal = out.TerminalValue * math.Pow(1+e.cfg.DiscountRate, -float64(n)/float64(ppy))
	out.FinancialNEV = out.InitialCashFlow + out.PresentValueFlows + out.PresentValueTerminal
	if !finite(out.FinancialNEV) {
		return fail(fmt.Errorf("NEV: %w", model.ErrNonFinite))
	}

	return &Result{Ledger: ledger, Projection: out}, nil
}

func finite(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }
