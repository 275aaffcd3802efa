package strategy

import "nev-montecarlo/internal/model"

// Context is passed once, before the first period.
type Context struct {
	Params         model.CalibratedParameters
	PeriodsPerYear int
}

// PeriodContext describes one projected period.
type PeriodContext struct {
	Index          int // 0-based period index
	Year           int // 1-based year the period falls in
	PeriodsPerYear int

	StudentWeeks    float64
	WeekendStudents float64

	Params model.CalibratedParameters
}

// TerminalContext is passed once, after the last period.
type TerminalContext struct {
	Params         model.CalibratedParameters
	Horizon        model.Horizon
	PeriodsPerYear int

	// LastYearOperating is the operating cash flow of the final year.
	LastYearOperating float64
	Multiple          float64
}

// Strategy projects cash flows for one strategic option. Implementations
// are stateless and safe for concurrent use.
type Strategy interface {
	Name() string
	Kind() model.StrategyKind

	// Open is the cash flow received at t=0, undiscounted.
	Open(ctx Context) float64
	Decide(ctx PeriodContext) model.PeriodFlows
	// Terminal is the value at the horizon, before discounting.
	Terminal(ctx TerminalContext) float64
}

// Build returns the implementation for a definition's kind.
func Build(def Definition) (Strategy, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}
	switch def.Kind {
	case model.KindContinue:
		return &Continue{Def: def}, nil
	case model.KindFranchise:
		return &Franchise{Continue: Continue{Def: def}}, nil
	case model.KindSell:
		return &Sell{Def: def}, nil
	}
	return nil, &model.ConfigurationError{Field: "strategies." + def.Name + ".kind", Message: "unknown kind " + string(def.Kind)}
}
