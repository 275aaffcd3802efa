package strategy

import (
	"math"

	"nev-montecarlo/internal/model"
)

// Continue keeps the current operation running on calibrated economics.
type Continue struct {
	Def Definition
}

func (s *Continue) Name() string             { return s.Def.Name }
func (s *Continue) Kind() model.StrategyKind { return model.KindContinue }

func (s *Continue) Open(Context) float64 { return 0 }

func (s *Continue) Decide(ctx PeriodContext) model.PeriodFlows {
	p := ctx.Params
	perYear := float64(max(ctx.PeriodsPerYear, 1))

	revenue := p.UnitPrice * (s.Def.PriceMultiplier*ctx.StudentWeeks*s.Def.DemandMultiplier +
		s.Def.WeekendPriceMultiplier*ctx.WeekendStudents*s.Def.WeekendDemandMultiplier)

	rate := math.Max(0, s.Def.Royalty(p)+p.VariableCostRatio+s.Def.OperatingShift)

	return model.PeriodFlows{
		Revenue:       revenue,
		VariableCosts: rate * revenue,
		FixedCosts:    p.FixedCosts * s.Def.FixedCostMultiplier / perYear,
		DebtService:   p.Debt.PaymentInYear(ctx.Year) / perYear,
	}
}

func (s *Continue) Terminal(ctx TerminalContext) float64 {
	return ctx.Multiple*ctx.LastYearOperating - ctx.Params.Debt.OutstandingAfter(ctx.Horizon.Years())
}

// Franchise switches to the franchise model: the operating core of
// Continue with its own definition plus a renovation paid up front.
type Franchise struct {
	Continue
}

func (s *Franchise) Kind() model.StrategyKind { return model.KindFranchise }

func (s *Franchise) Decide(ctx PeriodContext) model.PeriodFlows {
	f := s.Continue.Decide(ctx)
	f.Investment = s.Def.Renovation.InstallmentPerPeriod(ctx.Year, ctx.PeriodsPerYear)
	return f
}

func (s *Franchise) Terminal(ctx TerminalContext) float64 {
	return s.Continue.Terminal(ctx) - s.Def.Renovation.UnpaidAfter(ctx.Horizon.Years())
}
