package strategy

import "nev-montecarlo/internal/model"

// Sell exits at t=0: the offer is received and outstanding debt retired.
// Nothing happens afterwards.
type Sell struct {
	Def Definition
}

func (s *Sell) Name() string             { return s.Def.Name }
func (s *Sell) Kind() model.StrategyKind { return model.KindSell }

func (s *Sell) Open(ctx Context) float64 {
	return s.Def.Offer - ctx.Params.Debt.OutstandingAfter(0)
}

func (s *Sell) Decide(PeriodContext) model.PeriodFlows { return model.PeriodFlows{} }

func (s *Sell) Terminal(TerminalContext) float64 { return 0 }
