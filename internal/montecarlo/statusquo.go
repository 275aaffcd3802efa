package montecarlo

import (
	"fmt"

	"nev-montecarlo/internal/demand"
	"nev-montecarlo/internal/intangible"
	"nev-montecarlo/internal/model"
	"nev-montecarlo/internal/projection"
	"nev-montecarlo/internal/scenario"
	"nev-montecarlo/internal/strategy"
)

// StatusQuoReport is a deterministic projection on the expected demand path.
type StatusQuoReport struct {
	Strategy string        `json:"strategy"`
	Scenario string        `json:"scenario"`
	Horizon  model.Horizon `json:"horizon"`

	Ledger     []projection.LedgerRow `json:"ledger"`
	Projection model.ProjectionResult `json:"projection"`
	Intangible intangible.Breakdown   `json:"intangible"`

	// NPV is the discounted value of the periodic flows and the terminal value.
	NPV      float64 `json:"npv"`
	TotalNEV float64 `json:"total_nev"`
}

// StatusQuo projects one strategy of the catalog on the noise-free demand
// path of a scenario.
func StatusQuo(params model.CalibratedParameters, catalog scenario.Catalog, scenarioName, strategyName string, h model.Horizon, opts Options) (*StatusQuoReport, error) {
	if err := params.Validate(); err != nil {
		return nil, &model.ConfigurationError{Field: "params", Message: err.Error()}
	}
	if err := opts.Valuation.Validate(); err != nil {
		return nil, err
	}
	sc, ok := catalog.Scenario(scenarioName)
	if !ok {
		return nil, &model.ConfigurationError{Field: "scenario", Message: fmt.Sprintf("unknown scenario %q", scenarioName)}
	}
	defs, err := sc.Apply(catalog.Strategies)
	if err != nil {
		return nil, err
	}
	var def *strategy.Definition
	for i := range defs {
		if defs[i].Name == strategyName {
			def = &defs[i]
		}
	}
	if def == nil {
		return nil, &model.ConfigurationError{Field: "strategy", Message: fmt.Sprintf("unknown strategy %q", strategyName)}
	}
	strat, err := strategy.Build(*def)
	if err != nil {
		return nil, err
	}

	sim := demand.New(params, opts.Seed, demand.WithPeriodsPerYear(opts.PeriodsPerYear))
	tr, err := sim.Constant(sc.Name, sc.Demand, h)
	if err != nil {
		return nil, err
	}
	res, err := projection.New(opts.Valuation).Run(tr, params, strat)
	if err != nil {
		return nil, err
	}

	breakdown := intangible.NewValuator(opts.Rates).Explain(def.Intangible)
	p := res.Projection
	return &StatusQuoReport{
		Strategy:   def.Name,
		Scenario:   sc.Name,
		Horizon:    h,
		Ledger:     res.Ledger,
		Projection: p,
		Intangible: breakdown,
		NPV:        p.PresentValueFlows + p.PresentValueTerminal,
		TotalNEV:   p.FinancialNEV + breakdown.Value,
	}, nil
}
