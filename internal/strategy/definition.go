package strategy

import (
	"fmt"
	"math"

	"nev-montecarlo/internal/intangible"
	"nev-montecarlo/internal/model"
)

// Renovation is a one-off investment paid in equal installments over the
// first AmortizationYears of the horizon.
type Renovation struct {
	Cost              float64 `json:"cost" yaml:"cost"`
	AmortizationYears int     `json:"amortization_years" yaml:"amortization_years"`
}

// InstallmentPerPeriod is the renovation payment due in the given year.
func (r Renovation) InstallmentPerPeriod(year, periodsPerYear int) float64 {
	if r.Cost <= 0 || year < 1 || year > r.years() || periodsPerYear <= 0 {
		return 0
	}
	return r.Cost / float64(r.years()) / float64(periodsPerYear)
}

// UnpaidAfter is the part of the cost still due after `years` full years.
func (r Renovation) UnpaidAfter(years int) float64 {
	if r.Cost <= 0 || years >= r.years() {
		return 0
	}
	if years < 0 {
		years = 0
	}
	return r.Cost * float64(r.years()-years) / float64(r.years())
}

func (r Renovation) years() int {
	if r.AmortizationYears < 1 {
		return 1
	}
	return r.AmortizationYears
}

// Definition is a named strategy variant. Multipliers are relative to the
// calibrated parameters; 1 leaves a value unchanged.
type Definition struct {
	Name string             `json:"name" yaml:"name"`
	Kind model.StrategyKind `json:"kind" yaml:"kind"`

	PriceMultiplier         float64 `json:"price_multiplier" yaml:"price_multiplier"`
	WeekendPriceMultiplier  float64 `json:"weekend_price_multiplier" yaml:"weekend_price_multiplier"`
	DemandMultiplier        float64 `json:"demand_multiplier" yaml:"demand_multiplier"`
	WeekendDemandMultiplier float64 `json:"weekend_demand_multiplier" yaml:"weekend_demand_multiplier"`

	// RoyaltyRate overrides the calibrated royalty when set.
	RoyaltyRate *float64 `json:"royalty_rate,omitempty" yaml:"royalty_rate,omitempty"`
	// OperatingShift is added to the variable cost ratio.
	OperatingShift      float64 `json:"operating_shift" yaml:"operating_shift"`
	FixedCostMultiplier float64 `json:"fixed_cost_multiplier" yaml:"fixed_cost_multiplier"`

	Renovation Renovation `json:"renovation" yaml:"renovation"`

	// Offer is the sale price, SELL only.
	Offer float64 `json:"offer" yaml:"offer"`

	Intangible model.IntangibleProfile `json:"intangible" yaml:"intangible"`
}

func (d Definition) Validate() error {
	field := func(f string) string { return "strategies." + d.Name + "." + f }
	if d.Name == "" {
		return &model.ConfigurationError{Field: "strategies", Message: "strategy name is required"}
	}
	if _, err := model.ParseStrategyKind(string(d.Kind)); err != nil {
		return &model.ConfigurationError{Field: field("kind"), Message: err.Error()}
	}
	for _, m := range []struct {
		name string
		v    float64
	}{
		{"price_multiplier", d.PriceMultiplier},
		{"weekend_price_multiplier", d.WeekendPriceMultiplier},
		{"demand_multiplier", d.DemandMultiplier},
		{"weekend_demand_multiplier", d.WeekendDemandMultiplier},
		{"fixed_cost_multiplier", d.FixedCostMultiplier},
		{"offer", d.Offer},
		{"renovation.cost", d.Renovation.Cost},
	} {
		if math.IsNaN(m.v) || math.IsInf(m.v, 0) || m.v < 0 {
			return &model.ConfigurationError{Field: field(m.name), Message: fmt.Sprintf("must be a finite value >= 0, got %v", m.v)}
		}
	}
	if d.RoyaltyRate != nil && (*d.RoyaltyRate < 0 || *d.RoyaltyRate > 1) {
		return &model.ConfigurationError{Field: field("royalty_rate"), Message: "must be in [0, 1]"}
	}
	if math.IsNaN(d.OperatingShift) || math.Abs(d.OperatingShift) > 1 {
		return &model.ConfigurationError{Field: field("operating_shift"), Message: "must be in [-1, 1]"}
	}
	if d.Renovation.AmortizationYears < 0 {
		return &model.ConfigurationError{Field: field("renovation.amortization_years"), Message: "must be >= 0"}
	}
	if d.Kind == model.KindSell && d.Offer <= 0 {
		return &model.ConfigurationError{Field: field("offer"), Message: "SELL needs an offer > 0"}
	}
	if err := intangible.Validate(d.Intangible); err != nil {
		return &model.ConfigurationError{Field: field("intangible"), Message: err.Error()}
	}
	return nil
}

// Royalty returns the effective royalty rate.
func (d Definition) Royalty(p model.CalibratedParameters) float64 {
	if d.RoyaltyRate != nil {
		return *d.RoyaltyRate
	}
	return p.RoyaltyRate
}

// Clone returns a deep copy, so overrides never alias the catalog.
func (d Definition) Clone() Definition {
	out := d
	if d.RoyaltyRate != nil {
		r := *d.RoyaltyRate
		out.RoyaltyRate = &r
	}
	return out
}

func ptr(v float64) *float64 { return &v }

// DefaultDefinitions are the three options evaluated by a default run.
func DefaultDefinitions() []Definition {
	return []Definition{
		{
			Name:                    string(model.KindContinue),
			Kind:                    model.KindContinue,
			PriceMultiplier:         1,
			WeekendPriceMultiplier:  1,
			DemandMultiplier:        1,
			WeekendDemandMultiplier: 1,
			FixedCostMultiplier:     1,
			Intangible:              defaultProfile(8.5, 7.0, 7.5, 7.5),
		},
		{
			Name:                    string(model.KindFranchise),
			Kind:                    model.KindFranchise,
			PriceMultiplier:         0.58,
			WeekendPriceMultiplier:  0.16,
			DemandMultiplier:        1,
			WeekendDemandMultiplier: 0,
			RoyaltyRate:             ptr(0.035),
			FixedCostMultiplier:     1,
			Renovation:              Renovation{Cost: 200_000, AmortizationYears: 1},
			Intangible:              defaultProfile(7.0, 7.0, 8.5, 7.5),
		},
		{
			Name:       string(model.KindSell),
			Kind:       model.KindSell,
			Offer:      2_100_000,
			Intangible: defaultProfile(3.0, 2.0, 1.0, 0.0),
		},
	}
}

func defaultProfile(admin, prestige, rep, brand float64) model.IntangibleProfile {
	return model.IntangibleProfile{
		AdminScore:             admin,
		PrestigeScore:          prestige,
		ReputationScore:        rep,
		BrandScore:             brand,
		AdminMoralWeight:       0.6,
		PrestigeReputationBeta: 0.4,
		BrandReputationBeta:    0.5,
	}
}
