// Package scenario holds the scenario and strategy catalog of a run.
package scenario

import (
	"fmt"
	"math"

	"nev-montecarlo/internal/model"
	"nev-montecarlo/internal/strategy"
)

// Override changes one strategy definition within a scenario. Nil fields
// leave the definition untouched.
type Override struct {
	Strategy string `json:"strategy" yaml:"strategy"`

	RoyaltyRate *float64 `json:"royalty_rate,omitempty" yaml:"royalty_rate,omitempty"`
	// DemandMultiplier scales both demand streams.
	DemandMultiplier *float64 `json:"demand_multiplier,omitempty" yaml:"demand_multiplier,omitempty"`
	OfferMultiplier  *float64 `json:"offer_multiplier,omitempty" yaml:"offer_multiplier,omitempty"`

	AdminScore      *float64 `json:"admin_score,omitempty" yaml:"admin_score,omitempty"`
	PrestigeScore   *float64 `json:"prestige_score,omitempty" yaml:"prestige_score,omitempty"`
	ReputationScore *float64 `json:"reputation_score,omitempty" yaml:"reputation_score,omitempty"`
	BrandScore      *float64 `json:"brand_base_score,omitempty" yaml:"brand_base_score,omitempty"`
}

// Scenario is a named set of demand assumptions and strategy overrides.
type Scenario struct {
	Name   string                  `json:"name" yaml:"name"`
	Demand model.DemandAssumptions `json:"demand" yaml:"demand"`
	// OperatingShift is added to every strategy's variable cost ratio.
	OperatingShift float64    `json:"operating_shift" yaml:"operating_shift"`
	Overrides      []Override `json:"overrides,omitempty" yaml:"overrides,omitempty"`
}

func (s Scenario) Validate() error {
	field := func(f string) string { return "scenarios." + s.Name + "." + f }
	if s.Name == "" {
		return &model.ConfigurationError{Field: "scenarios", Message: "scenario name is required"}
	}
	d := s.Demand
	if math.IsNaN(d.Shift) || d.Shift < -1 {
		return &model.ConfigurationError{Field: field("demand.shift"), Message: "must be >= -1"}
	}
	if math.IsNaN(d.Growth) || d.Growth <= -1 {
		return &model.ConfigurationError{Field: field("demand.growth"), Message: "must be > -1"}
	}
	if math.IsNaN(d.VolatilityMultiplier) || d.VolatilityMultiplier < 0 {
		return &model.ConfigurationError{Field: field("demand.volatility_multiplier"), Message: "must be >= 0"}
	}
	if math.IsNaN(s.OperatingShift) || math.Abs(s.OperatingShift) > 1 {
		return &model.ConfigurationError{Field: field("operating_shift"), Message: "must be in [-1, 1]"}
	}
	return nil
}

// Apply returns scenario-adjusted copies of defs. defs is not modified.
func (s Scenario) Apply(defs []strategy.Definition) ([]strategy.Definition, error) {
	out := make([]strategy.Definition, len(defs))
	index := make(map[string]int, len(defs))
	for i, d := range defs {
		out[i] = d.Clone()
		out[i].OperatingShift += s.OperatingShift
		index[d.Name] = i
	}

	for _, o := range s.Overrides {
		i, ok := index[o.Strategy]
		if !ok {
			return nil, &model.ConfigurationError{
				Field:   "scenarios." + s.Name + ".overrides",
				Message: fmt.Sprintf("unknown strategy %q", o.Strategy),
			}
		}
		d := &out[i]
		if o.RoyaltyRate != nil {
			r := *o.RoyaltyRate
			d.RoyaltyRate = &r
		}
		if o.DemandMultiplier != nil {
			d.DemandMultiplier *= *o.DemandMultiplier
			d.WeekendDemandMultiplier *= *o.DemandMultiplier
		}
		if o.OfferMultiplier != nil {
			d.Offer *= *o.OfferMultiplier
		}
		setIf(&d.Intangible.AdminScore, o.AdminScore)
		setIf(&d.Intangible.PrestigeScore, o.PrestigeScore)
		setIf(&d.Intangible.ReputationScore, o.ReputationScore)
		setIf(&d.Intangible.BrandScore, o.BrandScore)
	}

	for _, d := range out {
		if err := d.Validate(); err != nil {
			return nil, fmt.Errorf("scenario %q: %w", s.Name, err)
		}
	}
	return out, nil
}

func setIf(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}
