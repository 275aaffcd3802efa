// Package intangible turns qualitative scores into a monetary adjustment.
package intangible

import (
	"fmt"
	"math"

	"nev-montecarlo/internal/model"
)

const maxScore = 10.0

// DefaultRates are the currency values of a full 10-point score.
var DefaultRates = model.MonetizationRates{
	Moral:      150_000,
	Reputation: 75_000,
	Academic:   100_000,
}

// Breakdown is the derived score graph of one profile.
type Breakdown struct {
	Prestige float64 `json:"prestige"`
	Moral    float64 `json:"moral"`
	Academic float64 `json:"academic"`

	Reputation float64 `json:"reputation"`
	Value      float64 `json:"value"`
}

type Valuator struct {
	rates model.MonetizationRates
}

func NewValuator(rates model.MonetizationRates) *Valuator {
	return &Valuator{rates: rates}
}

// Validate checks that scores lie in [0,10] and weights in [0,1].
func Validate(p model.IntangibleProfile) error {
	for _, s := range []struct {
		name string
		v    float64
	}{
		{"admin_score", p.AdminScore},
		{"prestige_score", p.PrestigeScore},
		{"reputation_score", p.ReputationScore},
		{"brand_base_score", p.BrandScore},
	} {
		if math.IsNaN(s.v) || s.v < 0 || s.v > maxScore {
			return fmt.Errorf("%s must be in [0, 10], got %v", s.name, s.v)
		}
	}
	if math.IsNaN(p.AdminMoralWeight) || p.AdminMoralWeight < 0 || p.AdminMoralWeight > 1 {
		return fmt.Errorf("w_admin_moral must be in [0, 1], got %v", p.AdminMoralWeight)
	}
	if p.PrestigeReputationBeta < 0 || p.BrandReputationBeta < 0 {
		return fmt.Errorf("reputation betas must be >= 0")
	}
	return nil
}

// Explain returns the full score graph for a profile.
func (v *Valuator) Explain(p model.IntangibleProfile) Breakdown {
	prestige := clip(p.PrestigeScore + p.PrestigeReputationBeta*p.ReputationScore)
	moral := clip(p.AdminMoralWeight*p.AdminScore + (1-p.AdminMoralWeight)*prestige)
	academic := clip(p.BrandScore + p.BrandReputationBeta*p.ReputationScore)
	rep := clip(p.ReputationScore)

	value := v.rates.Moral*moral/maxScore +
		v.rates.Reputation*rep/maxScore +
		v.rates.Academic*academic/maxScore

	return Breakdown{
		Prestige:   prestige,
		Moral:      moral,
		Academic:   academic,
		Reputation: rep,
		Value:      value,
	}
}

// Value is the monetary adjustment added to a strategy's financial NEV.
func (v *Valuator) Value(p model.IntangibleProfile) float64 {
	return v.Explain(p).Value
}

func clip(x float64) float64 {
	return math.Max(0, math.Min(maxScore, x))
}
