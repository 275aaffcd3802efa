package model

// DemandAssumptions adjust the calibrated demand for one scenario.
// The zero value is not neutral: use NeutralDemand.
type DemandAssumptions struct {
	// Shift is a fractional change of the base level (0 = calibrated base).
	Shift float64 `json:"shift" yaml:"shift"`
	// Growth is the expected annual growth rate of demand.
	Growth float64 `json:"growth" yaml:"growth"`
	// VolatilityMultiplier scales the calibrated volatility.
	VolatilityMultiplier float64 `json:"volatility_multiplier" yaml:"volatility_multiplier"`
}

func NeutralDemand() DemandAssumptions {
	return DemandAssumptions{VolatilityMultiplier: 1}
}

// IntangibleProfile holds qualitative scores on a 0..10 scale plus the
// weights that link them.
type IntangibleProfile struct {
	AdminScore      float64 `json:"admin_score" yaml:"admin_score"`
	PrestigeScore   float64 `json:"prestige_score" yaml:"prestige_score"`
	ReputationScore float64 `json:"reputation_score" yaml:"reputation_score"`
	BrandScore      float64 `json:"brand_base_score" yaml:"brand_base_score"`

	AdminMoralWeight       float64 `json:"w_admin_moral" yaml:"w_admin_moral"`
	PrestigeReputationBeta float64 `json:"beta_prestige_rep" yaml:"beta_prestige_rep"`
	BrandReputationBeta    float64 `json:"beta_brand_rep" yaml:"beta_brand_rep"`
}

// MonetizationRates convert a full 10-point score into currency.
type MonetizationRates struct {
	Moral      float64 `json:"moral" yaml:"moral"`
	Reputation float64 `json:"reputation" yaml:"reputation"`
	Academic   float64 `json:"academic" yaml:"academic"`
}
