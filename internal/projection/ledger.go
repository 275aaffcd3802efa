package projection

import "nev-montecarlo/internal/model"

// LedgerRow is one projected period.
type LedgerRow struct {
	Index int `json:"index"`
	Year  int `json:"year"`

	StudentWeeks    float64 `json:"student_weeks"`
	WeekendStudents float64 `json:"weekend_students"`

	Revenue       float64 `json:"revenue"`
	VariableCosts float64 `json:"variable_costs"`
	FixedCosts    float64 `json:"fixed_costs"`
	DebtService   float64 `json:"debt_service"`
	Investment    float64 `json:"investment"`
	Net           float64 `json:"net"`

	DiscountFactor  float64 `json:"discount_factor"`
	PresentValue    float64 `json:"present_value"`
	CumPresentValue float64 `json:"cum_present_value"`
}

type Result struct {
	Ledger     []LedgerRow
	Projection model.ProjectionResult
}
