package model

// HistoricalRecord is one observed period (normally a year).
// Monetary fields share one currency unit; demand is in student-weeks and
// weekend students.
type HistoricalRecord struct {
	Period string `json:"period"`

	Revenue float64 `json:"revenue"`

	// Cost components.
	RoyaltyCosts   float64 `json:"royalty_costs"`
	OperatingCosts float64 `json:"operating_costs"` // scales with revenue
	FixedCosts     float64 `json:"fixed_costs"`
	DebtService    float64 `json:"debt_service"`

	StudentWeeks    float64 `json:"student_weeks"`
	WeekendStudents float64 `json:"weekend_students"`
}

// Demand is the total demand units of the period.
func (r HistoricalRecord) Demand() float64 {
	return r.StudentWeeks + r.WeekendStudents
}
