package model

import (
	"errors"
	"math"
)

// DebtSchedule is an amortizing loan paid in equal annual installments.
// A zero Rate means straight-line repayment of Principal over TermYears.
type DebtSchedule struct {
	Principal float64 `json:"principal" yaml:"principal"`
	Rate      float64 `json:"rate" yaml:"rate"`
	TermYears int     `json:"term_years" yaml:"term_years"`
}

func (d DebtSchedule) Validate() error {
	if d.Principal < 0 {
		return errors.New("debt principal must be >= 0")
	}
	if d.Rate < 0 {
		return errors.New("debt rate must be >= 0")
	}
	if d.Principal > 0 && d.TermYears <= 0 {
		return errors.New("debt term must be > 0 when principal is set")
	}
	return nil
}

// Payment is the constant annual installment.
func (d DebtSchedule) Payment() float64 {
	if d.Principal <= 0 || d.TermYears <= 0 {
		return 0
	}
	n := float64(d.TermYears)
	if d.Rate == 0 {
		return d.Principal / n
	}
	return d.Principal * d.Rate / (1 - math.Pow(1+d.Rate, -n))
}

// PaymentInYear returns the installment due in year (1-based).
func (d DebtSchedule) PaymentInYear(year int) float64 {
	if year < 1 || year > d.TermYears {
		return 0
	}
	return d.Payment()
}

// OutstandingAfter is the balance left once `years` installments are paid.
func (d DebtSchedule) OutstandingAfter(years int) float64 {
	if d.Principal <= 0 || d.TermYears <= 0 {
		return 0
	}
	if years <= 0 {
		return d.Principal
	}
	if years >= d.TermYears {
		return 0
	}
	if d.Rate == 0 {
		return d.Principal * float64(d.TermYears-years) / float64(d.TermYears)
	}
	// Present value of the remaining installments.
	remaining := float64(d.TermYears - years)
	return d.Payment() * (1 - math.Pow(1+d.Rate, -remaining)) / d.Rate
}

// DemandStats describes one demand stream.
type DemandStats struct {
	Base       float64 `json:"base"`       // mean level per year
	Volatility float64 `json:"volatility"` // annual log volatility
}

// CalibratedParameters are derived once per run from historical records and
// are read-only afterwards. Pass by value.
type CalibratedParameters struct {
	UnitPrice float64 `json:"unit_price"`

	// Ratios to revenue, all in [0,1].
	RoyaltyRate       float64 `json:"royalty_rate"`
	VariableCostRatio float64 `json:"variable_cost_ratio"`
	FixedCostRatio    float64 `json:"fixed_cost_ratio"`

	// FixedCosts is the mean annual fixed cost level.
	FixedCosts float64 `json:"fixed_costs"`

	Debt DebtSchedule `json:"debt"`

	StudentWeeks    DemandStats `json:"student_weeks"`
	WeekendStudents DemandStats `json:"weekend_students"`

	Periods int `json:"periods"`
}

func (p CalibratedParameters) Validate() error {
	if !(p.UnitPrice > 0) || math.IsInf(p.UnitPrice, 0) {
		return errors.New("unit price must be > 0")
	}
	for _, r := range []float64{p.RoyaltyRate, p.VariableCostRatio, p.FixedCostRatio} {
		if r < 0 || r > 1 || math.IsNaN(r) {
			return errors.New("cost ratios must be in [0, 1]")
		}
	}
	if p.FixedCosts < 0 {
		return errors.New("fixed costs must be >= 0")
	}
	if p.StudentWeeks.Base < 0 || p.WeekendStudents.Base < 0 {
		return errors.New("demand base must be >= 0")
	}
	if p.StudentWeeks.Volatility < 0 || p.WeekendStudents.Volatility < 0 {
		return errors.New("demand volatility must be >= 0")
	}
	return p.Debt.Validate()
}
