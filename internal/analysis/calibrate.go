package analysis

import (
	"fmt"
	"math"

	"nev-montecarlo/internal/model"
)

// CalibrationOptions carry the inputs the historical records cannot provide.
type CalibrationOptions struct {
	// Debt, when set, replaces the schedule inferred from DebtService.
	Debt *model.DebtSchedule
	// DebtTermYears is the remaining term used to turn the latest
	// DebtService into a flat schedule. Zero disables inference.
	DebtTermYears int
}

// Calibrate derives the model parameters from historical records.
// Records are expected in chronological order.
func Calibrate(records []model.HistoricalRecord, opts CalibrationOptions) (model.CalibratedParameters, error) {
	if len(records) < 2 {
		return model.CalibratedParameters{}, &model.CalibrationError{
			Message: fmt.Sprintf("need at least 2 periods, got %d", len(records)),
		}
	}

	var (
		sumRevenue, sumDemand            float64
		sumRoyalty, sumOperating, sumFix float64
	)
	sw := make([]float64, 0, len(records))
	ws := make([]float64, 0, len(records))
	for _, r := range records {
		if err := checkRecord(r); err != nil {
			return model.CalibratedParameters{}, err
		}
		sumRevenue += r.Revenue
		sumDemand += r.Demand()
		sumRoyalty += r.RoyaltyCosts
		sumOperating += r.OperatingCosts
		sumFix += r.FixedCosts
		sw = append(sw, r.StudentWeeks)
		ws = append(ws, r.WeekendStudents)
	}

	p := model.CalibratedParameters{
		UnitPrice:         sumRevenue / sumDemand,
		RoyaltyRate:       sumRoyalty / sumRevenue,
		VariableCostRatio: sumOperating / sumRevenue,
		FixedCostRatio:    sumFix / sumRevenue,
		FixedCosts:        sumFix / float64(len(records)),
		StudentWeeks:      streamStats(sw),
		WeekendStudents:   streamStats(ws),
		Periods:           len(records),
	}
	if p.RoyaltyRate+p.VariableCostRatio > 1 {
		return model.CalibratedParameters{}, &model.CalibrationError{
			Message: fmt.Sprintf("royalty rate %.4f plus variable cost ratio %.4f exceeds 1", p.RoyaltyRate, p.VariableCostRatio),
		}
	}

	switch {
	case opts.Debt != nil:
		if err := opts.Debt.Validate(); err != nil {
			return model.CalibratedParameters{}, &model.CalibrationError{Message: err.Error()}
		}
		p.Debt = *opts.Debt
	case opts.DebtTermYears > 0:
		last := records[len(records)-1].DebtService
		if last > 0 {
			p.Debt = model.DebtSchedule{
				Principal: last * float64(opts.DebtTermYears),
				TermYears: opts.DebtTermYears,
			}
		}
	}

	if err := p.Validate(); err != nil {
		return model.CalibratedParameters{}, &model.CalibrationError{Message: err.Error()}
	}
	return p, nil
}

func checkRecord(r model.HistoricalRecord) error {
	fields := []struct {
		name string
		v    float64
	}{
		{"revenue", r.Revenue},
		{"royalty_costs", r.RoyaltyCosts},
		{"operating_costs", r.OperatingCosts},
		{"fixed_costs", r.FixedCosts},
		{"debt_service", r.DebtService},
		{"student_weeks", r.StudentWeeks},
		{"weekend_students", r.WeekendStudents},
	}
	for _, f := range fields {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return &model.CalibrationError{Period: r.Period, Message: f.name + " is not finite"}
		}
		if f.v < 0 {
			return &model.CalibrationError{Period: r.Period, Message: f.name + " is negative"}
		}
	}
	if r.Revenue <= 0 {
		return &model.CalibrationError{Period: r.Period, Message: "revenue must be > 0"}
	}
	if r.Demand() <= 0 {
		return &model.CalibrationError{Period: r.Period, Message: "total demand must be > 0"}
	}
	for _, c := range []struct {
		name string
		v    float64
	}{
		{"royalty_costs", r.RoyaltyCosts},
		{"operating_costs", r.OperatingCosts},
		{"fixed_costs", r.FixedCosts},
	} {
		if c.v > r.Revenue {
			return &model.CalibrationError{Period: r.Period, Message: c.name + " exceed revenue"}
		}
	}
	return nil
}
