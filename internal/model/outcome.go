package model

// DemandTrajectory is one simulated demand path for a single trial.
type DemandTrajectory struct {
	Scenario       string
	Horizon        Horizon
	Trial          int
	PeriodsPerYear int

	StudentWeeks    []float64
	WeekendStudents []float64
}

func (t DemandTrajectory) Len() int { return len(t.StudentWeeks) }

// PeriodFlows are the cash components of one projected period.
type PeriodFlows struct {
	Revenue       float64
	VariableCosts float64
	FixedCosts    float64
	DebtService   float64
	// Investment is capital spending such as a renovation installment.
	Investment float64
}

func (f PeriodFlows) Operating() float64 {
	return f.Revenue - f.VariableCosts - f.FixedCosts
}

func (f PeriodFlows) Net() float64 {
	return f.Operating() - f.DebtService - f.Investment
}

// ProjectionResult is the deterministic projection of one strategy over one
// trajectory.
type ProjectionResult struct {
	Strategy string

	// InitialCashFlow is received at t=0 and is not discounted.
	InitialCashFlow float64
	CashFlows       []float64 // per period
	AnnualCashFlows []float64

	TerminalValue        float64
	PresentValueFlows    float64
	PresentValueTerminal float64

	FinancialNEV float64
}

// TrialOutcome is the total NEV of one (strategy, scenario, horizon, trial).
type TrialOutcome struct {
	Strategy string
	Scenario string
	Horizon  Horizon
	Trial    int

	FinancialNEV         float64
	IntangibleAdjustment float64
	TotalNEV             float64

	// Err is set when the trial could not be projected.
	Err error
}

// TripleKey identifies one aggregation cell.
type TripleKey struct {
	Strategy string
	Scenario string
	Horizon  Horizon
}

// SummaryRow holds the aggregated statistics of one triple.
type SummaryRow struct {
	Strategy string  `json:"strategy"`
	Kind     string  `json:"kind"`
	Scenario string  `json:"scenario"`
	Horizon  Horizon `json:"horizon"`

	Trials       int `json:"trials"`
	ValidTrials  int `json:"valid_trials"`
	FailedTrials int `json:"failed_trials"`
	Discarded    int `json:"discarded"`

	ExpectedNEV float64 `json:"expected_nev"`
	StdDevNEV   float64 `json:"stddev_nev"`
	VaR5        float64 `json:"var_5"`
	CVaR5       float64 `json:"cvar_5"`
	P95         float64 `json:"p95"`

	// OutperformanceProb is nil for the benchmark's own row.
	OutperformanceProb *float64 `json:"outperformance_prob,omitempty"`

	Failed        bool   `json:"failed"`
	FailureReason string `json:"failure_reason,omitempty"`
}

func (r SummaryRow) Key() TripleKey {
	return TripleKey{Strategy: r.Strategy, Scenario: r.Scenario, Horizon: r.Horizon}
}
