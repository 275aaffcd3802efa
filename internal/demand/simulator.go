package demand

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"nev-montecarlo/internal/model"
)

// Simulator draws demand paths from calibrated parameters. It holds no
// mutable state and is safe for concurrent use.
type Simulator struct {
	params         model.CalibratedParameters
	seed           uint64
	periodsPerYear int
}

type Option func(*Simulator)

// WithPeriodsPerYear sets the number of projection periods per year (default 1).
func WithPeriodsPerYear(p int) Option {
	return func(s *Simulator) {
		if p > 0 {
			s.periodsPerYear = p
		}
	}
}

func New(params model.CalibratedParameters, seed uint64, opts ...Option) *Simulator {
	s := &Simulator{params: params, seed: seed, periodsPerYear: 1}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Simulator) PeriodsPerYear() int { return s.periodsPerYear }

type walk struct {
	level float64
	drift float64
	sigma float64
}

func (s *Simulator) walks(a model.DemandAssumptions) ([2]walk, error) {
	if a.Shift < -1 {
		return [2]walk{}, fmt.Errorf("demand shift %.4f gives a negative base", a.Shift)
	}
	if a.VolatilityMultiplier < 0 || math.IsNaN(a.VolatilityMultiplier) {
		return [2]walk{}, fmt.Errorf("volatility multiplier must be >= 0, got %v", a.VolatilityMultiplier)
	}
	if a.Growth <= -1 {
		return [2]walk{}, fmt.Errorf("growth %.4f must be > -1", a.Growth)
	}
	p := float64(s.periodsPerYear)
	g := math.Log1p(a.Growth)
	var out [2]walk
	for i, st := range []model.DemandStats{s.params.StudentWeeks, s.params.WeekendStudents} {
		sigma := st.Volatility * a.VolatilityMultiplier / math.Sqrt(p)
		out[i] = walk{
			level: st.Base * (1 + a.Shift),
			drift: g/p - sigma*sigma/2,
			sigma: sigma,
		}
	}
	return out, nil
}

// Trajectory draws the demand path of one trial. Draws are taken period by
// period, so a shorter horizon is a prefix of a longer one for the same trial.
func (s *Simulator) Trajectory(scenario string, a model.DemandAssumptions, h model.Horizon, trial int) (model.DemandTrajectory, error) {
	fail := func(err error) (model.DemandTrajectory, error) {
		return model.DemandTrajectory{}, &model.SimulationError{Scenario: scenario, Horizon: h, Trial: trial, Err: err}
	}
	if !h.Valid() {
		return fail(fmt.Errorf("invalid horizon %d", h))
	}
	w, err := s.walks(a)
	if err != nil {
		return fail(err)
	}

	n := h.Years() * s.periodsPerYear
	tr := model.DemandTrajectory{
		Scenario:        scenario,
		Horizon:         h,
		Trial:           trial,
		PeriodsPerYear:  s.periodsPerYear,
		StudentWeeks:    make([]float64, n),
		WeekendStudents: make([]float64, n),
	}
	norm := distuv.Normal{Mu: 0, Sigma: 1, Src: TrialSource(s.seed, trial)}
	out := [2][]float64{tr.StudentWeeks, tr.WeekendStudents}
	for t := 0; t < n; t++ {
		for i := range w {
			z := norm.Rand()
			w[i].level *= math.Exp(w[i].drift + w[i].sigma*z)
			v := w[i].level
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fail(fmt.Errorf("demand: %w", model.ErrNonFinite))
			}
			out[i][t] = v
		}
	}
	return tr, nil
}

// Generate draws trials [0, trials) for one scenario and horizon.
func (s *Simulator) Generate(ctx context.Context, scenario string, a model.DemandAssumptions, h model.Horizon, trials int) ([]model.DemandTrajectory, error) {
	out := make([]model.DemandTrajectory, 0, trials)
	for i := 0; i < trials; i++ {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		tr, err := s.Trajectory(scenario, a, h, i)
		if err != nil {
			return out, err
		}
		out = append(out, tr)
	}
	return out, nil
}

// Constant returns the expected path: the adjusted base grown at the
// assumed rate, with no noise.
func (s *Simulator) Constant(scenario string, a model.DemandAssumptions, h model.Horizon) (model.DemandTrajectory, error) {
	flat := a
	flat.VolatilityMultiplier = 0
	w, err := s.walks(flat)
	if err != nil {
		return model.DemandTrajectory{}, &model.SimulationError{Scenario: scenario, Horizon: h, Trial: -1, Err: err}
	}
	if !h.Valid() {
		return model.DemandTrajectory{}, &model.SimulationError{Scenario: scenario, Horizon: h, Trial: -1, Err: fmt.Errorf("invalid horizon %d", h)}
	}
	n := h.Years() * s.periodsPerYear
	tr := model.DemandTrajectory{
		Scenario:        scenario,
		Horizon:         h,
		Trial:           -1,
		PeriodsPerYear:  s.periodsPerYear,
		StudentWeeks:    make([]float64, n),
		WeekendStudents: make([]float64, n),
	}
	for t := 0; t < n; t++ {
		w[0].level *= math.Exp(w[0].drift)
		w[1].level *= math.Exp(w[1].drift)
		tr.StudentWeeks[t] = w[0].level
		tr.WeekendStudents[t] = w[1].level
	}
	return tr, nil
}
