package demand

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nev-montecarlo/internal/model"
)

func testParams() model.CalibratedParameters {
	return model.CalibratedParameters{
		UnitPrice:       10,
		StudentWeeks:    model.DemandStats{Base: 105, Volatility: 0.2},
		WeekendStudents: model.DemandStats{Base: 20, Volatility: 0.5},
		Periods:         3,
	}
}

func TestTrajectory_ReproducibleForSeedAndTrial(t *testing.T) {
	a := model.NeutralDemand()
	s1 := New(testParams(), 42)
	s2 := New(testParams(), 42)

	x, err := s1.Trajectory("Base case", a, 5, 17)
	require.NoError(t, err)
	// draw other trials first on s2; trial 17 must not change
	for i := 0; i < 5; i++ {
		_, err := s2.Trajectory("Base case", a, 5, i)
		require.NoError(t, err)
	}
	y, err := s2.Trajectory("Base case", a, 5, 17)
	require.NoError(t, err)
	assert.Equal(t, x.StudentWeeks, y.StudentWeeks)
	assert.Equal(t, x.WeekendStudents, y.WeekendStudents)

	other, err := New(testParams(), 43).Trajectory("Base case", a, 5, 17)
	require.NoError(t, err)
	assert.NotEqual(t, x.StudentWeeks, other.StudentWeeks)
}

func TestTrajectory_ShorterHorizonIsPrefix(t *testing.T) {
	s := New(testParams(), 7, WithPeriodsPerYear(4))
	short, err := s.Trajectory("x", model.NeutralDemand(), 2, 3)
	require.NoError(t, err)
	long, err := s.Trajectory("x", model.NeutralDemand(), 10, 3)
	require.NoError(t, err)

	require.Len(t, short.StudentWeeks, 8)
	require.Len(t, long.StudentWeeks, 40)
	assert.Equal(t, short.StudentWeeks, long.StudentWeeks[:8])
	assert.Equal(t, 4, short.PeriodsPerYear)
}

func TestTrajectory_NonNegative(t *testing.T) {
	s := New(testParams(), 1)
	a := model.DemandAssumptions{Shift: -0.5, Growth: -0.3, VolatilityMultiplier: 3}
	for trial := 0; trial < 200; trial++ {
		tr, err := s.Trajectory("stress", a, 10, trial)
		require.NoError(t, err)
		for i := range tr.StudentWeeks {
			assert.GreaterOrEqual(t, tr.StudentWeeks[i], 0.0)
			assert.GreaterOrEqual(t, tr.WeekendStudents[i], 0.0)
		}
	}
}

func TestTrajectory_Errors(t *testing.T) {
	s := New(testParams(), 1)
	_, err := s.Trajectory("bad", model.DemandAssumptions{Shift: -1.5, VolatilityMultiplier: 1}, 5, 0)
	var se *model.SimulationError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "bad", se.Scenario)

	_, err = s.Trajectory("bad", model.NeutralDemand(), 0, 0)
	require.ErrorAs(t, err, &se)
}

func TestGenerate(t *testing.T) {
	s := New(testParams(), 9)
	trs, err := s.Generate(context.Background(), "Base case", model.NeutralDemand(), 2, 25)
	require.NoError(t, err)
	require.Len(t, trs, 25)
	for i, tr := range trs {
		assert.Equal(t, i, tr.Trial)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.Generate(ctx, "Base case", model.NeutralDemand(), 2, 25)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestConstant_MeanPath(t *testing.T) {
	s := New(testParams(), 0)
	tr, err := s.Constant("Base case", model.DemandAssumptions{Shift: 0.1, Growth: 0.05, VolatilityMultiplier: 1}, 2)
	require.NoError(t, err)
	require.Len(t, tr.StudentWeeks, 2)
	assert.InDelta(t, 105*1.1*1.05, tr.StudentWeeks[0], 1e-9)
	assert.InDelta(t, 105*1.1*1.05*1.05, tr.StudentWeeks[1], 1e-9)
	assert.InDelta(t, 20*1.1*1.05, tr.WeekendStudents[0], 1e-9)
}

func TestTrajectory_SampleMeanTracksExpectation(t *testing.T) {
	s := New(testParams(), 2024)
	const trials = 4000
	sum := 0.0
	for i := 0; i < trials; i++ {
		tr, err := s.Trajectory("Base case", model.NeutralDemand(), 2, i)
		require.NoError(t, err)
		sum += tr.StudentWeeks[1]
	}
	mean := sum / trials
	// E[D_t] = base when growth is zero; 0.2 vol over 2 years gives ~0.28 CV.
	assert.InDelta(t, 105, mean, 105*0.03)
	assert.False(t, math.IsNaN(mean))
}
