package risk

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nev-montecarlo/internal/model"
)

func outcomes(name string, values ...float64) []model.TrialOutcome {
	out := make([]model.TrialOutcome, len(values))
	for i, v := range values {
		out[i] = model.TrialOutcome{Strategy: name, Scenario: "Base case", Horizon: 5, Trial: i, TotalNEV: v}
	}
	return out
}

func key(name string) model.TripleKey {
	return model.TripleKey{Strategy: name, Scenario: "Base case", Horizon: 5}
}

func TestQuantileSorted(t *testing.T) {
	vals := []float64{1, 2, 3, 4, 5}
	assert.Equal(t, 1.0, quantileSorted(vals, 0))
	assert.Equal(t, 3.0, quantileSorted(vals, 0.5))
	assert.InDelta(t, 1.2, quantileSorted(vals, 0.05), 1e-12)
	assert.InDelta(t, 4.8, quantileSorted(vals, 0.95), 1e-12)
	assert.True(t, math.IsNaN(quantileSorted(nil, 0.5)))
}

func TestAggregate_Statistics(t *testing.T) {
	vals := make([]float64, 0, 101)
	for i := 0; i <= 100; i++ {
		vals = append(vals, float64(i))
	}
	row := Aggregate(key("RELE"), outcomes("RELE", vals...), nil, DefaultLimits())

	assert.Equal(t, 101, row.Trials)
	assert.Equal(t, 101, row.ValidTrials)
	assert.InDelta(t, 50.0, row.ExpectedNEV, 1e-9)
	assert.InDelta(t, 5.0, row.VaR5, 1e-9)
	assert.InDelta(t, 2.5, row.CVaR5, 1e-9)
	assert.InDelta(t, 95.0, row.P95, 1e-9)
	assert.Nil(t, row.OutperformanceProb)
	assert.False(t, row.Failed)
}

func TestAggregate_OrderingProperties(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	vals := make([]float64, 1000)
	for i := range vals {
		vals[i] = 1e5 + 3e4*r.NormFloat64()
	}
	row := Aggregate(key("RELE"), outcomes("RELE", vals...), nil, DefaultLimits())

	assert.LessOrEqual(t, row.CVaR5, row.VaR5)
	assert.LessOrEqual(t, row.VaR5, row.ExpectedNEV)
	assert.LessOrEqual(t, row.ExpectedNEV, row.P95)
	assert.Greater(t, row.StdDevNEV, 0.0)
}

func TestAggregate_OrderIndependent(t *testing.T) {
	vals := []float64{0.1, 1e9, -3.3, 7, 1e-7, 42, -1e8}
	a := Aggregate(key("RELE"), outcomes("RELE", vals...), nil, DefaultLimits())

	rev := outcomes("RELE", vals...)
	for i, j := 0, len(rev)-1; i < j; i, j = i+1, j-1 {
		rev[i], rev[j] = rev[j], rev[i]
	}
	b := Aggregate(key("RELE"), rev, nil, DefaultLimits())
	assert.Equal(t, a, b)
}

func TestAggregate_Outperformance(t *testing.T) {
	sell := outcomes("SELL", 100, 100, 100, 100)

	row := Aggregate(key("RELE"), outcomes("RELE", 101, 200, 300, 400), sell, DefaultLimits())
	require.NotNil(t, row.OutperformanceProb)
	assert.Equal(t, 1.0, *row.OutperformanceProb)

	row = Aggregate(key("RELE"), outcomes("RELE", 50, 200, 100, 400), sell, DefaultLimits())
	require.NotNil(t, row.OutperformanceProb)
	assert.Equal(t, 0.5, *row.OutperformanceProb, "ties do not count as wins")
}

func TestAggregate_PairsOnlyValidTrials(t *testing.T) {
	sell := outcomes("SELL", 100, 100, 100, 100)
	sell[0].Err = errors.New("boom")
	cand := outcomes("OILTS", 200, 50, math.NaN(), 300)

	row := Aggregate(key("OILTS"), cand, sell, Limits{TailLevel: 0.05, UpperLevel: 0.95, MaxFailureRate: 0.5})
	require.NotNil(t, row.OutperformanceProb)
	// pairs: trial 1 (50 vs 100), trial 3 (300 vs 100)
	assert.Equal(t, 0.5, *row.OutperformanceProb)
	assert.Equal(t, 1, row.Discarded)
	assert.Equal(t, 3, row.ValidTrials)
	assert.False(t, row.Failed)
}

func TestAggregate_FailureThreshold(t *testing.T) {
	outs := outcomes("RELE", 1, 2, 3, 4, 5, 6, 7, 8, 9, 10)
	outs[0].Err = &model.SimulationError{Err: errors.New("x")}
	outs[1].TotalNEV = math.Inf(1)

	row := Aggregate(key("RELE"), outs, nil, DefaultLimits())
	assert.Equal(t, 1, row.FailedTrials)
	assert.Equal(t, 1, row.Discarded)
	assert.True(t, row.Failed)
	assert.Contains(t, row.FailureReason, "2 of 10")

	all := outcomes("RELE", math.NaN(), math.NaN())
	row = Aggregate(key("RELE"), all, nil, DefaultLimits())
	assert.True(t, row.Failed)
	assert.Contains(t, row.FailureReason, "no valid trials")

	row = Aggregate(key("RELE"), nil, nil, DefaultLimits())
	assert.True(t, row.Failed)
}

func TestAggregate_ZeroVariance(t *testing.T) {
	row := Aggregate(key("SELL"), outcomes("SELL", 5, 5, 5), nil, DefaultLimits())
	assert.Zero(t, row.StdDevNEV)
	assert.Equal(t, 5.0, row.VaR5)
	assert.Equal(t, 5.0, row.CVaR5)
	assert.Equal(t, 5.0, row.P95)
}

func TestLimits_Validate(t *testing.T) {
	assert.NoError(t, DefaultLimits().Validate())
	assert.Error(t, Limits{TailLevel: 0, UpperLevel: 0.95}.Validate())
	assert.Error(t, Limits{TailLevel: 0.5, UpperLevel: 0.4}.Validate())
	assert.Error(t, Limits{TailLevel: 0.05, UpperLevel: 0.95, MaxFailureRate: 2}.Validate())
}

func TestAggregate_NonFiniteErrorsAreDiscarded(t *testing.T) {
	outs := outcomes("RELE", 1, 2, 3, 4, 5, 6, 7, 8, 9, 10)
	outs[2].Err = &model.SimulationError{Trial: 2, Err: fmt.Errorf("period 1: cash flow: %w", model.ErrNonFinite)}
	outs[5].Err = &model.SimulationError{Trial: 5, Err: errors.New("empty trajectory")}

	row := Aggregate(key("RELE"), outs, nil, DefaultLimits())
	assert.Equal(t, 1, row.Discarded)
	assert.Equal(t, 1, row.FailedTrials)
	assert.Equal(t, 8, row.ValidTrials)
	assert.False(t, row.Failed)
}
