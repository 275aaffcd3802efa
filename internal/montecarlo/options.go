package montecarlo

import (
	"time"

	"nev-montecarlo/internal/intangible"
	"nev-montecarlo/internal/model"
	"nev-montecarlo/internal/projection"
	"nev-montecarlo/internal/risk"
)

// Options control one simulation run.
type Options struct {
	Trials int
	Seed   uint64

	// Workers bounds the number of chunks processed at once.
	Workers int
	// ChunkSize is the number of trials per unit of work.
	ChunkSize      int
	PeriodsPerYear int

	Valuation projection.Config
	Limits    risk.Limits
	Rates     model.MonetizationRates

	// Timeout aborts the run; zero means no limit.
	Timeout time.Duration
}

func DefaultOptions() Options {
	return Options{
		Trials:         1000,
		Seed:           42,
		Workers:        4,
		ChunkSize:      100,
		PeriodsPerYear: 1,
		Valuation:      projection.DefaultConfig(),
		Limits:         risk.DefaultLimits(),
		Rates:          intangible.DefaultRates,
	}
}

func (o Options) Validate() error {
	if o.Trials <= 0 {
		return &model.ConfigurationError{Field: "simulation.trials", Message: "must be > 0"}
	}
	if o.Workers <= 0 {
		return &model.ConfigurationError{Field: "simulation.workers", Message: "must be > 0"}
	}
	if o.ChunkSize <= 0 {
		return &model.ConfigurationError{Field: "simulation.chunk_size", Message: "must be > 0"}
	}
	if o.PeriodsPerYear <= 0 || o.PeriodsPerYear > 52 {
		return &model.ConfigurationError{Field: "simulation.periods_per_year", Message: "must be in [1, 52]"}
	}
	if o.Timeout < 0 {
		return &model.ConfigurationError{Field: "simulation.timeout", Message: "must be >= 0"}
	}
	if o.Rates.Moral < 0 || o.Rates.Reputation < 0 || o.Rates.Academic < 0 {
		return &model.ConfigurationError{Field: "intangibles", Message: "monetization rates must be >= 0"}
	}
	if err := o.Valuation.Validate(); err != nil {
		return err
	}
	return o.Limits.Validate()
}
