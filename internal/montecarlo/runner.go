// Package montecarlo runs the scenario x horizon x strategy grid.
package montecarlo

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"nev-montecarlo/internal/demand"
	"nev-montecarlo/internal/intangible"
	"nev-montecarlo/internal/model"
	"nev-montecarlo/internal/projection"
	"nev-montecarlo/internal/risk"
	"nev-montecarlo/internal/scenario"
	"nev-montecarlo/internal/strategy"
)

// Failure describes a triple that could not be valued.
type Failure struct {
	Strategy string        `json:"strategy"`
	Scenario string        `json:"scenario"`
	Horizon  model.Horizon `json:"horizon"`
	Reason   string        `json:"reason"`
}

// Report is the result of one run.
type Report struct {
	Rows     []model.SummaryRow         `json:"rows"`
	Failures []Failure                  `json:"failures"`
	Params   model.CalibratedParameters `json:"params"`

	Trials    int    `json:"trials"`
	Seed      uint64 `json:"seed"`
	Benchmark string `json:"benchmark"`

	// Incomplete is set when the run stopped early; Rows then holds only
	// the cells that finished.
	Incomplete bool `json:"incomplete"`

	StartedAt time.Time     `json:"started_at"`
	Elapsed   time.Duration `json:"elapsed"`
}

// Runner evaluates every strategy of a catalog across its scenarios and
// horizons. A Runner may be reused; it keeps no state between runs.
type Runner struct {
	catalog  scenario.Catalog
	opts     Options
	log      zerolog.Logger
	engine   *projection.Engine
	valuator *intangible.Valuator

	build func(strategy.Definition) (strategy.Strategy, error)
}

func NewRunner(catalog scenario.Catalog, opts Options, log zerolog.Logger) *Runner {
	return &Runner{
		catalog:  catalog,
		opts:     opts,
		log:      log.With().Str("component", "montecarlo").Logger(),
		engine:   projection.New(opts.Valuation),
		valuator: intangible.NewValuator(opts.Rates),
		build:    strategy.Build,
	}
}

// cell is one (scenario, horizon) pair with its scenario-adjusted strategies.
type cell struct {
	scenario scenario.Scenario
	horizon  model.Horizon
	defs     []strategy.Definition
	strats   []strategy.Strategy
	buildErr []error
	adjust   []float64

	chunks []*risk.Collector
	done   []bool
}

func (c *cell) complete() bool {
	for _, d := range c.done {
		if !d {
			return false
		}
	}
	return true
}

// Run simulates the full grid. Configuration errors are returned; per-trial
// failures are counted in the report. When the context ends or the timeout
// elapses, the finished cells are returned with Incomplete set.
func (r *Runner) Run(ctx context.Context, params model.CalibratedParameters) (*Report, error) {
	if err := r.catalog.Validate(); err != nil {
		return nil, err
	}
	if err := r.opts.Validate(); err != nil {
		return nil, err
	}
	if err := params.Validate(); err != nil {
		return nil, &model.ConfigurationError{Field: "params", Message: err.Error()}
	}

	if r.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.opts.Timeout)
		defer cancel()
	}

	started := time.Now()
	report := &Report{
		Params:    params,
		Trials:    r.opts.Trials,
		Seed:      r.opts.Seed,
		Benchmark: r.catalog.Benchmark,
		StartedAt: started.UTC(),
	}

	cells, err := r.plan()
	if err != nil {
		return nil, err
	}
	r.log.Info().
		Int("scenarios", len(r.catalog.Scenarios)).
		Int("horizons", len(r.catalog.Horizons)).
		Int("strategies", len(r.catalog.Strategies)).
		Int("trials", r.opts.Trials).
		Int("workers", r.opts.Workers).
		Uint64("seed", r.opts.Seed).
		Msg("starting simulation")

	sim := demand.New(params, r.opts.Seed, demand.WithPeriodsPerYear(r.opts.PeriodsPerYear))
	runErr := r.execute(ctx, sim, params, cells)
	if runErr != nil && !errors.Is(runErr, context.Canceled) && !errors.Is(runErr, context.DeadlineExceeded) {
		return nil, runErr
	}

	names := r.catalog.StrategyNames()
	for _, c := range cells {
		if !c.complete() {
			report.Incomplete = true
			continue
		}
		merged := risk.NewCollector(c.scenario.Name, c.horizon)
		for _, ch := range c.chunks {
			merged.Merge(ch)
		}
		rows := merged.Summarize(names, r.catalog.Benchmark, r.opts.Limits)
		for i := range rows {
			rows[i].Kind = string(c.defs[i].Kind)
			if rows[i].Failed {
				reason := rows[i].FailureReason
				if c.buildErr[i] != nil {
					reason = c.buildErr[i].Error()
				}
				report.Failures = append(report.Failures, Failure{
					Strategy: rows[i].Strategy,
					Scenario: rows[i].Scenario,
					Horizon:  rows[i].Horizon,
					Reason:   reason,
				})
				r.log.Warn().
					Str("strategy", rows[i].Strategy).
					Str("scenario", rows[i].Scenario).
					Int("horizon", int(rows[i].Horizon)).
					Str("reason", reason).
					Msg("triple failed")
			}
		}
		report.Rows = append(report.Rows, rows...)
	}

	report.Elapsed = time.Since(started)
	ev := r.log.Info()
	if report.Incomplete {
		ev = r.log.Warn()
	}
	ev.Int("rows", len(report.Rows)).
		Int("failures", len(report.Failures)).
		Bool("incomplete", report.Incomplete).
		Dur("elapsed", report.Elapsed).
		Msg("simulation finished")
	return report, nil
}

func (r *Runner) plan() ([]*cell, error) {
	nChunks := (r.opts.Trials + r.opts.ChunkSize - 1) / r.opts.ChunkSize
	var cells []*cell
	for _, sc := range r.catalog.Scenarios {
		defs, err := sc.Apply(r.catalog.Strategies)
		if err != nil {
			return nil, err
		}
		strats := make([]strategy.Strategy, len(defs))
		buildErr := make([]error, len(defs))
		adjust := make([]float64, len(defs))
		for i, d := range defs {
			strats[i], buildErr[i] = r.build(d)
			if buildErr[i] != nil {
				r.log.Error().Err(buildErr[i]).Str("strategy", d.Name).Str("scenario", sc.Name).Msg("cannot build strategy")
			}
			adjust[i] = r.valuator.Value(d.Intangible)
		}
		for _, h := range r.catalog.Horizons {
			cells = append(cells, &cell{
				scenario: sc,
				horizon:  h,
				defs:     defs,
				strats:   strats,
				buildErr: buildErr,
				adjust:   adjust,
				chunks:   make([]*risk.Collector, nChunks),
				done:     make([]bool, nChunks),
			})
		}
	}
	return cells, nil
}

func (r *Runner) execute(ctx context.Context, sim *demand.Simulator, params model.CalibratedParameters, cells []*cell) error {
	sem := semaphore.NewWeighted(int64(r.opts.Workers))
	var g errgroup.Group
	var mu sync.Mutex

submit:
	for _, c := range cells {
		for chunk := range c.chunks {
			if err := sem.Acquire(ctx, 1); err != nil {
				break submit
			}
			g.Go(func() error {
				defer sem.Release(1)
				from := chunk * r.opts.ChunkSize
				to := min(from+r.opts.ChunkSize, r.opts.Trials)
				col, err := r.runChunk(ctx, sim, params, c, from, to)
				if err != nil {
					return err
				}
				mu.Lock()
				c.chunks[chunk] = col
				c.done[chunk] = true
				mu.Unlock()
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

const cancelCheckEvery = 16

// runChunk projects trials [from, to) of one cell. Each trajectory is drawn
// once and shared by every strategy.
func (r *Runner) runChunk(ctx context.Context, sim *demand.Simulator, params model.CalibratedParameters, c *cell, from, to int) (*risk.Collector, error) {
	col := risk.NewCollector(c.scenario.Name, c.horizon)
	for trial := from; trial < to; trial++ {
		if (trial-from)%cancelCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		tr, trErr := sim.Trajectory(c.scenario.Name, c.scenario.Demand, c.horizon, trial)
		for i, d := range c.defs {
			o := model.TrialOutcome{
				Strategy: d.Name,
				Scenario: c.scenario.Name,
				Horizon:  c.horizon,
				Trial:    trial,
			}
			switch {
			case c.buildErr[i] != nil:
				o.Err = c.buildErr[i]
			case trErr != nil:
				o.Err = trErr
			default:
				p, err := r.engine.Project(tr, params, c.strats[i])
				if err != nil {
					o.Err = err
					break
				}
				o.FinancialNEV = p.FinancialNEV
				o.IntangibleAdjustment = c.adjust[i]
				o.TotalNEV = p.FinancialNEV + c.adjust[i]
			}
			col.Add(o)
		}
	}
	return col, nil
}

// Lookup returns the row for a triple.
func (rep *Report) Lookup(name, sc string, h model.Horizon) (model.SummaryRow, bool) {
	for _, row := range rep.Rows {
		if row.Strategy == name && row.Scenario == sc && row.Horizon == h {
			return row, true
		}
	}
	return model.SummaryRow{}, false
}

func (f Failure) String() string {
	return fmt.Sprintf("%s/%s/%dy: %s", f.Strategy, f.Scenario, f.Horizon, f.Reason)
}
