package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"time"

	"nev-montecarlo/internal/analysis"
	"nev-montecarlo/internal/api/models"
	"nev-montecarlo/internal/config"
	"nev-montecarlo/internal/data"
	"nev-montecarlo/internal/model"
	"nev-montecarlo/internal/montecarlo"
	"nev-montecarlo/internal/scenario"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RunHandler runs simulations and serves cached results.
type RunHandler struct {
	cfg     *config.Config
	cache   *data.ResultCache[*models.RunResponse]
	timeout time.Duration
	log     zerolog.Logger
}

func NewRunHandler(cfg *config.Config, cache *data.ResultCache[*models.RunResponse], timeout time.Duration, log zerolog.Logger) *RunHandler {
	return &RunHandler{
		cfg:     cfg,
		cache:   cache,
		timeout: timeout,
		log:     log.With().Str("component", "run_handler").Logger(),
	}
}

// RunSimulation handles POST /api/v1/runs
func (h *RunHandler) RunSimulation(c *gin.Context) {
	var req models.RunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidRequest(c, err)
		return
	}
	rankBy, ok := analysis.ParseRankMetric(req.Options.RankBy)
	if !ok {
		invalidRequest(c, fmt.Errorf("unknown rank_by %q", req.Options.RankBy))
		return
	}

	fp, err := data.Fingerprint(req)
	if err != nil {
		respondError(c, err)
		return
	}
	if e, ok := h.cache.Find(fp); ok {
		resp := *e.Value
		resp.Cached = true
		c.JSON(http.StatusOK, resp)
		return
	}

	cfg, err := resolveConfig(h.cfg, req.ConfigYAML)
	if err != nil {
		respondError(c, err)
		return
	}
	catalog, opts, err := applyRunOptions(cfg, req.Options)
	if err != nil {
		respondError(c, err)
		return
	}
	if h.timeout > 0 && (opts.Timeout == 0 || opts.Timeout > h.timeout) {
		opts.Timeout = h.timeout
	}

	params, err := calibrate(req.CalibrationInput, cfg)
	if err != nil {
		respondError(c, err)
		return
	}

	report, err := montecarlo.NewRunner(catalog, opts, h.log).Run(c.Request.Context(), params)
	if err != nil {
		respondError(c, err)
		return
	}
	if report.Incomplete && errors.Is(c.Request.Context().Err(), context.Canceled) {
		// client went away
		return
	}

	resp := &models.RunResponse{
		Status:    "complete",
		Params:    report.Params,
		Trials:    report.Trials,
		Seed:      report.Seed,
		Benchmark: report.Benchmark,
		Rows:      report.Rows,
		Failures:  report.Failures,
		Ranking:   analysis.Rank(report.Rows, rankBy),
		ElapsedMS: report.Elapsed.Milliseconds(),
	}
	key := fp
	if report.Incomplete {
		resp.Status = "incomplete"
		// Reachable by id only; a later identical request runs again.
		key = ""
	}
	entry := h.cache.Put(key, resp)
	resp.ID = entry.ID

	h.log.Info().
		Str("run_id", resp.ID).
		Int("rows", len(resp.Rows)).
		Str("status", resp.Status).
		Msg("run stored")
	c.JSON(http.StatusOK, resp)
}

// GetRun handles GET /api/v1/runs/:id
func (h *RunHandler) GetRun(c *gin.Context) {
	e, ok := h.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, e.Value)
}

// GetSummaryCSV handles GET /api/v1/runs/:id/summary.csv
func (h *RunHandler) GetSummaryCSV(c *gin.Context) {
	e, ok := h.lookup(c)
	if !ok {
		return
	}
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "summary-"+e.ID+".csv"))
	c.Status(http.StatusOK)
	if err := montecarlo.EncodeSummaryCSV(c.Writer, e.Value.Rows); err != nil {
		h.log.Error().Err(err).Str("run_id", e.ID).Msg("write summary csv")
	}
}

func (h *RunHandler) lookup(c *gin.Context) (*data.CacheEntry[*models.RunResponse], bool) {
	id := c.Param("id")
	e, ok := h.cache.Get(id)
	if !ok {
		abortWith(c, http.StatusNotFound, "NOT_FOUND", fmt.Sprintf("run %q not found or expired", id), nil)
		return nil, false
	}
	return e, true
}

// applyRunOptions narrows the configured catalog and options to a request.
func applyRunOptions(cfg *config.Config, ro models.RunOptions) (scenario.Catalog, montecarlo.Options, error) {
	catalog := cfg.ToCatalog()
	opts := cfg.ToOptions()

	if ro.Trials > 0 {
		opts.Trials = ro.Trials
	}
	if ro.Seed != 0 {
		opts.Seed = ro.Seed
	}
	if ro.PeriodsPerYear > 0 {
		opts.PeriodsPerYear = ro.PeriodsPerYear
	}

	if len(ro.Scenarios) > 0 {
		var kept []scenario.Scenario
		for _, name := range ro.Scenarios {
			s, ok := catalog.Scenario(name)
			if !ok {
				return scenario.Catalog{}, montecarlo.Options{}, &model.ConfigurationError{
					Field: "options.scenarios", Message: fmt.Sprintf("unknown scenario %q", name),
				}
			}
			kept = append(kept, s)
		}
		catalog.Scenarios = kept
	}
	if len(ro.Horizons) > 0 {
		var hs []model.Horizon
		for _, h := range ro.Horizons {
			if !slices.Contains(hs, model.Horizon(h)) {
				hs = append(hs, model.Horizon(h))
			}
		}
		catalog.Horizons = hs
	}
	return catalog, opts, nil
}
