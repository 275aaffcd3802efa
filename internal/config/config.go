package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"nev-montecarlo/internal/analysis"
	"nev-montecarlo/internal/model"
	"nev-montecarlo/internal/montecarlo"
	"nev-montecarlo/internal/projection"
	"nev-montecarlo/internal/risk"
	"nev-montecarlo/internal/scenario"
	"nev-montecarlo/internal/strategy"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration shape (YAML). Omitted sections fall
// back to Default().
type Config struct {
	// Optional: path to the historical records (CSV or JSON), relative to
	// the config file.
	HistoryFile string `yaml:"history_file"`

	Calibration CalibrationConfig       `yaml:"calibration"`
	Simulation  SimulationConfig        `yaml:"simulation"`
	Valuation   ValuationConfig         `yaml:"valuation"`
	Risk        risk.Limits             `yaml:"risk"`
	Intangibles model.MonetizationRates `yaml:"intangibles"`

	Benchmark  string          `yaml:"benchmark"`
	Horizons   []model.Horizon `yaml:"horizons"`
	Strategies []StrategyEntry `yaml:"strategies"`
	Scenarios  []ScenarioEntry `yaml:"scenarios"`
}

type CalibrationConfig struct {
	Debt          *model.DebtSchedule `yaml:"debt"`
	DebtTermYears int                 `yaml:"debt_term_years"`
}

type SimulationConfig struct {
	Trials         int           `yaml:"trials"`
	Seed           uint64        `yaml:"seed"`
	Workers        int           `yaml:"workers"`
	ChunkSize      int           `yaml:"chunk_size"`
	PeriodsPerYear int           `yaml:"periods_per_year"`
	Timeout        time.Duration `yaml:"timeout"`
}

type ValuationConfig struct {
	// Pointers so an explicit 0 is not mistaken for "unset".
	DiscountRate     *float64 `yaml:"discount_rate"`
	TerminalMultiple *float64 `yaml:"terminal_multiple"`
}

// StrategyEntry decodes a strategy definition on top of the default
// definition of the same kind, so a config only lists what it changes.
type StrategyEntry strategy.Definition

func (e *StrategyEntry) UnmarshalYAML(n *yaml.Node) error {
	var head struct {
		Name string `yaml:"name"`
		Kind string `yaml:"kind"`
	}
	if err := n.Decode(&head); err != nil {
		return err
	}
	kind := head.Kind
	if kind == "" {
		kind = head.Name
	}
	type plain strategy.Definition
	p := plain(defaultDefinition(model.StrategyKind(kind)))
	if err := n.Decode(&p); err != nil {
		return err
	}
	if p.Kind == "" {
		p.Kind = model.StrategyKind(kind)
	}
	*e = StrategyEntry(p)
	return nil
}

// ScenarioEntry decodes a scenario with a neutral volatility multiplier
// unless the file sets one.
type ScenarioEntry scenario.Scenario

func (e *ScenarioEntry) UnmarshalYAML(n *yaml.Node) error {
	type plain scenario.Scenario
	p := plain{Demand: model.NeutralDemand()}
	if err := n.Decode(&p); err != nil {
		return err
	}
	*e = ScenarioEntry(p)
	return nil
}

func defaultDefinition(kind model.StrategyKind) strategy.Definition {
	for _, d := range strategy.DefaultDefinitions() {
		if d.Kind == kind {
			return d
		}
	}
	return strategy.Definition{Kind: kind}
}

// Default returns the built-in configuration: the default catalog and
// simulation options.
func Default() *Config {
	opts := montecarlo.DefaultOptions()
	cat := scenario.DefaultCatalog()
	c := &Config{
		Calibration: CalibrationConfig{DebtTermYears: 5},
		Simulation: SimulationConfig{
			Trials:         opts.Trials,
			Seed:           opts.Seed,
			Workers:        opts.Workers,
			ChunkSize:      opts.ChunkSize,
			PeriodsPerYear: opts.PeriodsPerYear,
		},
		Valuation: ValuationConfig{
			DiscountRate:     &opts.Valuation.DiscountRate,
			TerminalMultiple: &opts.Valuation.TerminalMultiple,
		},
		Risk:        opts.Limits,
		Intangibles: opts.Rates,
		Benchmark:   cat.Benchmark,
		Horizons:    cat.Horizons,
	}
	for _, d := range cat.Strategies {
		c.Strategies = append(c.Strategies, StrategyEntry(d))
	}
	for _, s := range cat.Scenarios {
		c.Scenarios = append(c.Scenarios, ScenarioEntry(s))
	}
	return c
}

func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads the file and merges it over Default(), but does not
// validate it. Useful for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if c.HistoryFile != "" && !filepath.IsAbs(c.HistoryFile) {
		// Prefer interpreting relative paths as relative to the config file directory,
		// but fall back to the provided path (relative to cwd) if that doesn't exist.
		cand := filepath.Join(filepath.Dir(path), c.HistoryFile)
		if _, err := os.Stat(cand); err == nil {
			c.HistoryFile = cand
		}
	}
	return c, nil
}

// Parse decodes YAML and merges it over Default().
func Parse(raw []byte) (*Config, error) {
	return ParseOver(Default(), raw)
}

// ParseOver decodes YAML and merges it over base. base is not modified.
func ParseOver(base *Config, raw []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	return Merge(base, &c), nil
}

// Merge overlays the set fields of override onto base. Lists replace
// rather than append.
func Merge(base, override *Config) *Config {
	out := *base
	if override.HistoryFile != "" {
		out.HistoryFile = override.HistoryFile
	}
	out.Calibration = MergeCalibration(base.Calibration, override.Calibration)
	out.Simulation = MergeSimulation(base.Simulation, override.Simulation)
	out.Valuation = MergeValuation(base.Valuation, override.Valuation)
	out.Risk = MergeRisk(base.Risk, override.Risk)
	out.Intangibles = MergeRates(base.Intangibles, override.Intangibles)
	if override.Benchmark != "" {
		out.Benchmark = override.Benchmark
	}
	if len(override.Horizons) > 0 {
		out.Horizons = override.Horizons
	}
	if len(override.Strategies) > 0 {
		out.Strategies = override.Strategies
	}
	if len(override.Scenarios) > 0 {
		out.Scenarios = override.Scenarios
	}
	return &out
}

func MergeCalibration(base, override CalibrationConfig) CalibrationConfig {
	out := base
	if override.Debt != nil {
		d := *override.Debt
		out.Debt = &d
	}
	if override.DebtTermYears != 0 {
		out.DebtTermYears = override.DebtTermYears
	}
	return out
}

func MergeSimulation(base, override SimulationConfig) SimulationConfig {
	out := base
	if override.Trials != 0 {
		out.Trials = override.Trials
	}
	// Note: a seed of 0 cannot be selected from YAML; it means "default".
	if override.Seed != 0 {
		out.Seed = override.Seed
	}
	if override.Workers != 0 {
		out.Workers = override.Workers
	}
	if override.ChunkSize != 0 {
		out.ChunkSize = override.ChunkSize
	}
	if override.PeriodsPerYear != 0 {
		out.PeriodsPerYear = override.PeriodsPerYear
	}
	if override.Timeout != 0 {
		out.Timeout = override.Timeout
	}
	return out
}

func MergeValuation(base, override ValuationConfig) ValuationConfig {
	out := base
	if override.DiscountRate != nil {
		out.DiscountRate = override.DiscountRate
	}
	if override.TerminalMultiple != nil {
		out.TerminalMultiple = override.TerminalMultiple
	}
	return out
}

func MergeRisk(base, override risk.Limits) risk.Limits {
	out := base
	if override.TailLevel != 0 {
		out.TailLevel = override.TailLevel
	}
	if override.UpperLevel != 0 {
		out.UpperLevel = override.UpperLevel
	}
	if override.MaxFailureRate != 0 {
		out.MaxFailureRate = override.MaxFailureRate
	}
	return out
}

func MergeRates(base, override model.MonetizationRates) model.MonetizationRates {
	out := base
	if override.Moral != 0 {
		out.Moral = override.Moral
	}
	if override.Reputation != 0 {
		out.Reputation = override.Reputation
	}
	if override.Academic != 0 {
		out.Academic = override.Academic
	}
	return out
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.Calibration.DebtTermYears < 0 {
		return &model.ConfigurationError{Field: "calibration.debt_term_years", Message: "must be >= 0"}
	}
	if c.Calibration.Debt != nil {
		if err := c.Calibration.Debt.Validate(); err != nil {
			return &model.ConfigurationError{Field: "calibration.debt", Message: err.Error()}
		}
	}
	if err := c.ToCatalog().Validate(); err != nil {
		return err
	}
	return c.ToOptions().Validate()
}

func (c *Config) ToCatalog() scenario.Catalog {
	cat := scenario.Catalog{
		Horizons:  append([]model.Horizon(nil), c.Horizons...),
		Benchmark: c.Benchmark,
	}
	for _, s := range c.Strategies {
		cat.Strategies = append(cat.Strategies, strategy.Definition(s).Clone())
	}
	for _, s := range c.Scenarios {
		cat.Scenarios = append(cat.Scenarios, scenario.Scenario(s))
	}
	return cat
}

func (c *Config) ToOptions() montecarlo.Options {
	o := montecarlo.Options{
		Trials:         c.Simulation.Trials,
		Seed:           c.Simulation.Seed,
		Workers:        c.Simulation.Workers,
		ChunkSize:      c.Simulation.ChunkSize,
		PeriodsPerYear: c.Simulation.PeriodsPerYear,
		Timeout:        c.Simulation.Timeout,
		Valuation:      projection.DefaultConfig(),
		Limits:         c.Risk,
		Rates:          c.ToRates(),
	}
	if c.Valuation.DiscountRate != nil {
		o.Valuation.DiscountRate = *c.Valuation.DiscountRate
	}
	if c.Valuation.TerminalMultiple != nil {
		o.Valuation.TerminalMultiple = *c.Valuation.TerminalMultiple
	}
	return o
}

func (c *Config) ToCalibrationOptions() analysis.CalibrationOptions {
	return analysis.CalibrationOptions{
		Debt:          c.Calibration.Debt,
		DebtTermYears: c.Calibration.DebtTermYears,
	}
}

func (c *Config) ToRates() model.MonetizationRates {
	return c.Intangibles
}
