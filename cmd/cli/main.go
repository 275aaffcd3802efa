package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"nev-montecarlo/internal/analysis"
	"nev-montecarlo/internal/config"
	"nev-montecarlo/internal/data"
	"nev-montecarlo/internal/intangible"
	"nev-montecarlo/internal/logger"
	"nev-montecarlo/internal/model"
	"nev-montecarlo/internal/montecarlo"
	"nev-montecarlo/internal/projection"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "run":
		err = cmdRun(os.Args[2:])
	case "calibrate":
		err = cmdCalibrate(os.Args[2:])
	case "status-quo":
		err = cmdStatusQuo(os.Args[2:])
	case "scenarios":
		err = cmdScenarios(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli run --config examples/config.yaml --history examples/history.csv --out results/summary.csv")
	fmt.Println("  cli calibrate --history examples/history.csv")
	fmt.Println("  cli status-quo --history examples/history.csv --strategy RELE --horizon 5 --out results/ledger.csv")
	fmt.Println("  cli scenarios --config examples/config.yaml")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - run evaluates every strategy across every scenario and horizon")
	fmt.Println("  - --history overrides history_file from the config")
}

type common struct {
	cfgPath  *string
	history  *string
	logLevel *string
	pretty   *bool
}

func commonFlags(fs *flag.FlagSet) common {
	return common{
		cfgPath:  fs.String("config", "", "Path to YAML config (optional)"),
		history:  fs.String("history", "", "Path to historical records (CSV or JSON)"),
		logLevel: fs.String("log-level", "info", "debug, info, warn, error"),
		pretty:   fs.Bool("pretty", true, "Human-readable log output"),
	}
}

func (c common) logger() zerolog.Logger {
	return logger.New(logger.Config{Level: *c.logLevel, Pretty: *c.pretty})
}

func (c common) config() (*config.Config, error) {
	if *c.cfgPath == "" {
		return config.Default(), nil
	}
	return config.Load(*c.cfgPath)
}

func (c common) params(cfg *config.Config) (model.CalibratedParameters, error) {
	path := *c.history
	if path == "" {
		path = cfg.HistoryFile
	}
	if path == "" {
		return model.CalibratedParameters{}, errors.New("--history is required when the config has no history_file")
	}
	records, err := data.LoadHistory(path)
	if err != nil {
		return model.CalibratedParameters{}, err
	}
	return analysis.Calibrate(records, cfg.ToCalibrationOptions())
}

func cmdRun(args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	cf := commonFlags(fs)
	outPath := fs.String("out", "results/summary.csv", "Output CSV path")
	trials := fs.Int("trials", 0, "Override simulation.trials")
	seed := fs.Uint64("seed", 0, "Override simulation.seed")
	rankBy := fs.String("rank-by", "expected", "Ranking metric: expected or cvar")
	_ = fs.Parse(args)

	log := cf.logger()
	metric, ok := analysis.ParseRankMetric(*rankBy)
	if !ok {
		return fmt.Errorf("unknown --rank-by %q", *rankBy)
	}
	cfg, err := cf.config()
	if err != nil {
		return err
	}
	params, err := cf.params(cfg)
	if err != nil {
		return err
	}

	opts := cfg.ToOptions()
	if *trials > 0 {
		opts.Trials = *trials
	}
	if *seed != 0 {
		opts.Seed = *seed
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	report, err := montecarlo.NewRunner(cfg.ToCatalog(), opts, log).Run(ctx, params)
	if err != nil {
		return err
	}
	if report.Incomplete {
		log.Warn().Int("rows", len(report.Rows)).Msg("run stopped early; summary is partial")
	}
	for _, f := range report.Failures {
		log.Warn().Msg(f.String())
	}

	if err := os.MkdirAll(filepath.Dir(*outPath), 0o755); err != nil {
		return err
	}
	if err := montecarlo.WriteSummaryCSV(*outPath, report.Rows); err != nil {
		return err
	}
	fmt.Printf("Wrote %d rows to %s (trials=%d seed=%d elapsed=%s)\n",
		len(report.Rows), *outPath, report.Trials, report.Seed, report.Elapsed.Round(time.Millisecond))

	fmt.Printf("\n%-34s %-4s %-8s %14s %14s\n", "scenario", "h", "best", "E[NEV]", "CVaR5")
	for _, cell := range analysis.Rank(report.Rows, metric) {
		if cell.Best == "" {
			fmt.Printf("%-34s %-4d %-8s\n", cell.Scenario, cell.Horizon, "-")
			continue
		}
		best, _ := report.Lookup(cell.Best, cell.Scenario, cell.Horizon)
		fmt.Printf("%-34s %-4d %-8s %14.0f %14.0f\n", cell.Scenario, cell.Horizon, cell.Best, best.ExpectedNEV, best.CVaR5)
	}
	return nil
}

func cmdCalibrate(args []string) error {
	fs := flag.NewFlagSet("calibrate", flag.ExitOnError)
	cf := commonFlags(fs)
	_ = fs.Parse(args)

	cfg, err := cf.config()
	if err != nil {
		return err
	}
	params, err := cf.params(cfg)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(params)
}

func cmdStatusQuo(args []string) error {
	fs := flag.NewFlagSet("status-quo", flag.ExitOnError)
	cf := commonFlags(fs)
	strategyName := fs.String("strategy", "RELE", "Strategy name")
	scenarioName := fs.String("scenario", "", "Scenario name (default: first)")
	horizon := fs.Int("horizon", 5, "Horizon in years")
	outPath := fs.String("out", "", "Optional path to write the ledger CSV")
	_ = fs.Parse(args)

	cfg, err := cf.config()
	if err != nil {
		return err
	}
	params, err := cf.params(cfg)
	if err != nil {
		return err
	}
	catalog := cfg.ToCatalog()
	if *scenarioName == "" {
		*scenarioName = catalog.Scenarios[0].Name
	}

	rep, err := montecarlo.StatusQuo(params, catalog, *scenarioName, *strategyName, model.Horizon(*horizon), cfg.ToOptions())
	if err != nil {
		return err
	}

	fmt.Printf("%s / %s / %dy\n", rep.Strategy, rep.Scenario, rep.Horizon)
	fmt.Printf("%-6s %-5s %12s %12s %12s\n", "index", "year", "net", "pv", "cum_pv")
	for _, r := range rep.Ledger {
		fmt.Printf("%-6d %-5d %12.0f %12.0f %12.0f\n", r.Index, r.Year, r.Net, r.PresentValue, r.CumPresentValue)
	}
	fmt.Printf("initial=%.0f terminal=%.0f pv_terminal=%.0f\n", rep.Projection.InitialCashFlow, rep.Projection.TerminalValue, rep.Projection.PresentValueTerminal)
	fmt.Printf("financial NEV=%.0f intangible=%.0f total NEV=%.0f\n", rep.Projection.FinancialNEV, rep.Intangible.Value, rep.TotalNEV)

	if *outPath != "" {
		if err := os.MkdirAll(filepath.Dir(*outPath), 0o755); err != nil {
			return err
		}
		if err := projection.WriteLedgerCSV(*outPath, rep.Ledger); err != nil {
			return err
		}
		fmt.Printf("Wrote %d rows to %s\n", len(rep.Ledger), *outPath)
	}
	return nil
}

func cmdScenarios(args []string) error {
	fs := flag.NewFlagSet("scenarios", flag.ExitOnError)
	cf := commonFlags(fs)
	_ = fs.Parse(args)

	cfg, err := cf.config()
	if err != nil {
		return err
	}
	catalog := cfg.ToCatalog()
	v := intangible.NewValuator(cfg.ToRates())

	fmt.Println("strategies:")
	for _, d := range catalog.Strategies {
		fmt.Printf("  %-8s %-6s intangible=%.0f\n", d.Name, d.Kind, v.Value(d.Intangible))
	}
	fmt.Printf("benchmark: %s\nhorizons: %v\n\nscenarios:\n", catalog.Benchmark, catalog.Horizons)
	for _, s := range catalog.Scenarios {
		fmt.Printf("  %-34s shift=%+.2f growth=%+.3f vol=x%.2f op_shift=%+.2f overrides=%d\n",
			s.Name, s.Demand.Shift, s.Demand.Growth, s.Demand.VolatilityMultiplier, s.OperatingShift, len(s.Overrides))
	}
	return nil
}
