package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"nev-montecarlo/internal/analysis"
	"nev-montecarlo/internal/logger"
	"nev-montecarlo/internal/model"
	"nev-montecarlo/internal/montecarlo"
	"nev-montecarlo/internal/projection"
	"nev-montecarlo/internal/scenario"
)

// Demo:
// - Calibrate a three-period history
// - Project each strategy on the expected demand path
// - Run a small Monte Carlo on the base case and print the summary
func main() {
	trials := flag.Int("trials", 200, "Trials per cell")
	seed := flag.Uint64("seed", 42, "Master seed")
	horizon := flag.Int("horizon", 5, "Horizon in years")
	outCSV := flag.String("out", "", "Optional path to write the RELE ledger CSV")
	flag.Parse()

	log := logger.New(logger.Config{Level: "warn", Pretty: true})

	records := []model.HistoricalRecord{
		{Period: "2021", Revenue: 1000, StudentWeeks: 100},
		{Period: "2022", Revenue: 1100, StudentWeeks: 110},
		{Period: "2023", Revenue: 1050, StudentWeeks: 105},
	}
	params, err := analysis.Calibrate(records, analysis.CalibrationOptions{})
	if err != nil {
		panic(err)
	}
	fmt.Printf("Calibrated from %d periods: unit price=%.2f base demand=%.1f volatility=%.4f\n\n",
		params.Periods, params.UnitPrice, params.StudentWeeks.Base, params.StudentWeeks.Volatility)

	catalog := scenario.DefaultCatalog()
	catalog.Scenarios = catalog.Scenarios[:1]
	catalog.Horizons = []model.Horizon{model.Horizon(*horizon)}

	opts := montecarlo.DefaultOptions()
	opts.Trials = *trials
	opts.Seed = *seed

	base := catalog.Scenarios[0].Name
	for _, name := range catalog.StrategyNames() {
		rep, err := montecarlo.StatusQuo(params, catalog, base, name, model.Horizon(*horizon), opts)
		if err != nil {
			panic(err)
		}
		fmt.Printf("%-6s initial=%10.0f pv_flows=%10.0f pv_terminal=%10.0f financial=%10.0f intangible=%8.0f total=%10.0f\n",
			rep.Strategy,
			rep.Projection.InitialCashFlow,
			rep.Projection.PresentValueFlows,
			rep.Projection.PresentValueTerminal,
			rep.Projection.FinancialNEV,
			rep.Intangible.Value,
			rep.TotalNEV,
		)
		if *outCSV != "" && rep.Strategy == string(model.KindContinue) {
			if err := projection.WriteLedgerCSV(*outCSV, rep.Ledger); err != nil {
				panic(err)
			}
		}
	}

	report, err := montecarlo.NewRunner(catalog, opts, log).Run(context.Background(), params)
	if err != nil {
		panic(err)
	}

	fmt.Printf("\nMonte Carlo: %d trials, seed %d, %s\n", report.Trials, report.Seed, base)
	if err := montecarlo.EncodeSummaryCSV(os.Stdout, report.Rows); err != nil {
		panic(err)
	}
	if *outCSV != "" {
		fmt.Printf("\nWrote CSV: %s\n", *outCSV)
	}
}
