package montecarlo

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"nev-montecarlo/internal/model"
)

func WriteSummaryCSV(path string, rows []model.SummaryRow) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return EncodeSummaryCSV(f, rows)
}

func EncodeSummaryCSV(out io.Writer, rows []model.SummaryRow) error {
	w := csv.NewWriter(out)

	header := []string{
		"strategy",
		"kind",
		"scenario",
		"horizon",
		"expected_nev",
		"var_5",
		"cvar_5",
		"outperformance_prob",
		"p95",
		"stddev_nev",
		"trials",
		"valid_trials",
		"failed_trials",
		"discarded",
		"failed",
		"failure_reason",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, r := range rows {
		prob := ""
		if r.OutperformanceProb != nil {
			prob = fmtFloat(*r.OutperformanceProb)
		}
		row := []string{
			r.Strategy,
			r.Kind,
			r.Scenario,
			strconv.Itoa(int(r.Horizon)),
			fmtFloat(r.ExpectedNEV),
			fmtFloat(r.VaR5),
			fmtFloat(r.CVaR5),
			prob,
			fmtFloat(r.P95),
			fmtFloat(r.StdDevNEV),
			strconv.Itoa(r.Trials),
			strconv.Itoa(r.ValidTrials),
			strconv.Itoa(r.FailedTrials),
			strconv.Itoa(r.Discarded),
			strconv.FormatBool(r.Failed),
			r.FailureReason,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 2, 64)
}
