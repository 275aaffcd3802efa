package projection

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
)

func WriteLedgerCSV(path string, ledger []LedgerRow) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return EncodeLedgerCSV(f, ledger)
}

func EncodeLedgerCSV(out io.Writer, ledger []LedgerRow) error {
	w := csv.NewWriter(out)

	header := []string{
		"index",
		"year",
		"student_weeks",
		"weekend_students",
		"revenue",
		"variable_costs",
		"fixed_costs",
		"debt_service",
		"investment",
		"net",
		"discount_factor",
		"present_value",
		"cum_present_value",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, r := range ledger {
		row := []string{
			strconv.Itoa(r.Index),
			strconv.Itoa(r.Year),
			fmtFloat(r.StudentWeeks),
			fmtFloat(r.WeekendStudents),
			fmtFloat(r.Revenue),
			fmtFloat(r.VariableCosts),
			fmtFloat(r.FixedCosts),
			fmtFloat(r.DebtService),
			fmtFloat(r.Investment),
			fmtFloat(r.Net),
			fmtFloat(r.DiscountFactor),
			fmtFloat(r.PresentValue),
			fmtFloat(r.CumPresentValue),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
