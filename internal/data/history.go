package data

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"nev-montecarlo/internal/model"
)

// LoadHistory picks the decoder from the file extension (.csv or .json).
func LoadHistory(path string) ([]model.HistoricalRecord, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return LoadHistoryCSV(path)
	case ".json":
		return LoadHistoryJSON(path)
	}
	return nil, fmt.Errorf("unsupported history format %q (want .csv or .json)", filepath.Ext(path))
}

func LoadHistoryJSON(path string) ([]model.HistoricalRecord, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var records []model.HistoricalRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

func LoadHistoryCSV(path string) ([]model.HistoricalRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	records, err := DecodeHistoryCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

// DecodeHistoryCSV reads records with a header row. Columns are matched by
// name; period, revenue and student_weeks are required, missing cost and
// weekend columns read as zero.
func DecodeHistoryCSV(in io.Reader) ([]model.HistoricalRecord, error) {
	r := csv.NewReader(in)
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	col := map[string]int{}
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, req := range []string{"period", "revenue", "student_weeks"} {
		if _, ok := col[req]; !ok {
			return nil, fmt.Errorf("missing column %q", req)
		}
	}

	var out []model.HistoricalRecord
	for line := 2; ; line++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		num := func(name string) (float64, error) {
			i, ok := col[name]
			if !ok || i >= len(row) || strings.TrimSpace(row[i]) == "" {
				return 0, nil
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(row[i]), 64)
			if err != nil {
				return 0, fmt.Errorf("line %d: %s: %w", line, name, err)
			}
			return v, nil
		}

		rec := model.HistoricalRecord{Period: strings.TrimSpace(row[col["period"]])}
		for _, f := range []struct {
			name string
			dst  *float64
		}{
			{"revenue", &rec.Revenue},
			{"royalty_costs", &rec.RoyaltyCosts},
			{"operating_costs", &rec.OperatingCosts},
			{"fixed_costs", &rec.FixedCosts},
			{"debt_service", &rec.DebtService},
			{"student_weeks", &rec.StudentWeeks},
			{"weekend_students", &rec.WeekendStudents},
		} {
			v, err := num(f.name)
			if err != nil {
				return nil, err
			}
			*f.dst = v
		}
		out = append(out, rec)
	}
	return out, nil
}
