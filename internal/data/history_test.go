package data

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nev-montecarlo/internal/model"
)

func TestDecodeHistoryCSV(t *testing.T) {
	in := `period, revenue, royalty_costs, student_weeks, weekend_students
2021, 1000, 160, 100, 
2022, 1100, 176, 110, 5
`
	recs, err := DecodeHistoryCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, model.HistoricalRecord{Period: "2021", Revenue: 1000, RoyaltyCosts: 160, StudentWeeks: 100}, recs[0])
	assert.Equal(t, 5.0, recs[1].WeekendStudents)
	assert.Zero(t, recs[1].FixedCosts)
}

func TestDecodeHistoryCSV_Errors(t *testing.T) {
	_, err := DecodeHistoryCSV(strings.NewReader("period,revenue\n2021,1000\n"))
	assert.ErrorContains(t, err, "student_weeks")

	_, err = DecodeHistoryCSV(strings.NewReader("period,revenue,student_weeks\n2021,abc,1\n"))
	assert.ErrorContains(t, err, "line 2: revenue")

	_, err = DecodeHistoryCSV(strings.NewReader(""))
	assert.Error(t, err)
}

func TestLoadHistory_ByExtension(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "h.csv")
	jsonPath := filepath.Join(dir, "h.json")
	require.NoError(t, os.WriteFile(csvPath, []byte("period,revenue,student_weeks\n2021,1000,100\n2022,1100,110\n"), 0o644))
	require.NoError(t, os.WriteFile(jsonPath, []byte(`[{"period":"2021","revenue":1000,"student_weeks":100},{"period":"2022","revenue":1100,"student_weeks":110}]`), 0o644))

	a, err := LoadHistory(csvPath)
	require.NoError(t, err)
	b, err := LoadHistory(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	_, err = LoadHistory(filepath.Join(dir, "h.xlsx"))
	assert.Error(t, err)
}
