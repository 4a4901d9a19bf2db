package netnet

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukaji3/netnet-go/internal/testutil"
	"github.com/ukaji3/netnet-go/pkg/netnet/models"
	"github.com/ukaji3/netnet-go/pkg/netnet/parser"
	"github.com/ukaji3/netnet-go/pkg/netnet/updater"
)

var (
	q1 = testutil.Period{Code: "Q1 2024", Date: testutil.Day(2024, 3, 31)}
	q2 = testutil.Period{Code: "Q2 2024", Date: testutil.Day(2024, 6, 30)}
	q3 = testutil.Period{Code: "Q3 2024", Date: testutil.Day(2024, 9, 30)}
)

func income(periods ...testutil.Period) testutil.RawSheet {
	n := len(periods)
	revenue := []any{1000.0, 1100.0, 1200.0}
	cost := []any{600.0, 650.0, 700.0}
	gross := []any{testutil.Formula("D12-D13"), testutil.Formula("E12-E13"), testutil.Formula("F12-F13")}
	return testutil.RawSheet{
		Company: "Acme Co., Ltd.",
		Labels:  map[int]string{12: "Revenue", 13: "Cost of Revenue", 14: "Gross Profit"},
		Periods: periods,
		Values:  map[int][]any{12: revenue[:n], 13: cost[:n], 14: gross[:n]},
	}
}

func saveWorkbook(t *testing.T, dir string) string {
	t.Helper()
	wb := testutil.NewWorkbook(t, map[string]testutil.RawSheet{
		"acme_IS": income(q1, q2),
		"acme_bs": {Labels: map[int]string{12: "Cash"}, Periods: []testutil.Period{q1, q2}},
	})
	return testutil.Save(t, wb, dir, "acme.xlsx")
}

func TestStructureRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := saveWorkbook(t, dir)

	s, err := MapStructure(path, parser.DefaultLayout())
	require.NoError(t, err)
	assert.Equal(t, "Acme Co., Ltd.", s.CompanyName)
	assert.Equal(t, "acme_IS", s.IncomeSheet)
	assert.Equal(t, map[int]string{4: "2024-03-31", 5: "2024-06-30"}, s.Income.ColumnDates)

	baseline := filepath.Join(dir, "acme_structure.json")
	require.NoError(t, SaveStructure(baseline, s))
	loaded, err := LoadStructure(baseline)
	require.NoError(t, err)
	assert.Equal(t, s.Income, loaded.Income)
	assert.Equal(t, s.Balance.RowLabels, loaded.Balance.RowLabels)
	assert.NotNil(t, loaded.Balance.PeriodCodes)
}

func TestMapStructureMissingFile(t *testing.T) {
	_, err := MapStructure(filepath.Join(t.TempDir(), "missing.xlsx"), parser.DefaultLayout())
	require.ErrorIs(t, err, ErrFileNotFound)

	var opErr *OperationError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "map", opErr.Op)
}

func TestValidateAndDiff(t *testing.T) {
	dir := t.TempDir()
	path := saveWorkbook(t, dir)
	s, err := MapStructure(path, parser.DefaultLayout())
	require.NoError(t, err)

	exportPath := testutil.WriteExport(t, dir, "is.xlsx", income(q1, q2, q3))
	report, err := Validate(s, exportPath, "", parser.DefaultLayout())
	require.NoError(t, err)
	require.Len(t, report.Results, 1)
	assert.True(t, report.Valid())
	assert.Equal(t, models.IncomeStatement, report.Results[0].SheetType)
	assert.Equal(t, []models.Period{{Col: 6, Date: "2024-09-30", PeriodCode: "Q3 2024"}}, report.Results[0].NewPeriods)

	diff, err := Diff(path, exportPath, "", parser.DefaultLayout())
	require.NoError(t, err)
	assert.Empty(t, diff.IncomeChanges)
	assert.Equal(t, 1, diff.Summary.NewIncomePeriods)
	assert.Zero(t, diff.Summary.NewBalancePeriods)
}

func TestUpdateWrapsErrors(t *testing.T) {
	dir := t.TempDir()
	path := saveWorkbook(t, dir)
	drifted := income(q1, q2)
	drifted.Labels = map[int]string{12: "Revenue", 13: "Cost of Sales", 14: "Gross Profit"}
	exportPath := testutil.WriteExport(t, dir, "is.xlsx", drifted)

	result, err := Update(context.Background(), updater.Options{Workbook: path, IncomeExport: exportPath}, parser.DefaultLayout(), nil)
	require.ErrorIs(t, err, ErrValidationFailed)
	require.NotNil(t, result)
	assert.False(t, result.Success)

	var opErr *OperationError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, path, opErr.Path)

	_, err = Update(context.Background(), updater.Options{Workbook: path}, parser.DefaultLayout(), nil)
	require.ErrorIs(t, err, ErrInvalidOptions)
}

func TestSeriesAndEvaluate(t *testing.T) {
	dir := t.TempDir()
	path := saveWorkbook(t, dir)

	series, err := Series(path, "acme_IS", 14, 4)
	require.NoError(t, err)
	require.Len(t, series, 2)
	assert.Equal(t, 400.0, series[0].Value)
	assert.Equal(t, 450.0, series[1].Value)

	v, ok, err := Evaluate(path, "", "acme_IS!E14")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 450.0, v)

	_, ok, err = Evaluate(path, "acme_IS", "Z99")
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = Evaluate(path, "acme_IS", "not a cell")
	require.Error(t, err)
}
