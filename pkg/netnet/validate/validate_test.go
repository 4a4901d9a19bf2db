package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukaji3/netnet-go/internal/testutil"
	"github.com/ukaji3/netnet-go/pkg/netnet/models"
	"github.com/ukaji3/netnet-go/pkg/netnet/parser"
	"github.com/ukaji3/netnet-go/pkg/netnet/workbook"
)

var (
	q1 = testutil.Period{Code: "Q1 2024", Date: testutil.Day(2024, 3, 31)}
	q2 = testutil.Period{Code: "Q2 2024", Date: testutil.Day(2024, 6, 30)}
	q3 = testutil.Period{Code: "Q3 2024", Date: testutil.Day(2024, 9, 30)}
)

func exportSheet(t *testing.T, s testutil.RawSheet) workbook.SheetReader {
	t.Helper()
	wb := testutil.NewWorkbook(t, map[string]testutil.RawSheet{"Sheet1": s})
	return wb.ActiveSheet()
}

func TestExport(t *testing.T) {
	expected := models.SheetStructure{
		RowLabels:   map[int]string{12: "Revenue", 13: "Cost of Revenue", 14: "Gross Profit"},
		ColumnDates: map[int]string{4: "2024-03-31", 5: "2024-06-30"},
		PeriodCodes: map[int]string{4: "Q1 2024", 5: "Q2 2024"},
	}

	t.Run("compatible", func(t *testing.T) {
		export := exportSheet(t, testutil.RawSheet{
			Labels:  map[int]string{12: "Revenue", 13: "Cost of Revenue", 14: "Gross Profit"},
			Periods: []testutil.Period{q1, q2},
		})
		r := Export(expected, export, models.IncomeStatement, parser.DefaultLayout())
		assert.True(t, r.IsValid)
		assert.Empty(t, r.Errors)
		assert.Empty(t, r.Warnings)
	})

	t.Run("drifted", func(t *testing.T) {
		export := exportSheet(t, testutil.RawSheet{
			Labels:  map[int]string{12: "Revenue", 13: "Cost of Sales", 15: "Operating Income"},
			Periods: []testutil.Period{q2, q3},
		})
		r := Export(expected, export, models.IncomeStatement, parser.DefaultLayout())

		assert.False(t, r.IsValid)
		assert.Equal(t, []models.RowMismatch{{Row: 13, Expected: "Cost of Revenue", Actual: "Cost of Sales"}}, r.RowMismatches)
		assert.Equal(t, []models.MissingRow{{Row: 14, ExpectedLabel: "Gross Profit"}}, r.MissingRows)
		assert.Equal(t, []models.NewRow{{Row: 15, Label: "Operating Income"}}, r.NewRows)
		assert.Equal(t, []models.Period{{Col: 5, Date: "2024-09-30", PeriodCode: "Q3 2024"}}, r.NewPeriods)
		assert.Equal(t, []models.Period{{Col: 4, Date: "2024-03-31", PeriodCode: "Q1 2024"}}, r.RemovedPeriods)
		assert.Equal(t, []string{
			"Row 13 mismatch: expected 'Cost of Revenue', got 'Cost of Sales'",
			"Row 14 missing in export (expected: 'Gross Profit')",
		}, r.Errors)
		assert.Contains(t, r.Warnings, "Found 1 new period(s) in export")
		assert.Contains(t, r.Warnings, "Export missing 1 period(s) from existing workbook")
	})

	t.Run("labels compared exactly", func(t *testing.T) {
		export := exportSheet(t, testutil.RawSheet{
			Labels:  map[int]string{12: "revenue", 13: "Cost of Revenue", 14: "Gross Profit"},
			Periods: []testutil.Period{q1, q2},
		})
		r := Export(expected, export, models.IncomeStatement, parser.DefaultLayout())
		assert.False(t, r.IsValid)
		assert.Len(t, r.RowMismatches, 1)
	})
}

func TestDiff(t *testing.T) {
	existing := testutil.RawSheet{
		Labels:  map[int]string{12: "Revenue", 13: "Cost of Revenue", 14: "Gross Profit"},
		Periods: []testutil.Period{q1, q2},
		Values: map[int][]any{
			12: {1000.0, 1100.0},
			13: {600.0, 650.0},
			14: {testutil.Formula("=D12-D13"), testutil.Formula("=E12-E13")},
		},
	}
	wb := testutil.NewWorkbook(t, map[string]testutil.RawSheet{"acme_IS": existing, "acme_bs": {}})

	export := exportSheet(t, testutil.RawSheet{
		Labels:  existing.Labels,
		Periods: []testutil.Period{q2, q3},
		Values: map[int][]any{
			12: {1100.0, 1200.0},
			13: {"660", 700.0},
			14: {450.0, 500.0},
		},
	})

	report, err := Diff(wb, export, nil, parser.DefaultLayout())
	require.NoError(t, err)

	require.Len(t, report.IncomeChanges, 1)
	c := report.IncomeChanges[0]
	assert.Equal(t, models.Change{
		SheetType: models.IncomeStatement, Kind: models.ChangeValue,
		Row: 13, Col: 5, ColLetter: "E", Date: "2024-06-30", Label: "Cost of Revenue",
		OldValue: 650.0, NewValue: "660",
	}, c)
	assert.Equal(t, []models.NewPeriod{{Date: "2024-09-30", PeriodCode: "Q3 2024", ExportCol: 5}}, report.NewIncomePeriods)
	assert.Empty(t, report.BalanceChanges)
	assert.Equal(t, models.DiffSummary{IncomeChanges: 1, NewIncomePeriods: 1}, report.Summary)
}

func TestDiffAgainstItselfIsEmpty(t *testing.T) {
	s := testutil.RawSheet{
		Labels:  map[int]string{12: "Cash", 13: "Receivables"},
		Periods: []testutil.Period{q1, q2, q3},
		Values:  map[int][]any{12: {1.0, 2.0, "3"}, 13: {nil, 5.5, "NA"}},
	}
	wb := testutil.NewWorkbook(t, map[string]testutil.RawSheet{"x_IS": {}, "x_bs": s})
	self, err := wb.Sheet("x_bs")
	require.NoError(t, err)

	report, err := Diff(wb, nil, self, parser.DefaultLayout())
	require.NoError(t, err)
	assert.Empty(t, report.BalanceChanges)
	assert.Empty(t, report.NewBalancePeriods)
}
