package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukaji3/netnet-go/internal/testutil"
	"github.com/ukaji3/netnet-go/pkg/netnet/workbook"
)

func acmeIncome() testutil.RawSheet {
	return testutil.RawSheet{
		Company: "Acme Co., Ltd.",
		Labels:  map[int]string{12: "Revenue", 13: " Cost of Revenue ", 20: "Net Income"},
		Periods: []testutil.Period{
			{Code: "Q1 2024", Date: testutil.Day(2024, 3, 31)},
			{Code: "Q2 2024", Date: testutil.Day(2024, 6, 30)},
		},
		Values: map[int][]any{
			12: {1000.0, 1100.0},
			13: {600.0, 650.0},
		},
	}
}

func TestMapWorkbook(t *testing.T) {
	wb := testutil.NewWorkbook(t, map[string]testutil.RawSheet{
		"acme_IS": acmeIncome(),
		"acme_bs": {
			Labels:  map[int]string{12: "Cash", 30: "Total Liabilities"},
			Periods: []testutil.Period{{Code: "Q1 2024", Date: testutil.Day(2024, 3, 31)}},
		},
	})

	s, err := MapWorkbook(wb, DefaultLayout())
	require.NoError(t, err)

	assert.Equal(t, "Acme Co., Ltd.", s.CompanyName)
	assert.Equal(t, "acme_IS", s.IncomeSheet)
	assert.Equal(t, "acme_bs", s.BalanceSheet)
	assert.Equal(t, map[int]string{12: "Revenue", 13: "Cost of Revenue", 20: "Net Income"}, s.Income.RowLabels)
	assert.Equal(t, map[int]string{4: "2024-03-31", 5: "2024-06-30"}, s.Income.ColumnDates)
	assert.Equal(t, map[int]string{4: "Q1 2024", 5: "Q2 2024"}, s.Income.PeriodCodes)
	assert.Equal(t, map[int]string{12: "Cash", 30: "Total Liabilities"}, s.Balance.RowLabels)
	assert.NotEmpty(t, s.Metadata.ExtractionDate)
}

func TestExtractIgnoresNonText(t *testing.T) {
	wb := workbook.New()
	defer wb.Close()
	s, err := wb.Sheet("Sheet1")
	require.NoError(t, err)

	require.NoError(t, s.SetValue(12, 3, 42))
	require.NoError(t, s.SetValue(13, 3, "   "))
	require.NoError(t, s.SetValue(14, 3, "Label"))
	require.NoError(t, s.SetValue(10, 4, "2024/06/30"))
	require.NoError(t, s.SetValue(10, 5, 45000))
	require.NoError(t, s.SetValue(10, 6, " FY2024 "))
	require.NoError(t, s.SetValue(8, 4, 2024))

	assert.Equal(t, map[int]string{14: "Label"}, ExtractRowLabels(s, 12, 60, 3))
	assert.Equal(t, map[int]string{4: "2024-06-30", 6: "FY2024"}, ExtractColumnDates(s, 10, 4, 50))
	assert.Empty(t, ExtractPeriodCodes(s, 8, 4, 50))
}

func TestFindDataSheets(t *testing.T) {
	tests := []struct {
		name          string
		sheets        []string
		wantIS, wantBS string
	}{
		{"convention", []string{"Overview", "acme_IS", "acme_bs"}, "acme_IS", "acme_bs"},
		{"last match wins", []string{"old_IS", "new_IS", "x_bs"}, "new_IS", "x_bs"},
		{"case sensitive", []string{"acme_is", "acme_BS"}, "", ""},
		{"none", []string{"Sheet1"}, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			is, bs := FindDataSheets(tt.sheets)
			assert.Equal(t, tt.wantIS, is)
			assert.Equal(t, tt.wantBS, bs)
		})
	}

	is, bs := LocateDataSheets([]string{"acme_is", "acme_BS"})
	assert.Equal(t, "acme_is", is)
	assert.Equal(t, "acme_BS", bs)

	_, _, err := RequireDataSheets([]string{"acme_IS"})
	assert.ErrorIs(t, err, ErrDataSheetsNotFound)
	assert.Contains(t, err.Error(), "*_bs")
}

func TestSheetPrefix(t *testing.T) {
	tests := map[string]string{
		"Toso Co Ltd":         "toso",
		"Trilogiq SA":         "trilogiq",
		"Nansin Co., Ltd.":    "nansin",
		"Car Mate Mfg Co Ltd": "carmate",
		"Acme Agriculture":    "acmeagriculture",
		"Big-Box Corp.":       "big-box",
	}
	for in, want := range tests {
		assert.Equal(t, want, SheetPrefix(in), in)
	}
	assert.Equal(t, "acme", SheetNamePrefix("acme_IS"))
	is, bs := DataSheetNames("acme2")
	assert.Equal(t, "acme2_IS", is)
	assert.Equal(t, "acme2_bs", bs)
}

func TestLastDataColumn(t *testing.T) {
	wb := workbook.New()
	defer wb.Close()
	s, err := wb.Sheet("Sheet1")
	require.NoError(t, err)

	assert.Equal(t, 3, LastDataColumn(s, 10, 4, 99))

	for _, col := range []int{4, 5, 7} {
		require.NoError(t, s.SetValue(10, col, "2024-03-31"))
	}
	// one gap tolerated
	assert.Equal(t, 7, LastDataColumn(s, 10, 4, 99))
	assert.Equal(t, 3, CountPeriods(s, 10, 4, 99))

	require.NoError(t, s.SetValue(10, 10, "2025-03-31"))
	// two empty columns end the scan
	assert.Equal(t, 7, LastDataColumn(s, 10, 4, 99))
}

func TestLabelIndex(t *testing.T) {
	wb := testutil.NewWorkbook(t, map[string]testutil.RawSheet{
		"x_IS": {Labels: map[int]string{12: "Total  Revenue", 13: "total revenue", 14: "Ｎｅｔ Income"}},
	})
	s, err := wb.Sheet("x_IS")
	require.NoError(t, err)

	idx := LabelIndex(s, DefaultLayout())
	assert.Equal(t, 12, idx["total revenue"])
	assert.Equal(t, 14, idx["net income"])
	assert.Len(t, idx, 2)
	assert.Equal(t, []string{}, PeriodDates(s, DefaultLayout()))
}
