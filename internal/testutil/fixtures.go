// Package testutil builds xlsx fixtures shaped like the raw data exports.
package testutil

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ukaji3/netnet-go/pkg/netnet/workbook"
)

// Positions of the default export layout.
const (
	CompanyRow     = 2
	CompanyCol     = 3
	CodeRow        = 8
	DateRow        = 10
	LabelCol       = 3
	FirstPeriodCol = 4
)

// Period is one period column of a fixture.
type Period struct {
	Code string
	Date time.Time
}

// RawSheet describes a raw data sheet. Periods occupy consecutive columns from
// FirstPeriodCol; Values[row][i] is the value of row in period i, nil for none.
type RawSheet struct {
	Company string
	Labels  map[int]string
	Periods []Period
	Values  map[int][]any
}

// Day returns midnight UTC of the given date.
func Day(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// WriteRawSheet writes s into the named sheet of wb, creating it if needed.
func WriteRawSheet(t testing.TB, wb *workbook.Workbook, name string, s RawSheet) *workbook.Sheet {
	t.Helper()
	sheet, err := wb.NewSheet(name)
	require.NoError(t, err)

	if s.Company != "" {
		require.NoError(t, sheet.SetValue(CompanyRow, CompanyCol, s.Company))
	}
	for i, p := range s.Periods {
		col := FirstPeriodCol + i
		if p.Code != "" {
			require.NoError(t, sheet.SetValue(CodeRow, col, p.Code))
		}
		if !p.Date.IsZero() {
			require.NoError(t, sheet.SetValue(DateRow, col, p.Date))
		}
	}
	for row, label := range s.Labels {
		require.NoError(t, sheet.SetValue(row, LabelCol, label))
	}
	for row, values := range s.Values {
		for i, v := range values {
			if v == nil {
				continue
			}
			if f, ok := v.(Formula); ok {
				require.NoError(t, sheet.SetFormula(row, FirstPeriodCol+i, string(f)))
				continue
			}
			require.NoError(t, sheet.SetValue(row, FirstPeriodCol+i, v))
		}
	}
	return sheet
}

// Formula marks a fixture value to be written as a formula.
type Formula string

// WriteExport saves s as a single-sheet export under dir and returns its path.
func WriteExport(t testing.TB, dir, file string, s RawSheet) string {
	t.Helper()
	wb := workbook.New()
	defer wb.Close()
	WriteRawSheet(t, wb, "Sheet1", s)
	return Save(t, wb, dir, file)
}

// Save writes wb under dir and returns the path.
func Save(t testing.TB, wb *workbook.Workbook, dir, file string) string {
	t.Helper()
	path := filepath.Join(dir, file)
	require.NoError(t, wb.SaveAs(path))
	return path
}

// Reopen opens path and closes it when the test ends.
func Reopen(t testing.TB, path string) *workbook.Workbook {
	t.Helper()
	wb, err := workbook.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = wb.Close() })
	return wb
}

// NewWorkbook returns a workbook with the given raw sheets and closes it when
// the test ends. The default "Sheet1" is removed unless it is one of them.
func NewWorkbook(t testing.TB, sheets map[string]RawSheet) *workbook.Workbook {
	t.Helper()
	wb := workbook.New()
	t.Cleanup(func() { _ = wb.Close() })
	for name, s := range sheets {
		WriteRawSheet(t, wb, name, s)
	}
	if _, ok := sheets["Sheet1"]; !ok && len(sheets) > 0 {
		require.NoError(t, wb.File().DeleteSheet("Sheet1"))
	}
	return wb
}
