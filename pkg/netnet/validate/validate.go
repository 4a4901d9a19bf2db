// Package validate checks exports against a workbook structure baseline and
// computes the cell changes applying an export would make.
package validate

import (
	"fmt"
	"sort"

	"github.com/ukaji3/netnet-go/pkg/netnet/models"
	"github.com/ukaji3/netnet-go/pkg/netnet/parser"
	"github.com/ukaji3/netnet-go/pkg/netnet/workbook"
)

// Export compares the structure of an export sheet with the expected one.
// Labels are compared exactly. Missing and mismatched rows are errors; extra
// rows and added or dropped periods are warnings.
func Export(expected models.SheetStructure, export workbook.SheetReader, sheetType models.SheetType, layout parser.Layout) *models.ValidationResult {
	result := models.NewValidationResult(sheetType)
	got := parser.MapSheet(export, layout)

	for _, row := range sortedRows(expected.RowLabels) {
		want := expected.RowLabels[row]
		actual, ok := got.RowLabels[row]
		switch {
		case !ok:
			result.MissingRows = append(result.MissingRows, models.MissingRow{Row: row, ExpectedLabel: want})
			result.AddError(fmt.Sprintf("Row %d missing in export (expected: '%s')", row, want))
		case actual != want:
			result.RowMismatches = append(result.RowMismatches, models.RowMismatch{Row: row, Expected: want, Actual: actual})
			result.AddError(fmt.Sprintf("Row %d mismatch: expected '%s', got '%s'", row, want, actual))
		}
	}

	for _, row := range sortedRows(got.RowLabels) {
		if _, ok := expected.RowLabels[row]; ok {
			continue
		}
		label := got.RowLabels[row]
		result.NewRows = append(result.NewRows, models.NewRow{Row: row, Label: label})
		result.AddWarning(fmt.Sprintf("New row %d in export: '%s'", row, label))
	}

	exportDates := valueSet(got.ColumnDates)
	expectedDates := valueSet(expected.ColumnDates)
	for _, col := range parser.SortedColumns(got.ColumnDates) {
		if date := got.ColumnDates[col]; !expectedDates[date] {
			result.NewPeriods = append(result.NewPeriods, models.Period{Col: col, Date: date, PeriodCode: got.PeriodCodes[col]})
		}
	}
	for _, col := range parser.SortedColumns(expected.ColumnDates) {
		if date := expected.ColumnDates[col]; !exportDates[date] {
			result.RemovedPeriods = append(result.RemovedPeriods, models.Period{Col: col, Date: date, PeriodCode: expected.PeriodCodes[col]})
		}
	}

	if n := len(result.NewPeriods); n > 0 {
		result.AddWarning(fmt.Sprintf("Found %d new period(s) in export", n))
	}
	if n := len(result.RemovedPeriods); n > 0 {
		result.AddWarning(fmt.Sprintf("Export missing %d period(s) from existing workbook", n))
	}
	return result
}

func sortedRows(m map[int]string) []int {
	rows := make([]int, 0, len(m))
	for row := range m {
		rows = append(rows, row)
	}
	sort.Ints(rows)
	return rows
}

func valueSet(m map[int]string) map[string]bool {
	set := make(map[string]bool, len(m))
	for _, v := range m {
		set[v] = true
	}
	return set
}
