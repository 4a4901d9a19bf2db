package parser

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/ukaji3/netnet-go/pkg/netnet/workbook"
)

// LastDataColumn returns the last non-empty column of row, scanning from
// startCol up to limit. A single empty column is tolerated; two consecutive
// empty columns end the scan. It returns startCol-1 when the row is empty.
func LastDataColumn(sheet workbook.SheetReader, row, startCol, limit int) int {
	last := startCol - 1
	for col := startCol; col <= limit; col++ {
		if !sheet.Cell(row, col).IsEmpty() {
			last = col
			continue
		}
		if col+1 > limit || sheet.Cell(row, col+1).IsEmpty() {
			break
		}
	}
	return last
}

// CountPeriods counts the non-empty cells of row between startCol and the
// last data column.
func CountPeriods(sheet workbook.SheetReader, row, startCol, limit int) int {
	n := 0
	for col := startCol; col <= LastDataColumn(sheet, row, startCol, limit); col++ {
		if !sheet.Cell(row, col).IsEmpty() {
			n++
		}
	}
	return n
}

// PeriodDates returns the period dates of a raw data sheet in column order.
func PeriodDates(sheet workbook.SheetReader, layout Layout) []string {
	dates := ExtractColumnDates(sheet, layout.DateRow, layout.FirstPeriodCol, layout.ScanLimitCol)
	out := make([]string, 0, len(dates))
	for _, col := range SortedColumns(dates) {
		out = append(out, dates[col])
	}
	return out
}

// NormalizeLabel folds case and compatibility forms and collapses whitespace,
// so "Total  Revenue " and "total revenue" compare equal.
func NormalizeLabel(label string) string {
	s := norm.NFKC.String(label)
	s = cases.Fold().String(s)
	return strings.Join(strings.Fields(s), " ")
}

// LabelIndex maps normalized labels of the data rows to their row. The first
// occurrence of a label wins.
func LabelIndex(sheet workbook.SheetReader, layout Layout) map[string]int {
	labels := ExtractRowLabels(sheet, layout.FirstDataRow, layout.LastDataRow, layout.LabelCol)
	index := make(map[string]int, len(labels))
	for row := layout.FirstDataRow; row <= layout.LastDataRow; row++ {
		label, ok := labels[row]
		if !ok {
			continue
		}
		key := NormalizeLabel(label)
		if _, seen := index[key]; !seen {
			index[key] = row
		}
	}
	return index
}
