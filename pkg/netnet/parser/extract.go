package parser

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ukaji3/netnet-go/pkg/netnet/models"
	"github.com/ukaji3/netnet-go/pkg/netnet/workbook"
)

// ExtractRowLabels returns the non-empty text labels of rows startRow..maxRow
// in labelCol, trimmed.
func ExtractRowLabels(sheet workbook.SheetReader, startRow, maxRow, labelCol int) map[int]string {
	labels := make(map[int]string)
	for row := startRow; row <= maxRow; row++ {
		c := sheet.Cell(row, labelCol)
		if c.Kind != workbook.KindText {
			continue
		}
		if label := strings.TrimSpace(c.Text); label != "" {
			labels[row] = label
		}
	}
	return labels
}

// ExtractColumnDates returns the period dates of dateRow for columns
// startCol..maxCol. Dates and date-like strings become YYYY-MM-DD; other text is
// kept trimmed; numbers and formulas are ignored.
func ExtractColumnDates(sheet workbook.SheetReader, dateRow, startCol, maxCol int) map[int]string {
	dates := make(map[int]string)
	for col := startCol; col <= maxCol; col++ {
		c := sheet.Cell(dateRow, col)
		switch c.Kind {
		case workbook.KindDate:
			dates[col] = c.Time.Format(time.DateOnly)
		case workbook.KindText:
			if s := strings.TrimSpace(c.Text); s != "" {
				dates[col] = NormalizeDate(s)
			}
		}
	}
	return dates
}

// ExtractPeriodCodes returns the non-empty text period codes of codeRow.
func ExtractPeriodCodes(sheet workbook.SheetReader, codeRow, startCol, maxCol int) map[int]string {
	codes := make(map[int]string)
	for col := startCol; col <= maxCol; col++ {
		c := sheet.Cell(codeRow, col)
		if c.Kind != workbook.KindText {
			continue
		}
		if code := strings.TrimSpace(c.Text); code != "" {
			codes[col] = code
		}
	}
	return codes
}

var dateLayouts = []string{
	time.DateOnly,
	time.DateTime,
	"2006/01/02",
	"01/02/2006",
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// NormalizeDate rewrites a date-like string as YYYY-MM-DD and returns any
// other string unchanged.
func NormalizeDate(s string) string {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(time.DateOnly)
		}
	}
	return s
}

// MapSheet extracts the structure of one raw data sheet.
func MapSheet(sheet workbook.SheetReader, layout Layout) models.SheetStructure {
	return models.SheetStructure{
		RowLabels:   ExtractRowLabels(sheet, layout.FirstDataRow, layout.LastDataRow, layout.LabelCol),
		ColumnDates: ExtractColumnDates(sheet, layout.DateRow, layout.FirstPeriodCol, layout.LastPeriodCol),
		PeriodCodes: ExtractPeriodCodes(sheet, layout.CodeRow, layout.FirstPeriodCol, layout.LastPeriodCol),
	}
}

// MapWorkbook extracts the structure of both raw data sheets of wb. A missing
// sheet leaves its name and structure empty.
func MapWorkbook(wb *workbook.Workbook, layout Layout) (*models.WorkbookStructure, error) {
	s := models.NewWorkbookStructure()
	s.IncomeSheet, s.BalanceSheet = LocateDataSheets(wb.SheetNames())

	if s.IncomeSheet != "" {
		sheet, err := wb.Sheet(s.IncomeSheet)
		if err != nil {
			return nil, fmt.Errorf("map income sheet: %w", err)
		}
		s.Income = MapSheet(sheet, layout)
		col, row := layout.CompanyCoordinates()
		s.CompanyName = sheet.Cell(row, col).String()
	}
	if s.BalanceSheet != "" {
		sheet, err := wb.Sheet(s.BalanceSheet)
		if err != nil {
			return nil, fmt.Errorf("map balance sheet: %w", err)
		}
		s.Balance = MapSheet(sheet, layout)
	}

	s.Metadata = models.Metadata{
		ExtractionDate: time.Now().Format("2006-01-02T15:04:05"),
		SourceFile:     wb.Path(),
	}
	return s, nil
}

// SortedColumns returns the keys of a column map in ascending order.
func SortedColumns(m map[int]string) []int {
	cols := make([]int, 0, len(m))
	for col := range m {
		cols = append(cols, col)
	}
	sort.Ints(cols)
	return cols
}
