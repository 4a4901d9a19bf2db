// Package parser extracts the logical structure of net-net workbooks: row
// labels, period dates and codes of the raw data sheets, and the scanners the
// updater uses to locate data columns.
package parser

import "github.com/xuri/excelize/v2"

// Layout fixes where things live on a raw data sheet. Rows and columns are 1-based.
type Layout struct {
	// CompanyCell holds the company name on the income sheet.
	CompanyCell string
	// CodeRow holds period codes such as "Q1 2024".
	CodeRow int
	// DateRow holds period end dates.
	DateRow int
	// FirstDataRow and LastDataRow bound the labeled data rows.
	FirstDataRow int
	LastDataRow  int
	// LabelCol holds the row labels.
	LabelCol int
	// FirstPeriodCol is the first period column; LastPeriodCol bounds extraction.
	FirstPeriodCol int
	LastPeriodCol  int
	// ScanLimitCol bounds the scans for the last used column.
	ScanLimitCol int
}

// DefaultLayout returns the layout of the investing.com exports:
// codes in row 8, dates in row 10, labeled data in C12:C60, periods from column D.
func DefaultLayout() Layout {
	return Layout{
		CompanyCell:    "C2",
		CodeRow:        8,
		DateRow:        10,
		FirstDataRow:   12,
		LastDataRow:    60,
		LabelCol:       3,
		FirstPeriodCol: 4,
		LastPeriodCol:  50,
		ScanLimitCol:   99,
	}
}

// CompanyCoordinates returns the (col, row) of CompanyCell, falling back to C2.
func (l Layout) CompanyCoordinates() (col, row int) {
	col, row, err := excelize.CellNameToCoordinates(l.CompanyCell)
	if err != nil {
		return 3, 2
	}
	return col, row
}
