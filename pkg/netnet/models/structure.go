// Package models defines the data structures shared by the net-net tooling:
// workbook structure baselines, validation results, diff reports and update
// results. JSON names match the baseline files written by earlier versions.
package models

// SheetType identifies one of the two raw data sheets.
type SheetType string

const (
	// IncomeStatement is the raw income statement sheet ("_IS" suffix).
	IncomeStatement SheetType = "is"
	// BalanceSheet is the raw balance sheet ("_bs" suffix).
	BalanceSheet SheetType = "bs"
)

// Valid reports whether t is a known sheet type.
func (t SheetType) Valid() bool {
	return t == IncomeStatement || t == BalanceSheet
}

// SheetStructure is the logical schema of one raw data sheet.
type SheetStructure struct {
	// RowLabels maps row number to the label in the label column.
	RowLabels map[int]string `json:"row_labels"`
	// ColumnDates maps column number to the period end date (YYYY-MM-DD).
	ColumnDates map[int]string `json:"column_dates"`
	// PeriodCodes maps column number to the period code, e.g. "Q1 2024".
	PeriodCodes map[int]string `json:"period_codes"`
}

// NewSheetStructure returns a structure with allocated maps.
func NewSheetStructure() SheetStructure {
	return SheetStructure{
		RowLabels:   make(map[int]string),
		ColumnDates: make(map[int]string),
		PeriodCodes: make(map[int]string),
	}
}

// Metadata records where and when a structure was extracted.
type Metadata struct {
	ExtractionDate string `json:"extraction_date"`
	SourceFile     string `json:"source_file"`
}

// WorkbookStructure is the baseline schema of an analysis workbook.
type WorkbookStructure struct {
	// CompanyName is read from the company cell of the income sheet.
	CompanyName string `json:"company_name"`
	// IncomeSheet is the name of the "_IS" sheet, empty when absent.
	IncomeSheet string `json:"is_sheet_name"`
	// BalanceSheet is the name of the "_bs" sheet, empty when absent.
	BalanceSheet string         `json:"bs_sheet_name"`
	Income       SheetStructure `json:"income_statement"`
	Balance      SheetStructure `json:"balance_sheet"`
	Metadata     Metadata       `json:"metadata"`
}

// NewWorkbookStructure returns a structure with allocated maps.
func NewWorkbookStructure() *WorkbookStructure {
	return &WorkbookStructure{
		Income:  NewSheetStructure(),
		Balance: NewSheetStructure(),
	}
}

// Sheet returns the per-sheet structure for t.
func (w *WorkbookStructure) Sheet(t SheetType) SheetStructure {
	if t == BalanceSheet {
		return w.Balance
	}
	return w.Income
}

// SheetName returns the sheet name recorded for t.
func (w *WorkbookStructure) SheetName(t SheetType) string {
	if t == BalanceSheet {
		return w.BalanceSheet
	}
	return w.IncomeSheet
}
