package models

// ChangeKind classifies an entry of a change log.
type ChangeKind string

const (
	// ChangeValue is an overwritten cell of an existing period.
	ChangeValue ChangeKind = "value"
	// ChangeNewPeriod is a cell written into a newly added period column.
	ChangeNewPeriod ChangeKind = "new_period"
	// ChangeReplace is a cell written by a full replacement.
	ChangeReplace ChangeKind = "replace"
)

// Change is one cell difference between a workbook and an export.
type Change struct {
	SheetType SheetType  `json:"sheet_type,omitempty"`
	Kind      ChangeKind `json:"kind,omitempty"`
	Row       int        `json:"row"`
	Col       int        `json:"col"`
	ColLetter string     `json:"col_letter"`
	Date      string     `json:"date"`
	Label     string     `json:"label"`
	OldValue  any        `json:"old_value"`
	NewValue  any        `json:"new_value"`
}

// NewPeriod is a period present in an export but not in the workbook.
type NewPeriod struct {
	Date       string `json:"date"`
	PeriodCode string `json:"period_code"`
	ExportCol  int    `json:"export_col"`
}

// DiffSummary counts the entries of a DiffReport.
type DiffSummary struct {
	IncomeChanges     int `json:"income_statement_changes"`
	BalanceChanges    int `json:"balance_sheet_changes"`
	NewIncomePeriods  int `json:"new_is_periods"`
	NewBalancePeriods int `json:"new_bs_periods"`
}

// DiffReport lists what applying exports to a workbook would change.
type DiffReport struct {
	IncomeChanges     []Change    `json:"income_statement_changes"`
	BalanceChanges    []Change    `json:"balance_sheet_changes"`
	NewIncomePeriods  []NewPeriod `json:"new_is_periods"`
	NewBalancePeriods []NewPeriod `json:"new_bs_periods"`
	Summary           DiffSummary `json:"summary"`
}

// NewDiffReport returns an empty report.
func NewDiffReport() *DiffReport {
	return &DiffReport{
		IncomeChanges:     []Change{},
		BalanceChanges:    []Change{},
		NewIncomePeriods:  []NewPeriod{},
		NewBalancePeriods: []NewPeriod{},
	}
}

// Summarize recomputes Summary from the lists.
func (d *DiffReport) Summarize() {
	d.Summary = DiffSummary{
		IncomeChanges:     len(d.IncomeChanges),
		BalanceChanges:    len(d.BalanceChanges),
		NewIncomePeriods:  len(d.NewIncomePeriods),
		NewBalancePeriods: len(d.NewBalancePeriods),
	}
}

// Changes returns the change list for t.
func (d *DiffReport) Changes(t SheetType) []Change {
	if t == BalanceSheet {
		return d.BalanceChanges
	}
	return d.IncomeChanges
}

// NewPeriods returns the new-period list for t.
func (d *DiffReport) NewPeriods(t SheetType) []NewPeriod {
	if t == BalanceSheet {
		return d.NewBalancePeriods
	}
	return d.NewIncomePeriods
}
