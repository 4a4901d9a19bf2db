package models

// UpdateResult reports one run of the sync engine.
type UpdateResult struct {
	// RunID correlates the backup, log lines and report of one run.
	RunID      string `json:"run_id"`
	Success    bool   `json:"success"`
	DryRun     bool   `json:"dry_run"`
	BackupPath string `json:"backup_path,omitempty"`

	CellsUpdated         int `json:"cells_updated"`
	IncomeCellsUpdated   int `json:"is_cells_updated"`
	BalanceCellsUpdated  int `json:"bs_cells_updated"`
	NewColumnsAdded      int `json:"new_columns_added"`
	FormulasExtended     int `json:"formulas_extended"`
	HeadersSynced        int `json:"headers_synced"`
	RatioFormulasUpdated int `json:"ratio_formulas_updated"`
	SheetsRenamed        int `json:"sheets_renamed"`
	FormulaRefsUpdated   int `json:"formula_refs_updated"`

	Errors     []string `json:"errors"`
	Warnings   []string `json:"warnings"`
	ChangesLog []Change `json:"changes_log"`
}

// NewUpdateResult returns an empty result for the given run.
func NewUpdateResult(runID string) *UpdateResult {
	return &UpdateResult{
		RunID:      runID,
		Errors:     []string{},
		Warnings:   []string{},
		ChangesLog: []Change{},
	}
}

// CountCell records one written data cell against its sheet.
func (r *UpdateResult) CountCell(t SheetType) {
	r.CellsUpdated++
	if t == BalanceSheet {
		r.BalanceCellsUpdated++
	} else {
		r.IncomeCellsUpdated++
	}
}

// Modified reports whether the run changed anything worth saving.
func (r *UpdateResult) Modified() bool {
	return r.CellsUpdated > 0 || r.NewColumnsAdded > 0 || r.FormulasExtended > 0 ||
		r.HeadersSynced > 0 || r.RatioFormulasUpdated > 0 || r.SheetsRenamed > 0 ||
		r.FormulaRefsUpdated > 0
}

// Warn records a warning.
func (r *UpdateResult) Warn(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// Fail records an error.
func (r *UpdateResult) Fail(msg string) {
	r.Errors = append(r.Errors, msg)
}
