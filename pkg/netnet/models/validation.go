package models

// RowMismatch is a labeled row whose export label differs.
type RowMismatch struct {
	Row      int    `json:"row"`
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
}

// MissingRow is an expected row absent from the export.
type MissingRow struct {
	Row           int    `json:"row"`
	ExpectedLabel string `json:"expected_label"`
}

// NewRow is an export row the structure does not know.
type NewRow struct {
	Row   int    `json:"row"`
	Label string `json:"label"`
}

// Period is one period column: its date and code.
type Period struct {
	Col        int    `json:"col"`
	Date       string `json:"date"`
	PeriodCode string `json:"period_code"`
}

// ValidationResult is the outcome of checking an export against a structure.
// IsValid is true exactly when Errors is empty; use AddError to keep it so.
type ValidationResult struct {
	SheetType      SheetType     `json:"sheet_type"`
	IsValid        bool          `json:"is_valid"`
	RowMismatches  []RowMismatch `json:"row_mismatches"`
	MissingRows    []MissingRow  `json:"missing_rows"`
	NewRows        []NewRow      `json:"new_rows"`
	NewPeriods     []Period      `json:"new_periods"`
	RemovedPeriods []Period      `json:"removed_periods"`
	Warnings       []string      `json:"warnings"`
	Errors         []string      `json:"errors"`
}

// NewValidationResult returns a valid, empty result.
func NewValidationResult(t SheetType) *ValidationResult {
	return &ValidationResult{
		SheetType:      t,
		IsValid:        true,
		RowMismatches:  []RowMismatch{},
		MissingRows:    []MissingRow{},
		NewRows:        []NewRow{},
		NewPeriods:     []Period{},
		RemovedPeriods: []Period{},
		Warnings:       []string{},
		Errors:         []string{},
	}
}

// AddError records an error and marks the result invalid.
func (r *ValidationResult) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
	r.IsValid = false
}

// AddWarning records a warning.
func (r *ValidationResult) AddWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// ValidationReport bundles the results of one validate run.
type ValidationReport struct {
	ValidationDate string              `json:"validation_date"`
	Results        []*ValidationResult `json:"results"`
}

// Valid reports whether every result is valid.
func (r *ValidationReport) Valid() bool {
	for _, res := range r.Results {
		if !res.IsValid {
			return false
		}
	}
	return true
}
