package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/ukaji3/netnet-go/pkg/netnet/models"
)

const (
	// maxUpdateChanges and maxDiffChanges cap the change lines of verbose summaries.
	maxUpdateChanges = 50
	maxDiffChanges   = 20
)

// SheetTitle returns the display name of a sheet type.
func SheetTitle(t models.SheetType) string {
	if t == models.BalanceSheet {
		return "Balance Sheet"
	}
	return "Income Statement"
}

func rule(w io.Writer, n int) {
	fmt.Fprintln(w, strings.Repeat("=", n))
}

func list(w io.Writer, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s:\n", title)
	for _, item := range items {
		fmt.Fprintf(w, "  - %s\n", item)
	}
}

func value(v any) string {
	if v == nil {
		return "None"
	}
	return fmt.Sprint(v)
}

// WriteStructureSummary prints the counts of a mapped workbook structure.
func WriteStructureSummary(w io.Writer, s *models.WorkbookStructure) {
	fmt.Fprintln(w, "\nWorkbook Structure Summary")
	rule(w, 50)
	fmt.Fprintf(w, "Company: %s\n", s.CompanyName)
	fmt.Fprintf(w, "IS Sheet: %s\n", s.IncomeSheet)
	fmt.Fprintf(w, "BS Sheet: %s\n", s.BalanceSheet)
	for _, t := range []models.SheetType{models.IncomeStatement, models.BalanceSheet} {
		sheet := s.Sheet(t)
		fmt.Fprintf(w, "\n%s:\n", SheetTitle(t))
		fmt.Fprintf(w, "  Row labels: %d\n", len(sheet.RowLabels))
		fmt.Fprintf(w, "  Date columns: %d\n", len(sheet.ColumnDates))
	}
}

// WriteValidation prints one validation result.
func WriteValidation(w io.Writer, r *models.ValidationResult) {
	fmt.Fprintf(w, "\n%s Validation\n", SheetTitle(r.SheetType))
	rule(w, 50)
	if r.IsValid {
		fmt.Fprintln(w, "Status: VALID")
	} else {
		fmt.Fprintln(w, "Status: INVALID")
	}
	list(w, "Errors", r.Errors)
	list(w, "Warnings", r.Warnings)
	if len(r.NewPeriods) > 0 {
		fmt.Fprintln(w, "\nNew periods available:")
		for _, p := range r.NewPeriods {
			fmt.Fprintf(w, "  - %s (%s)\n", p.Date, p.PeriodCode)
		}
	}
}

// WriteDiff prints a diff report; verbose adds the first value changes of
// each sheet.
func WriteDiff(w io.Writer, d *models.DiffReport, verbose bool) {
	fmt.Fprintln(w, "\nDiff Report Summary")
	rule(w, 50)
	fmt.Fprintf(w, "Income Statement changes: %d\n", d.Summary.IncomeChanges)
	fmt.Fprintf(w, "Balance Sheet changes: %d\n", d.Summary.BalanceChanges)
	fmt.Fprintf(w, "New IS periods: %d\n", d.Summary.NewIncomePeriods)
	fmt.Fprintf(w, "New BS periods: %d\n", d.Summary.NewBalancePeriods)

	for _, t := range []models.SheetType{models.IncomeStatement, models.BalanceSheet} {
		periods := d.NewPeriods(t)
		if len(periods) == 0 {
			continue
		}
		fmt.Fprintf(w, "\nNew %s periods:\n", SheetTitle(t))
		for _, p := range periods {
			fmt.Fprintf(w, "  - %s (%s)\n", p.Date, p.PeriodCode)
		}
	}
	if !verbose {
		return
	}
	for _, t := range []models.SheetType{models.IncomeStatement, models.BalanceSheet} {
		changes := d.Changes(t)
		if len(changes) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n%s value changes (%d):\n", SheetTitle(t), len(changes))
		for _, c := range changes[:min(len(changes), maxDiffChanges)] {
			fmt.Fprintf(w, "  [%s%d] %s: '%s' -> '%s'\n", c.ColLetter, c.Row, c.Label, value(c.OldValue), value(c.NewValue))
		}
		if len(changes) > maxDiffChanges {
			fmt.Fprintf(w, "  ... and %d more\n", len(changes)-maxDiffChanges)
		}
	}
}

// WriteUpdate prints the summary of an update run. showPeriods adds the
// period extension counters; verbose adds the first changes.
func WriteUpdate(w io.Writer, r *models.UpdateResult, showPeriods, verbose bool) {
	fmt.Fprintln(w)
	rule(w, 60)
	switch {
	case !r.Success:
		fmt.Fprintln(w, "UPDATE FAILED")
	case r.DryRun:
		fmt.Fprintln(w, "DRY RUN - No changes were made")
	default:
		fmt.Fprintln(w, "UPDATE COMPLETE")
	}
	rule(w, 60)
	if r.BackupPath != "" {
		fmt.Fprintf(w, "Backup: %s\n", r.BackupPath)
	}

	fmt.Fprintln(w, "\nChanges Summary:")
	fmt.Fprintf(w, "  Income Statement cells updated: %d\n", r.IncomeCellsUpdated)
	fmt.Fprintf(w, "  Balance Sheet cells updated: %d\n", r.BalanceCellsUpdated)
	fmt.Fprintf(w, "  Total cells updated: %d\n", r.CellsUpdated)
	if showPeriods {
		fmt.Fprintf(w, "  New columns added: %d\n", r.NewColumnsAdded)
		fmt.Fprintf(w, "  Formulas extended: %d\n", r.FormulasExtended)
	}
	if r.SheetsRenamed > 0 {
		fmt.Fprintf(w, "  Sheets renamed: %d\n", r.SheetsRenamed)
		fmt.Fprintf(w, "  Formula references updated: %d\n", r.FormulaRefsUpdated)
	}
	if r.RatioFormulasUpdated > 0 {
		fmt.Fprintf(w, "  Ratio formulas updated: %d\n", r.RatioFormulasUpdated)
	}

	list(w, "Errors", r.Errors)
	list(w, "Warnings", r.Warnings)

	if !verbose || len(r.ChangesLog) == 0 {
		return
	}
	fmt.Fprintf(w, "\nDetailed Changes (%d):\n", len(r.ChangesLog))
	for _, c := range r.ChangesLog[:min(len(r.ChangesLog), maxUpdateChanges)] {
		fmt.Fprintf(w, "  [%s] %s%d (%s): '%s' -> '%s'\n",
			strings.ToUpper(string(c.SheetType)), c.ColLetter, c.Row, c.Label, value(c.OldValue), value(c.NewValue))
	}
	if len(r.ChangesLog) > maxUpdateChanges {
		fmt.Fprintf(w, "  ... and %d more changes\n", len(r.ChangesLog)-maxUpdateChanges)
	}
}
