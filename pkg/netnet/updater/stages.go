package updater

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/ukaji3/netnet-go/pkg/netnet/formula"
	"github.com/ukaji3/netnet-go/pkg/netnet/models"
	"github.com/ukaji3/netnet-go/pkg/netnet/parser"
	"github.com/ukaji3/netnet-go/pkg/netnet/validate"
	"github.com/ukaji3/netnet-go/pkg/netnet/workbook"
)

func tag(t models.SheetType) string {
	return "[" + strings.ToUpper(string(t)) + "] "
}

// validate checks every export against the workbook structure. Replace mode
// is meant for incompatible layouts and skips it.
func (r *run) validate() error {
	if r.opts.Mode == ModeReplace {
		r.log.Info("replace mode, structure validation skipped")
		return nil
	}
	structure, err := parser.MapWorkbook(r.wb, r.layout)
	if err != nil {
		return err
	}

	failed := false
	for _, t := range r.types() {
		v := validate.Export(structure.Sheet(t), r.exports[t], t, r.layout)
		for _, w := range v.Warnings {
			r.result.Warn(tag(t) + w)
		}
		for _, e := range v.Errors {
			if r.opts.Force {
				r.result.Warn(tag(t) + e + " (forced)")
				continue
			}
			r.result.Fail(tag(t) + e)
		}
		if !v.IsValid {
			failed = true
			r.log.Warn("export does not match workbook structure",
				slog.String("sheet", string(t)), slog.Int("errors", len(v.Errors)), slog.Bool("force", r.opts.Force))
		}
	}
	if failed && !r.opts.Force {
		r.result.Fail(ValidationReminder)
		return ErrValidationFailed
	}
	return nil
}

// rename moves the data sheets to the names derived from the company and
// repoints every formula at them. Formulas are rewritten first, while the old
// names are still the ones they carry.
func (r *run) rename() error {
	if r.opts.Company == "" {
		return nil
	}
	prefix := parser.SheetPrefix(r.opts.Company)
	if prefix == "" {
		r.result.Warn(fmt.Sprintf("Company %q gives an empty sheet prefix, sheets not renamed", r.opts.Company))
		return nil
	}

	targets := make(map[models.SheetType]string, 2)
	targets[models.IncomeStatement], targets[models.BalanceSheet] = parser.DataSheetNames(prefix)
	var order []models.SheetType
	for _, t := range []models.SheetType{models.IncomeStatement, models.BalanceSheet} {
		if old := r.names[t]; old != "" && old != targets[t] {
			order = append(order, t)
		}
	}
	if len(order) == 0 {
		return nil
	}

	for _, name := range r.wb.SheetNames() {
		sheet, err := r.wb.Sheet(name)
		if err != nil {
			return err
		}
		var edits []workbook.FormulaCell
		for _, fc := range sheet.FormulaCells() {
			f, changed := fc.Formula, false
			for _, t := range order {
				var ok bool
				if f, ok = formula.RenameSheetRefs(f, r.names[t], targets[t]); ok {
					changed = true
				}
			}
			if changed {
				edits = append(edits, workbook.FormulaCell{Row: fc.Row, Col: fc.Col, Formula: f})
			}
		}
		r.result.FormulaRefsUpdated += len(edits)
		if len(edits) == 0 || r.opts.DryRun {
			continue
		}
		if err := r.editable(sheet); err != nil {
			return err
		}
		for _, fc := range edits {
			if err := sheet.SetFormula(fc.Row, fc.Col, fc.Formula); err != nil {
				return fmt.Errorf("repoint %s!%s%d: %w", name, formula.ColumnLetter(fc.Col), fc.Row, err)
			}
		}
	}

	for _, t := range order {
		old, target := r.names[t], targets[t]
		r.result.SheetsRenamed++
		r.log.Info("renaming sheet", slog.String("from", old), slog.String("to", target))
		if r.opts.DryRun {
			continue
		}
		if err := r.wb.RenameSheet(old, target); err != nil {
			return err
		}
		r.names[t] = target
		delete(r.materialized, old)
	}
	return nil
}

// update merges or replaces the raw data of every sheet with an export.
func (r *run) update() error {
	for _, t := range r.types() {
		sheet, err := r.sheet(t)
		if err != nil {
			return err
		}
		if r.opts.Mode == ModeReplace {
			err = r.replace(t, sheet, r.exports[t])
		} else {
			err = r.merge(t, sheet, r.exports[t])
		}
		if err != nil {
			return fmt.Errorf("%s%w", tag(t), err)
		}
	}
	return nil
}

// merge writes the export values of the periods both sides share. Formula
// cells of the workbook are never overwritten.
func (r *run) merge(t models.SheetType, sheet, export *workbook.Sheet) error {
	changes, periods := validate.SheetChanges(sheet, export, t, r.layout)
	exportCols, _ := validate.DateColumns(export, r.layout)
	for _, ch := range changes {
		if !r.opts.DryRun {
			if err := sheet.SetCell(ch.Row, ch.Col, export.Cell(ch.Row, exportCols[ch.Date])); err != nil {
				return fmt.Errorf("write %s%d: %w", ch.ColLetter, ch.Row, err)
			}
		}
		r.result.CountCell(t)
		r.result.ChangesLog = append(r.result.ChangesLog, ch)
	}
	r.newPeriods[t] = periods
	r.log.Info("merged export",
		slog.String("sheet", sheet.Name()), slog.Int("changes", len(changes)), slog.Int("new_periods", len(periods)))
	return nil
}

type cellWrite struct {
	row, col int
	cell     workbook.Cell
}

// replace clears the raw data and period headers and rewrites them from the
// export. Export rows land on the workbook row with the same normalized label;
// rows without one are dropped.
func (r *run) replace(t models.SheetType, sheet, export *workbook.Sheet) error {
	l := r.layout
	lastCol := parser.LastDataColumn(export, l.DateRow, l.FirstPeriodCol, l.ScanLimitCol)

	var writes []cellWrite
	for col := l.FirstPeriodCol; col <= lastCol; col++ {
		for _, row := range []int{l.CodeRow, l.DateRow} {
			if c := export.Cell(row, col); !c.IsEmpty() {
				writes = append(writes, cellWrite{row, col, c})
			}
		}
	}

	index := parser.LabelIndex(sheet, l)
	labels := parser.ExtractRowLabels(export, l.FirstDataRow, l.LastDataRow, l.LabelCol)
	rows := make([]int, 0, len(labels))
	for row := range labels {
		rows = append(rows, row)
	}
	sort.Ints(rows)

	seen := make(map[string]bool, len(rows))
	dropped := 0
	for _, row := range rows {
		key := parser.NormalizeLabel(labels[row])
		if seen[key] {
			continue
		}
		seen[key] = true
		dst, ok := index[key]
		if !ok {
			dropped++
			r.log.Info("export row has no matching label, dropped",
				slog.String("sheet", sheet.Name()), slog.Int("row", row), slog.String("label", labels[row]))
			continue
		}
		for col := l.FirstPeriodCol; col <= lastCol; col++ {
			c := export.Cell(row, col)
			if c.IsEmpty() {
				continue
			}
			old := sheet.Cell(dst, col)
			if old.IsFormula() {
				continue
			}
			writes = append(writes, cellWrite{dst, col, c})
			r.result.ChangesLog = append(r.result.ChangesLog, models.Change{
				SheetType: t,
				Kind:      models.ChangeReplace,
				Row:       dst,
				Col:       col,
				ColLetter: formula.ColumnLetter(col),
				Date:      export.Cell(l.DateRow, col).String(),
				Label:     labels[row],
				OldValue:  old.Value(),
				NewValue:  c.Value(),
			})
		}
	}

	if !r.opts.DryRun {
		if err := r.clearRawData(sheet); err != nil {
			return err
		}
		for _, w := range writes {
			if err := sheet.SetCell(w.row, w.col, w.cell); err != nil {
				return fmt.Errorf("write %s%d: %w", formula.ColumnLetter(w.col), w.row, err)
			}
		}
	}
	for range writes {
		r.result.CountCell(t)
	}
	if dropped > 0 {
		r.result.Warn(fmt.Sprintf("%s%d export row(s) without a matching label were dropped", tag(t), dropped))
	}
	r.log.Info("replaced raw data", slog.String("sheet", sheet.Name()), slog.Int("cells", len(writes)))
	return nil
}

// clearRawData empties the period headers and every non-formula data cell.
func (r *run) clearRawData(sheet *workbook.Sheet) error {
	l := r.layout
	rows := []int{l.CodeRow, l.DateRow}
	for row := l.FirstDataRow; row <= l.LastDataRow; row++ {
		rows = append(rows, row)
	}
	for _, row := range rows {
		for col := l.FirstPeriodCol; col <= l.ScanLimitCol; col++ {
			c := sheet.Cell(row, col)
			if c.IsEmpty() || c.IsFormula() {
				continue
			}
			if err := sheet.Clear(row, col); err != nil {
				return fmt.Errorf("clear %s%d: %w", formula.ColumnLetter(col), row, err)
			}
		}
	}
	return nil
}

// extend appends a column for every export period the workbook lacks and
// clones the dependent formulas one column further per new date.
func (r *run) extend() error {
	if !r.opts.ExtendPeriods {
		return nil
	}
	l := r.layout
	for _, t := range r.types() {
		periods := r.newPeriods[t]
		if len(periods) == 0 {
			continue
		}
		sheet, err := r.sheet(t)
		if err != nil {
			return err
		}
		export := r.exports[t]
		labels := parser.ExtractRowLabels(sheet, l.FirstDataRow, l.LastDataRow, l.LabelCol)
		rows := make([]int, 0, len(labels))
		for row := range labels {
			rows = append(rows, row)
		}
		sort.Ints(rows)

		last := parser.LastDataColumn(sheet, l.DateRow, l.FirstPeriodCol, l.ScanLimitCol)
		for i, p := range periods {
			col := last + 1 + i
			if col > l.ScanLimitCol {
				r.result.Warn(fmt.Sprintf("%sno room for period %s", tag(t), p.Date))
				break
			}
			if err := r.addPeriod(t, sheet, export, p, col, rows, labels); err != nil {
				return fmt.Errorf("%sadd period %s: %w", tag(t), p.Date, err)
			}
			if r.extended[p.Date] || !r.opts.ShouldSyncDependents() {
				continue
			}
			r.extended[p.Date] = true
			if err := r.extendDependents(p.Date); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *run) addPeriod(t models.SheetType, sheet, export *workbook.Sheet, p models.NewPeriod, col int, rows []int, labels map[int]string) error {
	l := r.layout
	if !r.opts.DryRun {
		if col-1 >= l.FirstPeriodCol {
			if err := sheet.CopyColumnStyle(col-1, col, l.LastDataRow); err != nil {
				return err
			}
		}
		for _, row := range []int{l.CodeRow, l.DateRow} {
			if err := sheet.SetCell(row, col, export.Cell(row, p.ExportCol)); err != nil {
				return err
			}
		}
	}
	for _, row := range rows {
		c := export.Cell(row, p.ExportCol)
		if c.IsEmpty() {
			continue
		}
		if !r.opts.DryRun {
			if err := sheet.SetCell(row, col, c); err != nil {
				return err
			}
		}
		r.result.CountCell(t)
		r.result.ChangesLog = append(r.result.ChangesLog, models.Change{
			SheetType: t,
			Kind:      models.ChangeNewPeriod,
			Row:       row,
			Col:       col,
			ColLetter: formula.ColumnLetter(col),
			Date:      p.Date,
			Label:     labels[row],
			NewValue:  c.Value(),
		})
	}
	r.result.NewColumnsAdded++
	r.log.Info("period column added",
		slog.String("sheet", sheet.Name()), slog.String("date", p.Date), slog.String("column", formula.ColumnLetter(col)))
	return nil
}

// extendDependents gives every dependent sheet one more period column headed
// by date, cloned from its current last column.
func (r *run) extendDependents(date string) error {
	for _, dep := range r.dependents {
		sheet, ok := r.findSheet(dep.Sheet)
		if !ok {
			continue
		}
		last := parser.LastDataColumn(sheet, dep.HeaderRow, dep.StartCol, r.layout.ScanLimitCol)
		if last < dep.StartCol {
			continue
		}
		if !r.opts.DryRun {
			if err := sheet.SetValue(dep.HeaderRow, last+1, date); err != nil {
				return err
			}
		}
		r.result.HeadersSynced++
		n, err := dep.cloneColumn(sheet, last, last+1, r.opts.DryRun)
		r.result.FormulasExtended += n
		if err != nil {
			return err
		}
	}
	return nil
}

// periodDates returns the authoritative period dates, read from the income
// sheet or, lacking one, the balance sheet.
func (r *run) periodDates() []string {
	for _, t := range []models.SheetType{models.IncomeStatement, models.BalanceSheet} {
		if r.names[t] == "" {
			continue
		}
		if sheet, err := r.sheet(t); err == nil {
			if dates := parser.PeriodDates(sheet, r.layout); len(dates) > 0 {
				return dates
			}
		}
	}
	return nil
}

// dataChanged reports whether the run wrote raw data or period columns.
func (r *run) dataChanged() bool {
	return r.result.CellsUpdated > 0 || r.result.NewColumnsAdded > 0
}

// syncDependents rewrites the header row of every dependent sheet to the raw
// data dates and extends its formulas, column by column, to cover them all.
// It only runs after a data change.
func (r *run) syncDependents() error {
	if !r.opts.ShouldSyncDependents() || !r.dataChanged() {
		return nil
	}
	dates := r.periodDates()
	if len(dates) == 0 {
		return nil
	}
	limit := r.layout.ScanLimitCol
	for _, dep := range r.dependents {
		sheet, ok := r.findSheet(dep.Sheet)
		if !ok {
			r.log.Debug("dependent sheet missing", slog.String("sheet", dep.Sheet))
			continue
		}
		for i, date := range dates {
			col := dep.StartCol + i
			cur := sheet.Cell(dep.HeaderRow, col)
			if cur.String() == date {
				continue
			}
			if !r.opts.DryRun {
				if cur.IsFormula() {
					if err := r.editable(sheet); err != nil {
						return err
					}
				}
				if err := sheet.SetValue(dep.HeaderRow, col, date); err != nil {
					return err
				}
			}
			r.result.HeadersSynced++
		}
		if !r.opts.DryRun {
			for col := dep.StartCol + len(dates); col <= limit; col++ {
				if c := sheet.Cell(dep.HeaderRow, col); !c.IsEmpty() && !c.IsFormula() {
					if err := sheet.Clear(dep.HeaderRow, col); err != nil {
						return err
					}
				}
			}
		}

		last := dep.lastFormulaColumn(sheet, limit)
		if last < dep.StartCol {
			continue
		}
		target := dep.StartCol + len(dates) - 1
		for col := last + 1; col <= target && col <= limit; col++ {
			n, err := dep.cloneColumn(sheet, col-1, col, r.opts.DryRun)
			r.result.FormulasExtended += n
			if err != nil {
				return err
			}
		}
		if target > last {
			r.log.Info("dependent formulas extended",
				slog.String("sheet", sheet.Name()), slog.Int("from_col", last), slog.Int("to_col", target))
		}
	}
	return nil
}

// updateRatios points the latest-period ratio formulas at the last period
// column of their sheet. Only cells that already hold a formula are touched,
// and only after a data change.
func (r *run) updateRatios() error {
	if !r.opts.ShouldSyncDependents() || !r.dataChanged() {
		return nil
	}
	for _, ratio := range r.ratios {
		sheet, ok := r.findSheet(ratio.Sheet)
		if !ok {
			continue
		}
		headerRow, startCol := 1, r.layout.FirstPeriodCol
		for _, dep := range r.dependents {
			if strings.EqualFold(dep.Sheet, ratio.Sheet) {
				headerRow, startCol = dep.HeaderRow, dep.StartCol
				break
			}
		}
		last := parser.LastDataColumn(sheet, headerRow, startCol, r.layout.ScanLimitCol)
		if last < startCol {
			continue
		}
		cur := sheet.Cell(ratio.Row, ratio.Col)
		if !cur.IsFormula() {
			continue
		}
		want := ratio.Formula(last)
		if cur.Text == want {
			continue
		}
		r.result.RatioFormulasUpdated++
		if r.opts.DryRun {
			continue
		}
		if err := r.editable(sheet); err != nil {
			return err
		}
		if err := sheet.SetFormula(ratio.Row, ratio.Col, want); err != nil {
			return fmt.Errorf("ratio %s!%s%d: %w", sheet.Name(), formula.ColumnLetter(ratio.Col), ratio.Row, err)
		}
	}
	return nil
}
