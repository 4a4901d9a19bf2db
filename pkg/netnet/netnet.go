// Package netnet maps, validates and updates net-net analysis workbooks: the
// raw "_IS" and "_bs" data sheets fed by financial statement exports and the
// calculation sheets derived from them.
package netnet

import (
	"context"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ukaji3/netnet-go/pkg/netnet/formula"
	"github.com/ukaji3/netnet-go/pkg/netnet/models"
	"github.com/ukaji3/netnet-go/pkg/netnet/output"
	"github.com/ukaji3/netnet-go/pkg/netnet/parser"
	"github.com/ukaji3/netnet-go/pkg/netnet/updater"
	"github.com/ukaji3/netnet-go/pkg/netnet/validate"
	"github.com/ukaji3/netnet-go/pkg/netnet/workbook"
)

// MapStructure extracts the structure baseline of the workbook at path.
func MapStructure(path string, layout parser.Layout) (*models.WorkbookStructure, error) {
	wb, err := workbook.Open(path)
	if err != nil {
		return nil, NewOperationError("map", path, err)
	}
	defer wb.Close()

	s, err := parser.MapWorkbook(wb, layout)
	if err != nil {
		return nil, NewOperationError("map", path, err)
	}
	return s, nil
}

// SaveStructure writes a structure baseline as JSON.
func SaveStructure(path string, s *models.WorkbookStructure) error {
	if err := output.WriteJSON(path, s); err != nil {
		return NewOperationError("save", path, err)
	}
	return nil
}

// LoadStructure reads a structure baseline written by SaveStructure.
func LoadStructure(path string) (*models.WorkbookStructure, error) {
	s := models.NewWorkbookStructure()
	if err := output.ReadJSON(path, s); err != nil {
		return nil, NewOperationError("load", path, err)
	}
	for _, sheet := range []*models.SheetStructure{&s.Income, &s.Balance} {
		if sheet.RowLabels == nil {
			sheet.RowLabels = make(map[int]string)
		}
		if sheet.ColumnDates == nil {
			sheet.ColumnDates = make(map[int]string)
		}
		if sheet.PeriodCodes == nil {
			sheet.PeriodCodes = make(map[int]string)
		}
	}
	return s, nil
}

// ValidateExport checks one export file against the baseline sheet of type t.
func ValidateExport(expected *models.WorkbookStructure, exportPath string, t models.SheetType, layout parser.Layout) (*models.ValidationResult, error) {
	export, err := workbook.Open(exportPath)
	if err != nil {
		return nil, NewOperationError("validate", exportPath, err)
	}
	defer export.Close()
	return validate.Export(expected.Sheet(t), export.ActiveSheet(), t, layout), nil
}

// Validate checks the given export files, income first. Empty paths are skipped.
func Validate(expected *models.WorkbookStructure, incomePath, balancePath string, layout parser.Layout) (*models.ValidationReport, error) {
	report := &models.ValidationReport{
		ValidationDate: time.Now().Format("2006-01-02T15:04:05"),
		Results:        []*models.ValidationResult{},
	}
	paths := []struct {
		t    models.SheetType
		path string
	}{
		{models.IncomeStatement, incomePath},
		{models.BalanceSheet, balancePath},
	}
	for _, p := range paths {
		if p.path == "" {
			continue
		}
		r, err := ValidateExport(expected, p.path, p.t, layout)
		if err != nil {
			return nil, err
		}
		report.Results = append(report.Results, r)
	}
	return report, nil
}

// Diff reports what applying the export files to the workbook would change.
func Diff(workbookPath, incomePath, balancePath string, layout parser.Layout) (*models.DiffReport, error) {
	wb, err := workbook.Open(workbookPath)
	if err != nil {
		return nil, NewOperationError("diff", workbookPath, err)
	}
	defer wb.Close()

	var income, balance workbook.SheetReader
	for _, e := range []struct {
		path string
		dst  *workbook.SheetReader
	}{
		{incomePath, &income},
		{balancePath, &balance},
	} {
		if e.path == "" {
			continue
		}
		export, err := workbook.Open(e.path)
		if err != nil {
			return nil, NewOperationError("diff", e.path, err)
		}
		defer export.Close()
		*e.dst = export.ActiveSheet()
	}

	report, err := validate.Diff(wb, income, balance, layout)
	if err != nil {
		return nil, NewOperationError("diff", workbookPath, err)
	}
	return report, nil
}

// Update runs the sync engine once. The result is returned even on failure.
func Update(ctx context.Context, opts updater.Options, layout parser.Layout, logger *slog.Logger, engineOpts ...updater.Option) (*models.UpdateResult, error) {
	result, err := updater.New(layout, logger, engineOpts...).Run(ctx, opts)
	if err != nil {
		return result, NewOperationError("update", opts.Workbook, err)
	}
	return result, nil
}

// Series evaluates a row of a sheet from startCol and returns its resolved values.
func Series(workbookPath, sheet string, row, startCol int) ([]formula.Point, error) {
	wb, err := workbook.Open(workbookPath)
	if err != nil {
		return nil, NewOperationError("eval", workbookPath, err)
	}
	defer wb.Close()
	return formula.NewEvaluator(wb).RowSeries(sheet, row, startCol, formula.DefaultSeriesColumns), nil
}

// Evaluate computes one cell, given as "A1" or "Sheet!A1"; a bare cell is
// read from sheet. ok is false when the value cannot be determined.
func Evaluate(workbookPath, sheet, cell string) (v float64, ok bool, err error) {
	if name, ref := formula.SplitSheet(cell); name != "" {
		sheet, cell = name, ref
	}
	col, row, err := excelize.CellNameToCoordinates(cell)
	if err != nil {
		return 0, false, NewOperationError("eval", workbookPath, err)
	}
	wb, err := workbook.Open(workbookPath)
	if err != nil {
		return 0, false, NewOperationError("eval", workbookPath, err)
	}
	defer wb.Close()
	v, ok = formula.NewEvaluator(wb).Evaluate(sheet, row, col)
	return v, ok, nil
}
