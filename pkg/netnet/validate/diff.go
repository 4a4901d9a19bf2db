package validate

import (
	"fmt"

	"github.com/ukaji3/netnet-go/pkg/netnet/formula"
	"github.com/ukaji3/netnet-go/pkg/netnet/models"
	"github.com/ukaji3/netnet-go/pkg/netnet/parser"
	"github.com/ukaji3/netnet-go/pkg/netnet/workbook"
)

// DateColumns maps each period date of a sheet to its column. When a date
// repeats, the rightmost column wins. Dates are returned in column order.
func DateColumns(sheet workbook.SheetReader, layout parser.Layout) (cols map[string]int, order []string) {
	dates := parser.ExtractColumnDates(sheet, layout.DateRow, layout.FirstPeriodCol, layout.LastPeriodCol)
	cols = make(map[string]int, len(dates))
	for _, col := range parser.SortedColumns(dates) {
		date := dates[col]
		if _, seen := cols[date]; !seen {
			order = append(order, date)
		}
		cols[date] = col
	}
	return cols, order
}

// SheetChanges compares an existing raw data sheet with an export. It returns
// the cells of shared periods whose normalized values differ, and the export
// periods the sheet lacks. Formula cells of the existing sheet are never
// reported as changes.
func SheetChanges(existing, export workbook.SheetReader, sheetType models.SheetType, layout parser.Layout) ([]models.Change, []models.NewPeriod) {
	existingCols, existingOrder := DateColumns(existing, layout)
	exportCols, exportOrder := DateColumns(export, layout)

	newPeriods := []models.NewPeriod{}
	for _, date := range exportOrder {
		if _, ok := existingCols[date]; ok {
			continue
		}
		col := exportCols[date]
		newPeriods = append(newPeriods, models.NewPeriod{
			Date:       date,
			PeriodCode: export.Cell(layout.CodeRow, col).String(),
			ExportCol:  col,
		})
	}

	labels := parser.ExtractRowLabels(existing, layout.FirstDataRow, layout.LastDataRow, layout.LabelCol)
	rows := sortedRows(labels)
	changes := []models.Change{}
	for _, date := range existingOrder {
		exportCol, ok := exportCols[date]
		if !ok {
			continue
		}
		col := existingCols[date]
		for _, row := range rows {
			old := existing.Cell(row, col)
			if old.IsFormula() {
				continue
			}
			cur := export.Cell(row, exportCol)
			if old.String() == cur.String() {
				continue
			}
			changes = append(changes, models.Change{
				SheetType: sheetType,
				Kind:      models.ChangeValue,
				Row:       row,
				Col:       col,
				ColLetter: formula.ColumnLetter(col),
				Date:      date,
				Label:     labels[row],
				OldValue:  old.Value(),
				NewValue:  cur.Value(),
			})
		}
	}
	return changes, newPeriods
}

// Diff reports what applying the exports to wb would change. A nil export, or
// a workbook without the matching data sheet, contributes nothing.
func Diff(wb *workbook.Workbook, incomeExport, balanceExport workbook.SheetReader, layout parser.Layout) (*models.DiffReport, error) {
	report := models.NewDiffReport()
	incomeName, balanceName := parser.LocateDataSheets(wb.SheetNames())

	if incomeExport != nil && incomeName != "" {
		sheet, err := wb.Sheet(incomeName)
		if err != nil {
			return nil, fmt.Errorf("diff income sheet: %w", err)
		}
		report.IncomeChanges, report.NewIncomePeriods = SheetChanges(sheet, incomeExport, models.IncomeStatement, layout)
	}
	if balanceExport != nil && balanceName != "" {
		sheet, err := wb.Sheet(balanceName)
		if err != nil {
			return nil, fmt.Errorf("diff balance sheet: %w", err)
		}
		report.BalanceChanges, report.NewBalancePeriods = SheetChanges(sheet, balanceExport, models.BalanceSheet, layout)
	}

	report.Summarize()
	return report, nil
}
