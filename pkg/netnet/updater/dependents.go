package updater

import (
	"fmt"
	"strings"

	"github.com/ukaji3/netnet-go/pkg/netnet/formula"
	"github.com/ukaji3/netnet-go/pkg/netnet/workbook"
)

// Dependent is a calculation sheet whose columns follow the raw data periods.
type Dependent struct {
	Sheet string
	// HeaderRow holds the period dates.
	HeaderRow int
	// StartCol is the first period column.
	StartCol int
	// MaxRow bounds the formula rows.
	MaxRow int
}

// DefaultDependents returns the calculation sheets of the net-net workbook.
func DefaultDependents() []Dependent {
	return []Dependent{
		{Sheet: "ncav", HeaderRow: 1, StartCol: 4, MaxRow: 30},
		{Sheet: "profitability", HeaderRow: 1, StartCol: 3, MaxRow: 15},
		{Sheet: "piotrosky", HeaderRow: 1, StartCol: 4, MaxRow: 15},
		{Sheet: "C7", HeaderRow: 1, StartCol: 4, MaxRow: 20},
		{Sheet: "ro", HeaderRow: 1, StartCol: 3, MaxRow: 20},
	}
}

// RatioRow is a cell whose formula always points at the latest period column
// of its sheet. Template marks that column with "{col}".
type RatioRow struct {
	Sheet    string
	Row      int
	Col      int
	Template string
	// Guarded wraps the formula in IFERROR(...,"NA").
	Guarded bool
}

// DefaultRatioRows returns the price based ratios of the ncav sheet:
// price to net current asset value and market capitalization.
func DefaultRatioRows() []RatioRow {
	return []RatioRow{
		{Sheet: "ncav", Row: 38, Col: 3, Template: "Overview!$C$6/{col}34", Guarded: true},
		{Sheet: "ncav", Row: 39, Col: 3, Template: "Overview!$C$6*{col}20"},
	}
}

// Formula renders the ratio formula for the given last period column.
func (r RatioRow) Formula(lastCol int) string {
	body := strings.TrimPrefix(strings.ReplaceAll(r.Template, "{col}", formula.ColumnLetter(lastCol)), "=")
	if r.Guarded {
		return fmt.Sprintf(`=IFERROR(%s,"NA")`, body)
	}
	return "=" + body
}

// lastFormulaColumn returns the rightmost column of d holding a formula in
// rows 2..MaxRow. Once past the first six columns, a column without formulas
// ends the scan. It returns StartCol-1 when there is none.
func (d Dependent) lastFormulaColumn(sheet workbook.SheetReader, limit int) int {
	last := d.StartCol - 1
	for col := d.StartCol; col <= limit; col++ {
		if d.columnHasFormula(sheet, col) {
			last = col
			continue
		}
		if col > d.StartCol+5 {
			break
		}
	}
	return last
}

func (d Dependent) columnHasFormula(sheet workbook.SheetReader, col int) bool {
	for row := d.HeaderRow + 1; row <= d.MaxRow; row++ {
		if sheet.Cell(row, col).IsFormula() {
			return true
		}
	}
	return false
}

// cloneColumn writes the formulas of column src, shifted by the rewriter, into
// column dst for rows 1..MaxRow. It returns the number of formulas written.
func (d Dependent) cloneColumn(sheet *workbook.Sheet, src, dst int, dryRun bool) (int, error) {
	n := 0
	for row := 1; row <= d.MaxRow; row++ {
		c := sheet.Cell(row, src)
		if !c.IsFormula() {
			continue
		}
		n++
		if dryRun {
			continue
		}
		if err := sheet.SetFormula(row, dst, formula.RewriteColumn(c.Text, src, dst)); err != nil {
			return n, fmt.Errorf("extend %s!%s%d: %w", sheet.Name(), formula.ColumnLetter(dst), row, err)
		}
	}
	return n, nil
}
