package workbook

import (
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

const (
	// formulaScanRows and formulaScanCols bound FormulaCells when the sheet
	// dimension is unknown or smaller.
	formulaScanRows = 120
	formulaScanCols = 100
)

// Sheet is one worksheet of a Workbook. Reads return Cell snapshots; writes go
// straight to the underlying file.
type Sheet struct {
	wb   *Workbook
	name string
}

// Name returns the sheet name.
func (s *Sheet) Name() string { return s.name }

// Workbook returns the owning workbook.
func (s *Sheet) Workbook() *Workbook { return s.wb }

// Cell reads the cell at (row, col), both 1-based. Unreadable cells are empty.
func (s *Sheet) Cell(row, col int) Cell {
	ref, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return Cell{}
	}
	f := s.wb.f

	if formula, err := f.GetCellFormula(s.name, ref); err == nil && formula != "" {
		return Formula(formula)
	}
	typ, err := f.GetCellType(s.name, ref)
	if err != nil {
		return Cell{}
	}
	raw, err := f.GetCellValue(s.name, ref, excelize.Options{RawCellValue: true})
	if err != nil || raw == "" {
		return Cell{}
	}

	switch typ {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula:
		return Text(raw)
	case excelize.CellTypeBool:
		return Cell{Kind: KindBool, Bool: raw == "1" || strings.EqualFold(raw, "true")}
	case excelize.CellTypeDate:
		if t, ok := parseISOTime(raw); ok {
			return Date(t)
		}
		return Text(raw)
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return Text(raw)
	}
	if s.wb.isDateStyle(s.name, ref) {
		if t, err := excelize.ExcelDateToTime(v, false); err == nil {
			return Date(t)
		}
	}
	return Number(v)
}

// SetCell writes c at (row, col).
func (s *Sheet) SetCell(row, col int, c Cell) error {
	switch c.Kind {
	case KindFormula:
		return s.SetFormula(row, col, c.Text)
	case KindNumber:
		return s.SetValue(row, col, c.Num)
	case KindText:
		ref, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return err
		}
		return s.wb.f.SetCellStr(s.name, ref, c.Text)
	case KindBool:
		return s.SetValue(row, col, c.Bool)
	case KindDate:
		return s.SetValue(row, col, c.Time)
	}
	return s.Clear(row, col)
}

// SetValue writes a plain value with excelize's type mapping.
func (s *Sheet) SetValue(row, col int, v any) error {
	ref, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return s.wb.f.SetCellValue(s.name, ref, v)
}

// SetFormula replaces the cell content with formula. The leading "=" is optional.
func (s *Sheet) SetFormula(row, col int, formula string) error {
	ref, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	// drop any shared-formula binding before writing a standalone formula
	if err := s.wb.f.SetCellFormula(s.name, ref, ""); err != nil {
		return err
	}
	return s.wb.f.SetCellFormula(s.name, ref, strings.TrimPrefix(formula, "="))
}

// Clear empties the cell value and formula, keeping its style.
func (s *Sheet) Clear(row, col int) error {
	return s.SetValue(row, col, nil)
}

// CopyColumnStyle copies cell styles of rows 1..maxRow and the column width
// from column src to column dst.
func (s *Sheet) CopyColumnStyle(src, dst, maxRow int) error {
	f := s.wb.f
	for row := 1; row <= maxRow; row++ {
		from, err := excelize.CoordinatesToCellName(src, row)
		if err != nil {
			return err
		}
		styleID, err := f.GetCellStyle(s.name, from)
		if err != nil || styleID == 0 {
			continue
		}
		to, _ := excelize.CoordinatesToCellName(dst, row)
		if err := f.SetCellStyle(s.name, to, to, styleID); err != nil {
			return err
		}
	}

	srcName, err := excelize.ColumnNumberToName(src)
	if err != nil {
		return err
	}
	dstName, err := excelize.ColumnNumberToName(dst)
	if err != nil {
		return err
	}
	if width, err := f.GetColWidth(s.name, srcName); err == nil && width > 0 {
		return f.SetColWidth(s.name, dstName, dstName, width)
	}
	return nil
}

// FormulaCell is a formula found by FormulaCells.
type FormulaCell struct {
	Row     int
	Col     int
	Formula string
}

// FormulaCells lists every formula cell of the sheet, row by row.
func (s *Sheet) FormulaCells() []FormulaCell {
	maxCol, maxRow := s.bounds()
	var out []FormulaCell
	for row := 1; row <= maxRow; row++ {
		for col := 1; col <= maxCol; col++ {
			ref, _ := excelize.CoordinatesToCellName(col, row)
			formula, err := s.wb.f.GetCellFormula(s.name, ref)
			if err != nil || formula == "" {
				continue
			}
			out = append(out, FormulaCell{Row: row, Col: col, Formula: "=" + formula})
		}
	}
	return out
}

// MaterializeFormulas rewrites every shared formula of the sheet as a standalone
// formula so single cells can be edited without touching the shared group.
func (s *Sheet) MaterializeFormulas() ([]FormulaCell, error) {
	cells := s.FormulaCells()
	for _, fc := range cells {
		if err := s.SetFormula(fc.Row, fc.Col, fc.Formula); err != nil {
			return nil, err
		}
	}
	return cells, nil
}

// bounds returns the scan window for the sheet: its dimension when larger than
// the default window.
func (s *Sheet) bounds() (maxCol, maxRow int) {
	maxCol, maxRow = formulaScanCols, formulaScanRows
	dim, err := s.wb.f.GetSheetDimension(s.name)
	if err != nil || dim == "" {
		return maxCol, maxRow
	}
	parts := strings.Split(dim, ":")
	last := parts[len(parts)-1]
	col, row, err := excelize.CellNameToCoordinates(strings.ReplaceAll(last, "$", ""))
	if err != nil {
		return maxCol, maxRow
	}
	return max(maxCol, col), max(maxRow, row)
}

var isoLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999",
	time.DateTime,
	time.DateOnly,
}

func parseISOTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
