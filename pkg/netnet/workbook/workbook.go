// Package workbook wraps excelize with the cell model used by the net-net
// tooling: typed cell snapshots, read-only sheet views for extraction and
// evaluation, and explicit write methods for the updater.
package workbook

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"
)

// SheetReader is the read-only view of a worksheet.
type SheetReader interface {
	Name() string
	Cell(row, col int) Cell
}

// Workbook is an open spreadsheet document.
type Workbook struct {
	f          *excelize.File
	path       string
	dateStyles map[int]bool
}

// Open opens the workbook at path.
func Open(path string) (*Workbook, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, err
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidFormat, path, err)
	}
	return Wrap(f, path), nil
}

// New returns an empty in-memory workbook with the default "Sheet1".
func New() *Workbook {
	return Wrap(excelize.NewFile(), "")
}

// Wrap adopts an already opened excelize file.
func Wrap(f *excelize.File, path string) *Workbook {
	return &Workbook{f: f, path: path, dateStyles: make(map[int]bool)}
}

// Path returns the file path the workbook was opened from or last saved to.
func (w *Workbook) Path() string { return w.path }

// File exposes the underlying excelize file.
func (w *Workbook) File() *excelize.File { return w.f }

// SheetNames returns the sheet names in workbook order.
func (w *Workbook) SheetNames() []string { return w.f.GetSheetList() }

// HasSheet reports whether a sheet with exactly this name exists.
func (w *Workbook) HasSheet(name string) bool {
	idx, err := w.f.GetSheetIndex(name)
	return err == nil && idx >= 0
}

// Sheet returns the named sheet.
func (w *Workbook) Sheet(name string) (*Sheet, error) {
	if !w.HasSheet(name) {
		return nil, fmt.Errorf("%w: %q", ErrSheetNotFound, name)
	}
	return &Sheet{wb: w, name: name}, nil
}

// NewSheet creates a sheet, or returns it when it already exists.
func (w *Workbook) NewSheet(name string) (*Sheet, error) {
	if !w.HasSheet(name) {
		if _, err := w.f.NewSheet(name); err != nil {
			return nil, err
		}
	}
	return &Sheet{wb: w, name: name}, nil
}

// ActiveSheet returns the active sheet, which is the only sheet of an export.
func (w *Workbook) ActiveSheet() *Sheet {
	name := w.f.GetSheetName(w.f.GetActiveSheetIndex())
	if name == "" {
		if list := w.f.GetSheetList(); len(list) > 0 {
			name = list[0]
		}
	}
	return &Sheet{wb: w, name: name}
}

// CellAt reads one cell of a named sheet.
func (w *Workbook) CellAt(sheet string, row, col int) (Cell, error) {
	s, err := w.Sheet(sheet)
	if err != nil {
		return Cell{}, err
	}
	return s.Cell(row, col), nil
}

// RenameSheet renames a sheet. Formulas referencing the old name are not
// touched; callers repoint them first.
func (w *Workbook) RenameSheet(oldName, newName string) error {
	if !w.HasSheet(oldName) {
		return fmt.Errorf("%w: %q", ErrSheetNotFound, oldName)
	}
	if oldName == newName {
		return nil
	}
	if w.HasSheet(newName) && !strings.EqualFold(oldName, newName) {
		return fmt.Errorf("%w: %q", ErrSheetExists, newName)
	}
	return w.f.SetSheetName(oldName, newName)
}

// Save writes the workbook back to its path.
func (w *Workbook) Save() error {
	if w.path == "" {
		return errors.New("workbook has no path")
	}
	return w.f.SaveAs(w.path)
}

// SaveAs writes the workbook to path and remembers it.
func (w *Workbook) SaveAs(path string) error {
	if err := w.f.SaveAs(path); err != nil {
		return err
	}
	w.path = path
	return nil
}

// Close releases the underlying file.
func (w *Workbook) Close() error { return w.f.Close() }

// isDateStyle reports whether the style of a cell is a date number format.
func (w *Workbook) isDateStyle(sheet, ref string) bool {
	id, err := w.f.GetCellStyle(sheet, ref)
	if err != nil || id == 0 {
		return false
	}
	if v, ok := w.dateStyles[id]; ok {
		return v
	}
	style, err := w.f.GetStyle(id)
	isDate := err == nil && style != nil && isDateFormat(style.NumFmt, style.CustomNumFmt)
	w.dateStyles[id] = isDate
	return isDate
}

// isDateFormat recognizes the built-in date formats and custom format codes
// carrying day, month or year tokens.
func isDateFormat(numFmt int, custom *string) bool {
	if custom != nil && *custom != "" {
		return isDateFormatCode(*custom)
	}
	switch {
	case numFmt >= 14 && numFmt <= 22,
		numFmt >= 27 && numFmt <= 36,
		numFmt >= 45 && numFmt <= 47,
		numFmt >= 50 && numFmt <= 58:
		return true
	}
	return false
}

func isDateFormatCode(code string) bool {
	var b strings.Builder
	inQuote, inBracket := false, false
	for _, r := range code {
		switch {
		case r == '"':
			inQuote = !inQuote
		case inQuote:
		case r == '[':
			inBracket = true
		case r == ']':
			inBracket = false
		case inBracket:
		default:
			b.WriteRune(r)
		}
	}
	s := strings.ToLower(b.String())
	return strings.Contains(s, "y") || (strings.Contains(s, "d") && strings.Contains(s, "m"))
}
