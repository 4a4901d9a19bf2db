// Package formula evaluates the restricted formula dialect of the analysis
// workbooks and rewrites cell and sheet references inside formulas.
package formula

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrInvalidReference indicates a string that is not an A1 reference.
var ErrInvalidReference = errors.New("invalid cell reference")

var cellRefPattern = regexp.MustCompile(`^(\$?)([A-Za-z]{1,3})(\$?)([0-9]+)$`)

// Ref is an A1 cell reference. An empty Sheet means the sheet holding the formula.
type Ref struct {
	Sheet  string
	Col    int
	Row    int
	AbsCol bool
	AbsRow bool
}

// ParseRef parses "D5", "$D$5", "acme_bs!D12" or "'acme bs'!D12".
func ParseRef(s string) (Ref, error) {
	sheet, cell := SplitSheet(s)
	m := cellRefPattern.FindStringSubmatch(strings.TrimSpace(cell))
	if m == nil {
		return Ref{}, fmt.Errorf("%w: %q", ErrInvalidReference, s)
	}
	col, err := excelize.ColumnNameToNumber(m[2])
	if err != nil {
		return Ref{}, fmt.Errorf("%w: %q", ErrInvalidReference, s)
	}
	row, err := strconv.Atoi(m[4])
	if err != nil || row < 1 || row > excelize.TotalRows {
		return Ref{}, fmt.Errorf("%w: %q", ErrInvalidReference, s)
	}
	return Ref{Sheet: sheet, Col: col, Row: row, AbsCol: m[1] == "$", AbsRow: m[3] == "$"}, nil
}

// Cell returns the reference without its sheet, e.g. "D5" or "$D$5".
func (r Ref) Cell() string {
	col, _ := excelize.ColumnNumberToName(r.Col)
	var b strings.Builder
	if r.AbsCol {
		b.WriteByte('$')
	}
	b.WriteString(col)
	if r.AbsRow {
		b.WriteByte('$')
	}
	b.WriteString(strconv.Itoa(r.Row))
	return b.String()
}

// String returns the reference as written in a formula.
func (r Ref) String() string {
	if r.Sheet == "" {
		return r.Cell()
	}
	return QuoteSheet(r.Sheet) + "!" + r.Cell()
}

// Area is a rectangular range such as "C7:D7".
type Area struct {
	Sheet string
	From  Ref
	To    Ref
}

// ParseArea parses "D5:G5" or "acme_bs!D5:G5". Corners are normalized so From
// is the top-left cell.
func ParseArea(s string) (Area, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return Area{}, fmt.Errorf("%w: %q", ErrInvalidReference, s)
	}
	from, err := ParseRef(parts[0])
	if err != nil {
		return Area{}, err
	}
	to, err := ParseRef(parts[1])
	if err != nil {
		return Area{}, err
	}
	if to.Sheet != "" && from.Sheet != "" && !strings.EqualFold(to.Sheet, from.Sheet) {
		return Area{}, fmt.Errorf("%w: %q spans sheets", ErrInvalidReference, s)
	}
	if from.Col > to.Col {
		from.Col, to.Col = to.Col, from.Col
	}
	if from.Row > to.Row {
		from.Row, to.Row = to.Row, from.Row
	}
	sheet := from.Sheet
	from.Sheet, to.Sheet = "", ""
	return Area{Sheet: sheet, From: from, To: to}, nil
}

// Refs lists the cells of the area row by row.
func (a Area) Refs() []Ref {
	refs := make([]Ref, 0, (a.To.Row-a.From.Row+1)*(a.To.Col-a.From.Col+1))
	for row := a.From.Row; row <= a.To.Row; row++ {
		for col := a.From.Col; col <= a.To.Col; col++ {
			refs = append(refs, Ref{Sheet: a.Sheet, Col: col, Row: row})
		}
	}
	return refs
}

// SplitSheet splits "Sheet!A1" into its sheet and cell parts. Quotes around
// the sheet name are removed and doubled quotes unescaped.
func SplitSheet(s string) (sheet, cell string) {
	i := strings.LastIndex(s, "!")
	if i < 0 {
		return "", s
	}
	sheet = s[:i]
	if len(sheet) >= 2 && sheet[0] == '\'' && sheet[len(sheet)-1] == '\'' {
		sheet = strings.ReplaceAll(sheet[1:len(sheet)-1], "''", "'")
	}
	return sheet, s[i+1:]
}

// QuoteSheet quotes a sheet name when a formula needs it.
func QuoteSheet(name string) string {
	if name == "" {
		return name
	}
	plain := name[0] < '0' || name[0] > '9'
	for _, r := range name {
		if !(r == '_' || r == '.' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			plain = false
			break
		}
	}
	if plain && !cellRefPattern.MatchString(name) {
		return name
	}
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

// ColumnLetter returns the column name of col, or "" when out of range.
func ColumnLetter(col int) string {
	name, err := excelize.ColumnNumberToName(col)
	if err != nil {
		return ""
	}
	return name
}
