package workbook

import (
	"strconv"
	"strings"
	"time"
)

// Kind classifies the stored content of a cell.
type Kind uint8

const (
	KindEmpty Kind = iota
	KindNumber
	KindText
	KindBool
	KindDate
	KindFormula
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	case KindBool:
		return "bool"
	case KindDate:
		return "date"
	case KindFormula:
		return "formula"
	}
	return "empty"
}

// Cell is a read snapshot of one cell. Formula cells keep their formula text,
// including the leading "=", in Text.
type Cell struct {
	Kind Kind
	Num  float64
	Text string
	Time time.Time
	Bool bool
}

// Number returns a numeric cell.
func Number(v float64) Cell { return Cell{Kind: KindNumber, Num: v} }

// Text returns a text cell. Text starting with "=" is still plain text.
func Text(s string) Cell { return Cell{Kind: KindText, Text: s} }

// Date returns a date cell.
func Date(t time.Time) Cell { return Cell{Kind: KindDate, Time: t} }

// Formula returns a formula cell; a missing leading "=" is added.
func Formula(f string) Cell {
	if !strings.HasPrefix(f, "=") {
		f = "=" + f
	}
	return Cell{Kind: KindFormula, Text: f}
}

// IsEmpty reports whether the cell holds nothing.
func (c Cell) IsEmpty() bool {
	return c.Kind == KindEmpty || (c.Kind == KindText && strings.TrimSpace(c.Text) == "")
}

// IsFormula reports whether the cell holds a formula.
func (c Cell) IsFormula() bool { return c.Kind == KindFormula }

// Float returns the numeric value of a number or numeric-looking text cell.
func (c Cell) Float() (float64, bool) {
	switch c.Kind {
	case KindNumber:
		return c.Num, true
	case KindText:
		return parseString(c.Text)
	}
	return 0, false
}

// String returns the normalized form used to compare cells: trimmed text,
// shortest float formatting, ISO dates and formula text.
func (c Cell) String() string {
	switch c.Kind {
	case KindNumber:
		return strconv.FormatFloat(c.Num, 'f', -1, 64)
	case KindText, KindFormula:
		return strings.TrimSpace(c.Text)
	case KindBool:
		return strconv.FormatBool(c.Bool)
	case KindDate:
		return FormatDate(c.Time)
	}
	return ""
}

// Value returns the cell content as a plain Go value for reports.
func (c Cell) Value() any {
	switch c.Kind {
	case KindNumber:
		return c.Num
	case KindText, KindFormula:
		return c.Text
	case KindBool:
		return c.Bool
	case KindDate:
		return FormatDate(c.Time)
	}
	return nil
}

// FormatDate formats t as YYYY-MM-DD, adding the clock only when it is not midnight.
func FormatDate(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
		return t.Format(time.DateOnly)
	}
	return t.Format(time.DateTime)
}
