package formula

import (
	"regexp"
	"strings"

	"github.com/xuri/excelize/v2"
)

var columnPattern = regexp.MustCompile(`^(\$?)([A-Za-z]{1,3})$`)

// wholeColumn reports whether segs[i] is one end of a column range such as D:D
// and returns its anchor and column name.
func wholeColumn(segs []segment, i int) (anchor, col string, ok bool) {
	m := columnPattern.FindStringSubmatch(segs[i].Text)
	if m == nil {
		return "", "", false
	}
	isColumn := func(j int) bool {
		return j >= 0 && j < len(segs) && segs[j].Kind == segWord && !segs[j].Call && columnPattern.MatchString(segs[j].Text)
	}
	isColon := func(j int) bool {
		return j >= 0 && j < len(segs) && segs[j].Kind == segOther && segs[j].Text == ":"
	}
	if (isColon(i+1) && isColumn(i+2)) || (isColon(i-1) && isColumn(i-2)) {
		return m[1], m[2], true
	}
	return "", "", false
}

// RewriteColumn moves the column-relative references of formula from column
// sourceCol to targetCol. Sheet-qualified references, both corners of ranges
// whole-column ranges and bare references are shifted; "$"-anchored columns, string literals,
// function names and sheet names are left alone. Other columns are untouched.
func RewriteColumn(formula string, sourceCol, targetCol int) string {
	source, err := excelize.ColumnNumberToName(sourceCol)
	if err != nil {
		return formula
	}
	target, err := excelize.ColumnNumberToName(targetCol)
	if err != nil || source == target {
		return formula
	}

	segs := lex(formula)
	changed := false
	for i, s := range segs {
		if s.Kind != segWord || s.Call {
			continue
		}
		if anchor, col, ok := wholeColumn(segs, i); ok {
			if anchor == "" && strings.EqualFold(col, source) {
				segs[i].Text = target
				changed = true
			}
			continue
		}
		m := cellRefPattern.FindStringSubmatch(s.Text)
		if m == nil || m[1] == "$" || !strings.EqualFold(m[2], source) {
			continue
		}
		if _, err := excelize.ColumnNameToNumber(m[2]); err != nil {
			continue
		}
		segs[i].Text = target + m[3] + m[4]
		changed = true
	}
	if !changed {
		return formula
	}
	return join(segs)
}

// RenameSheetRefs repoints references to sheet oldName at newName. Sheet names
// match case-insensitively, quoted or not; the new name is quoted only when
// needed. It reports whether anything changed.
func RenameSheetRefs(formula, oldName, newName string) (string, bool) {
	if oldName == "" || !strings.Contains(formula, "!") {
		return formula, false
	}
	segs := lex(formula)
	changed := false
	for i, s := range segs {
		if s.Kind != segSheet || !strings.EqualFold(s.Sheet, oldName) {
			continue
		}
		text := QuoteSheet(newName) + "!"
		if text != s.Text {
			segs[i].Text = text
			changed = true
		}
	}
	if !changed {
		return formula, false
	}
	return join(segs), true
}
