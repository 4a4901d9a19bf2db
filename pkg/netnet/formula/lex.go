package formula

import "strings"

type segKind uint8

const (
	segOther   segKind = iota
	segLiteral         // "text"
	segSheet           // Sheet! or 'Sheet name'!
	segWord            // identifiers, references and numbers
)

// segment is a lexical piece of a formula. Joining the Text of all segments
// gives back the formula.
type segment struct {
	Kind segKind
	Text string
	// Sheet is the unescaped sheet name of a segSheet.
	Sheet string
	// Qualified marks a segWord directly after a sheet prefix.
	Qualified bool
	// Call marks a segWord followed by "(".
	Call bool
}

func isWordByte(c byte) bool {
	return c == '_' || c == '.' || c == '$' || c >= 0x80 ||
		c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

// lex splits formula into string literals, sheet prefixes, words and
// everything else.
func lex(formula string) []segment {
	var segs []segment
	n := len(formula)
	push := func(s segment) {
		if s.Kind == segOther && len(segs) > 0 && segs[len(segs)-1].Kind == segOther {
			segs[len(segs)-1].Text += s.Text
			return
		}
		segs = append(segs, s)
	}

	for i := 0; i < n; {
		c := formula[i]
		switch {
		case c == '"':
			end := closingQuote(formula, i, '"')
			push(segment{Kind: segLiteral, Text: formula[i:end]})
			i = end
		case c == '\'':
			end := closingQuote(formula, i, '\'')
			if end < n && formula[end] == '!' {
				raw := formula[i:end]
				name := strings.ReplaceAll(strings.Trim(raw, "'"), "''", "'")
				push(segment{Kind: segSheet, Text: raw + "!", Sheet: name})
				i = end + 1
				continue
			}
			push(segment{Kind: segOther, Text: formula[i:end]})
			i = end
		case isWordByte(c):
			j := i
			for j < n && isWordByte(formula[j]) {
				j++
			}
			word := formula[i:j]
			if j < n && formula[j] == '!' {
				push(segment{Kind: segSheet, Text: word + "!", Sheet: word})
				i = j + 1
				continue
			}
			qualified := len(segs) > 0 && segs[len(segs)-1].Kind == segSheet
			push(segment{Kind: segWord, Text: word, Qualified: qualified, Call: j < n && formula[j] == '('})
			i = j
		default:
			push(segment{Kind: segOther, Text: string(c)})
			i++
		}
	}
	return segs
}

// closingQuote returns the index just past the quote closing the one at start.
// Doubled quotes are escapes. An unterminated quote runs to the end.
func closingQuote(s string, start int, q byte) int {
	for i := start + 1; i < len(s); i++ {
		if s[i] != q {
			continue
		}
		if i+1 < len(s) && s[i+1] == q {
			i++
			continue
		}
		return i + 1
	}
	return len(s)
}

func join(segs []segment) string {
	var b strings.Builder
	for _, s := range segs {
		b.WriteString(s.Text)
	}
	return b.String()
}
