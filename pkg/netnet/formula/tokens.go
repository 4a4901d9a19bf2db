package formula

import (
	"strconv"
	"strings"

	"github.com/xuri/efp"
)

// Tokenize splits formula into efp tokens without the leading "=" and
// without whitespace.
func Tokenize(formula string) []efp.Token {
	p := efp.ExcelParser()
	tokens := p.Parse(formula)
	out := make([]efp.Token, 0, len(tokens))
	for i, t := range tokens {
		if t.TType == efp.TokenTypeWhitespace {
			continue
		}
		if i == 0 && t.TType == efp.TokenTypeOperatorInfix && t.TValue == "=" {
			continue
		}
		out = append(out, t)
	}
	return out
}

func isRange(t efp.Token) bool {
	return t.TType == efp.TokenTypeOperand && t.TSubType == efp.TokenSubTypeRange
}

func isNumber(t efp.Token) (float64, bool) {
	if t.TType != efp.TokenTypeOperand || t.TSubType != efp.TokenSubTypeNumber {
		return 0, false
	}
	v, err := strconv.ParseFloat(t.TValue, 64)
	return v, err == nil
}

func isOperator(t efp.Token, ops string) bool {
	return t.TType == efp.TokenTypeOperatorInfix && t.TSubType == efp.TokenSubTypeMath &&
		len(t.TValue) == 1 && strings.Contains(ops, t.TValue)
}

// functionName returns the upper-cased name of a function start token with any
// "_xlfn." prefix removed.
func functionName(t efp.Token) (string, bool) {
	if t.TType != efp.TokenTypeFunction || t.TSubType != efp.TokenSubTypeStart {
		return "", false
	}
	return strings.TrimPrefix(strings.ToUpper(t.TValue), "_XLFN."), true
}

func isFunctionStop(t efp.Token) bool {
	return t.TType == efp.TokenTypeFunction && t.TSubType == efp.TokenSubTypeStop
}

// refToken parses a range operand holding a single cell.
func refToken(t efp.Token) (Ref, bool) {
	if !isRange(t) {
		return Ref{}, false
	}
	ref, err := ParseRef(t.TValue)
	return ref, err == nil
}

// areaToken parses a range operand holding a rectangular range.
func areaToken(t efp.Token) (Area, bool) {
	if !isRange(t) {
		return Area{}, false
	}
	area, err := ParseArea(t.TValue)
	return area, err == nil
}
