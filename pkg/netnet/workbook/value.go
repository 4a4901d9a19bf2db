package workbook

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseValue converts raw stored cell content into a number.
// It reports false for empty content, the "NA" and "-" sentinels, and anything
// that does not parse. Strings may carry a percent sign, thousands separators
// and surrounding whitespace; a percent sign divides the result by 100.
func ParseValue(raw any) (float64, bool) {
	switch v := raw.(type) {
	case nil:
		return 0, false
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case int32:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint64:
		return float64(v), true
	case uint32:
		return float64(v), true
	case string:
		return parseString(v)
	case Cell:
		return v.Float()
	}
	return 0, false
}

func parseString(s string) (float64, bool) {
	if s == "" || s == "NA" || s == "-" {
		return 0, false
	}
	cleaned := strings.ReplaceAll(s, "%", "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return 0, false
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0, false
	}
	if strings.Contains(s, "%") {
		d = d.Shift(-2)
	}
	f, _ := d.Float64()
	return f, true
}
