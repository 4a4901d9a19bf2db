package parser

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	// IncomeSuffix marks the raw income statement sheet.
	IncomeSuffix = "_IS"
	// BalanceSuffix marks the raw balance sheet.
	BalanceSuffix = "_bs"
)

// ErrDataSheetsNotFound indicates the workbook lacks an "_IS" or "_bs" sheet.
var ErrDataSheetsNotFound = errors.New("data sheets not found")

// FindDataSheets returns the names ending in "_IS" and "_bs", matched case
// sensitively. When several match, the last one wins.
func FindDataSheets(names []string) (income, balance string) {
	for _, name := range names {
		switch {
		case strings.HasSuffix(name, IncomeSuffix):
			income = name
		case strings.HasSuffix(name, BalanceSuffix):
			balance = name
		}
	}
	return income, balance
}

// FindDataSheetsFold is FindDataSheets ignoring case, for workbooks whose
// sheets drifted from the convention.
func FindDataSheetsFold(names []string) (income, balance string) {
	is, bs := strings.ToLower(IncomeSuffix), strings.ToLower(BalanceSuffix)
	for _, name := range names {
		lower := strings.ToLower(name)
		switch {
		case strings.HasSuffix(lower, is):
			income = name
		case strings.HasSuffix(lower, bs):
			balance = name
		}
	}
	return income, balance
}

// LocateDataSheets applies the strict convention first and fills whatever is
// still missing from the case-insensitive one.
func LocateDataSheets(names []string) (income, balance string) {
	income, balance = FindDataSheets(names)
	if income != "" && balance != "" {
		return income, balance
	}
	foldIS, foldBS := FindDataSheetsFold(names)
	if income == "" && foldIS != balance {
		income = foldIS
	}
	if balance == "" && foldBS != income {
		balance = foldBS
	}
	return income, balance
}

// RequireDataSheets is LocateDataSheets failing when either sheet is missing.
func RequireDataSheets(names []string) (income, balance string, err error) {
	income, balance = LocateDataSheets(names)
	var missing []string
	if income == "" {
		missing = append(missing, "*"+IncomeSuffix)
	}
	if balance == "" {
		missing = append(missing, "*"+BalanceSuffix)
	}
	if len(missing) > 0 {
		return income, balance, fmt.Errorf("%w: no %s sheet", ErrDataSheetsNotFound, strings.Join(missing, " or "))
	}
	return income, balance, nil
}

// SheetNamePrefix returns the part of a data sheet name before its suffix.
func SheetNamePrefix(name string) string {
	if i := strings.LastIndex(name, "_"); i > 0 {
		return name[:i]
	}
	return name
}

// DataSheetNames returns the canonical sheet names for prefix.
func DataSheetNames(prefix string) (income, balance string) {
	return prefix + IncomeSuffix, prefix + BalanceSuffix
}

var (
	legalSuffixes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\s+Co\b\.?,?\s*Ltd\b\.?`),
		regexp.MustCompile(`(?i)\s+Inc\b\.?`),
		regexp.MustCompile(`(?i)\s+Corp\b\.?`),
		regexp.MustCompile(`(?i)\s+Corporation\b`),
		regexp.MustCompile(`(?i)\s+SA\b`),
		regexp.MustCompile(`(?i)\s+AG\b`),
		regexp.MustCompile(`(?i)\s+PLC\b`),
		regexp.MustCompile(`(?i)\s+Ltd\b\.?`),
		regexp.MustCompile(`(?i)\s+Limited\b`),
		regexp.MustCompile(`(?i)\s+Mfg\b`),
		regexp.MustCompile(`(?i)\s+Manufacturing\b`),
	}
	nonWord    = regexp.MustCompile(`[^\p{L}\p{N}_\s-]`)
	whitespace = regexp.MustCompile(`\s+`)
)

// SheetPrefix turns a company name into a sheet name prefix: legal suffixes
// such as "Co., Ltd." or "Inc." are dropped, then punctuation and whitespace,
// and the rest is lower-cased. "Acme Co., Ltd." becomes "acme".
func SheetPrefix(company string) string {
	name := company
	for _, re := range legalSuffixes {
		name = re.ReplaceAllString(name, "")
	}
	name = nonWord.ReplaceAllString(name, "")
	name = whitespace.ReplaceAllString(name, "")
	return cases.Lower(language.Und).String(name)
}
