package formula

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRewriteColumn(t *testing.T) {
	tests := []struct {
		name    string
		formula string
		want    string
	}{
		{"bare", "=D5-D4", "=E5-E4"},
		{"sheet qualified", "=_xlfn.NUMBERVALUE(almedio_bs!D12)", "=_xlfn.NUMBERVALUE(almedio_bs!E12)"},
		{"quoted sheet", "='acme bs'!D12*2", "='acme bs'!E12*2"},
		{"absolute kept", "=D3*$C$3+$C$4*D4+D2", "=E3*$C$3+$C$4*E4+E2"},
		{"absolute column kept", "=$D3+$D$3", "=$D3+$D$3"},
		{"row anchored shifts", "=D$3*2", "=E$3*2"},
		{"range", "=AVERAGE(C7:D7)", "=AVERAGE(C7:E7)"},
		{"whole column", "=SUM(D:D)", "=SUM(E:E)"},
		{"whole column span", "=SUM(C:D)/acme_bs!D:D", "=SUM(C:E)/acme_bs!E:E"},
		{"whole column anchored", "=SUM($D:D)+COUNT($D:$D)", "=SUM($D:E)+COUNT($D:$D)"},
		{"other columns untouched", "=C5+DD5+AD5", "=C5+DD5+AD5"},
		{"string literal", `=IF(D5>0,"D5","x")`, `=IF(E5>0,"D5","x")`},
		{"function named like a ref", "=LOG10(D5)", "=LOG10(E5)"},
		{"sheet named like a ref", "=D1!D5", "=D1!E5"},
		{"no references", "=1+2", "=1+2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RewriteColumn(tt.formula, 4, 5))
		})
	}

	assert.Equal(t, "=AA5", RewriteColumn("=Z5", 26, 27))
	assert.Equal(t, "=D5", RewriteColumn("=D5", 4, 4))
}

func TestRewriteColumnOnlyTouchesSource(t *testing.T) {
	formulas := []string{
		"=D5-D4", "=C7*$C$3+E2", "=AVERAGE(B1:F1)", "=acme_IS!D20/acme_bs!D30", `="D4"&D4`,
	}
	for _, f := range formulas {
		shifted := RewriteColumn(f, 4, 5)
		for _, seg := range lex(shifted) {
			if seg.Kind != segWord {
				continue
			}
			m := cellRefPattern.FindStringSubmatch(seg.Text)
			if m != nil && m[1] == "" {
				assert.NotEqual(t, "D", m[2], "%s -> %s", f, shifted)
			}
		}
		assert.Equal(t, len(lex(f)), len(lex(shifted)), f)
	}
}

func TestRenameSheetRefs(t *testing.T) {
	tests := []struct {
		formula string
		want    string
		changed bool
	}{
		{"=acme_is!D5/acme_bs!D10", "=acme2_IS!D5/acme_bs!D10", true},
		{"='acme_is'!D5", "=acme2_IS!D5", true},
		{"=ACME_IS!D5:D7", "=acme2_IS!D5:D7", true},
		{"=xacme_is!D5", "=xacme_is!D5", false},
		{`="acme_is!D5"`, `="acme_is!D5"`, false},
		{"=D5", "=D5", false},
	}
	for _, tt := range tests {
		t.Run(tt.formula, func(t *testing.T) {
			got, changed := RenameSheetRefs(tt.formula, "acme_is", "acme2_IS")
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.changed, changed)
		})
	}

	got, changed := RenameSheetRefs("=acme_bs!D1", "acme_bs", "acme bs")
	assert.True(t, changed)
	assert.Equal(t, "='acme bs'!D1", got)
}
