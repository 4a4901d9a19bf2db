package updater

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukaji3/netnet-go/pkg/netnet/formula"
	"github.com/ukaji3/netnet-go/pkg/netnet/workbook"
)

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"income only", Options{Workbook: "a.xlsx", IncomeExport: "is.xlsx"}, false},
		{"balance only", Options{Workbook: "a.xlsx", BalanceExport: "bs.xlsx"}, false},
		{"replace", Options{Workbook: "a.xlsx", IncomeExport: "is.xlsx", Mode: ModeReplace}, false},
		{"no workbook", Options{IncomeExport: "is.xlsx"}, true},
		{"no export", Options{Workbook: "a.xlsx"}, true},
		{"unknown mode", Options{Workbook: "a.xlsx", IncomeExport: "is.xlsx", Mode: "upsert"}, true},
		{"extend in replace mode", Options{Workbook: "a.xlsx", IncomeExport: "is.xlsx", Mode: ModeReplace, ExtendPeriods: true}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := tt.opts
			err := opts.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidOptions)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, opts.Mode)
		})
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{Workbook: "a.xlsx", IncomeExport: "is.xlsx"}
	require.NoError(t, opts.Validate())
	assert.Equal(t, ModeMerge, opts.Mode)
	assert.True(t, opts.ShouldSyncDependents())

	off := false
	opts.SyncDependents = &off
	assert.False(t, opts.ShouldSyncDependents())
}

func TestRatioRowFormula(t *testing.T) {
	rows := DefaultRatioRows()
	require.Len(t, rows, 2)
	assert.Equal(t, `=IFERROR(Overview!$C$6/F34,"NA")`, rows[0].Formula(6))
	assert.Equal(t, "=Overview!$C$6*F20", rows[1].Formula(6))
	assert.Equal(t, "=Overview!$C$6*AA20", rows[1].Formula(27))
}

func TestDependentColumns(t *testing.T) {
	wb := workbook.New()
	defer wb.Close()
	sheet, err := wb.NewSheet("ncav")
	require.NoError(t, err)
	for col := 4; col <= 6; col++ {
		letter := formula.ColumnLetter(col)
		require.NoError(t, sheet.SetFormula(6, col, "="+letter+"5-"+letter+"4"))
	}
	require.NoError(t, sheet.SetFormula(7, 6, "=SUM($D$5:F5)"))

	dep := Dependent{Sheet: "ncav", HeaderRow: 1, StartCol: 4, MaxRow: 30}
	assert.Equal(t, 6, dep.lastFormulaColumn(sheet, 99))

	n, err := dep.cloneColumn(sheet, 6, 7, true)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.True(t, sheet.Cell(6, 7).IsEmpty(), "dry run writes nothing")

	n, err = dep.cloneColumn(sheet, 6, 7, false)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, workbook.Formula("=G5-G4"), sheet.Cell(6, 7))
	assert.Equal(t, workbook.Formula("=SUM($D$5:G5)"), sheet.Cell(7, 7))

	empty := Dependent{Sheet: "ncav", HeaderRow: 1, StartCol: 20, MaxRow: 30}
	assert.Equal(t, 19, empty.lastFormulaColumn(sheet, 99))
}
