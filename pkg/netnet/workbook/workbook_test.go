package workbook

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestSheetRoundTrip(t *testing.T) {
	wb := New()
	s, err := wb.NewSheet("acme_IS")
	require.NoError(t, err)

	day := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.SetCell(2, 3, Text("Acme Co")))
	require.NoError(t, s.SetCell(10, 4, Date(day)))
	require.NoError(t, s.SetCell(12, 4, Number(1500)))
	require.NoError(t, s.SetCell(13, 4, Formula("=D12*2")))
	require.NoError(t, s.SetCell(14, 4, Cell{Kind: KindBool, Bool: true}))

	path := filepath.Join(t.TempDir(), "book.xlsx")
	require.NoError(t, wb.SaveAs(path))
	require.NoError(t, wb.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	sheet, err := reopened.Sheet("acme_IS")
	require.NoError(t, err)

	assert.Equal(t, Text("Acme Co"), sheet.Cell(2, 3))
	assert.Equal(t, KindDate, sheet.Cell(10, 4).Kind)
	assert.Equal(t, "2024-03-31", sheet.Cell(10, 4).String())
	assert.Equal(t, Number(1500), sheet.Cell(12, 4))
	assert.Equal(t, Formula("=D12*2"), sheet.Cell(13, 4))
	assert.True(t, sheet.Cell(14, 4).Bool)
	assert.True(t, sheet.Cell(50, 50).IsEmpty())
}

func TestSetFormulaReplacesValue(t *testing.T) {
	wb := New()
	defer wb.Close()
	s, err := wb.Sheet("Sheet1")
	require.NoError(t, err)

	require.NoError(t, s.SetCell(1, 1, Number(3)))
	require.NoError(t, s.SetFormula(1, 2, "A1+1"))
	assert.Equal(t, "=A1+1", s.Cell(1, 2).Text)

	require.NoError(t, s.Clear(1, 2))
	assert.True(t, s.Cell(1, 2).IsEmpty())
}

func TestFormulaCells(t *testing.T) {
	wb := New()
	defer wb.Close()
	s, err := wb.Sheet("Sheet1")
	require.NoError(t, err)

	require.NoError(t, s.SetFormula(6, 4, "=D5-D4"))
	require.NoError(t, s.SetFormula(6, 5, "=E5-E4"))
	require.NoError(t, s.SetValue(5, 4, 10))

	got := s.FormulaCells()
	require.Len(t, got, 2)
	assert.Equal(t, FormulaCell{Row: 6, Col: 4, Formula: "=D5-D4"}, got[0])
	assert.Equal(t, FormulaCell{Row: 6, Col: 5, Formula: "=E5-E4"}, got[1])
}

func TestMaterializeFormulas(t *testing.T) {
	wb := New()
	defer wb.Close()
	s, err := wb.Sheet("Sheet1")
	require.NoError(t, err)

	shared, ref := excelize.STCellFormulaTypeShared, "D6:F6"
	require.NoError(t, wb.File().SetCellFormula("Sheet1", "D6", "D5-D4", excelize.FormulaOpts{Type: &shared, Ref: &ref}))
	assert.Equal(t, Formula("=E5-E4"), s.Cell(6, 5))

	got, err := s.MaterializeFormulas()
	require.NoError(t, err)
	assert.Equal(t, []FormulaCell{
		{Row: 6, Col: 4, Formula: "=D5-D4"},
		{Row: 6, Col: 5, Formula: "=E5-E4"},
		{Row: 6, Col: 6, Formula: "=F5-F4"},
	}, got)

	// editing the former master leaves the rest of the group intact
	require.NoError(t, s.SetFormula(6, 4, "=D5*2"))
	assert.Equal(t, Formula("=D5*2"), s.Cell(6, 4))
	assert.Equal(t, Formula("=E5-E4"), s.Cell(6, 5))
	assert.Equal(t, Formula("=F5-F4"), s.Cell(6, 6))
}

func TestOpenErrors(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.xlsx"))
	assert.ErrorIs(t, err, ErrFileNotFound)

	bogus := filepath.Join(t.TempDir(), "bogus.xlsx")
	require.NoError(t, os.WriteFile(bogus, []byte("not a zip"), 0o644))
	_, err = Open(bogus)
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestRenameSheet(t *testing.T) {
	wb := New()
	defer wb.Close()
	_, err := wb.NewSheet("acme_bs")
	require.NoError(t, err)

	assert.ErrorIs(t, wb.RenameSheet("nope", "x"), ErrSheetNotFound)
	assert.ErrorIs(t, wb.RenameSheet("acme_bs", "Sheet1"), ErrSheetExists)
	require.NoError(t, wb.RenameSheet("acme_bs", "acme2_bs"))
	assert.True(t, wb.HasSheet("acme2_bs"))
	assert.False(t, wb.HasSheet("acme_bs"))
}

func TestBackup(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "model.xlsx")
	require.NoError(t, os.WriteFile(src, []byte("payload"), 0o644))

	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	dst, err := Backup(src, "", now)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "model_backup_20250102_030405.xlsx"), dst)

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))

	other := filepath.Join(dir, "backups")
	dst, err = Backup(src, other, now)
	require.NoError(t, err)
	assert.Equal(t, other, filepath.Dir(dst))

	_, err = Backup(filepath.Join(dir, "missing.xlsx"), "", now)
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestIsDateFormat(t *testing.T) {
	custom := func(s string) *string { return &s }
	assert.True(t, isDateFormat(14, nil))
	assert.True(t, isDateFormat(22, nil))
	assert.False(t, isDateFormat(2, nil))
	assert.True(t, isDateFormat(0, custom("yyyy-mm-dd")))
	assert.True(t, isDateFormat(0, custom("[$-409]d-mmm")))
	assert.False(t, isDateFormat(0, custom("h:mm")))
	assert.False(t, isDateFormat(0, custom(`0.00"days"`)))
}
