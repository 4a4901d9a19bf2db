package workbook

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseValue(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  float64
		ok    bool
	}{
		{"nil", nil, 0, false},
		{"float", 42.5, 42.5, true},
		{"int", 7, 7, true},
		{"plain string", "100", 100, true},
		{"percent", "12.5%", 0.125, true},
		{"thousands", "1,234", 1234, true},
		{"padded", "  3.5 ", 3.5, true},
		{"negative percent", "-50%", -0.5, true},
		{"dash sentinel", "-", 0, false},
		{"na sentinel", "NA", 0, false},
		{"empty", "", 0, false},
		{"text", "Revenue", 0, false},
		{"bare percent", "%", 0, false},
		{"number cell", Number(9), 9, true},
		{"numeric text cell", Text("2,000"), 2000, true},
		{"formula cell", Formula("=A1"), 0, false},
		{"unsupported type", struct{}{}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseValue(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.want, got, 1e-12)
			}
		})
	}
}

func TestCellString(t *testing.T) {
	assert.Equal(t, "1500", Number(1500).String())
	assert.Equal(t, "0.25", Number(0.25).String())
	assert.Equal(t, "Cash", Text("  Cash ").String())
	assert.Equal(t, "=D5-D4", Formula("D5-D4").String())
	assert.Equal(t, "2024-03-31", Date(time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)).String())
	assert.Equal(t, "2024-03-31 12:30:00", Date(time.Date(2024, 3, 31, 12, 30, 0, 0, time.UTC)).String())
	assert.Equal(t, "", Cell{}.String())
}

func TestCellIsEmpty(t *testing.T) {
	assert.True(t, Cell{}.IsEmpty())
	assert.True(t, Text("   ").IsEmpty())
	assert.False(t, Number(0).IsEmpty())
	assert.False(t, Formula("=A1").IsEmpty())
}
