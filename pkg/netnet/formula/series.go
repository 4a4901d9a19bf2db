package formula

import "math"

// Point is one resolved value of a row series.
type Point struct {
	Col   int     `json:"col"`
	Value float64 `json:"value"`
}

// maxSeriesGap is the number of consecutive unresolved cells ending a series.
const maxSeriesGap = 3

// DefaultSeriesColumns is the usual column window of RowSeries.
const DefaultSeriesColumns = 45

// RowSeries evaluates row from startCol over at most maxCols columns and
// returns the resolved values in column order. Once a value has been found,
// three consecutive unresolved cells end the scan.
func (e *Evaluator) RowSeries(sheet string, row, startCol, maxCols int) []Point {
	var series []Point
	gap := 0
	for col := startCol; col < startCol+maxCols; col++ {
		if v, ok := e.Evaluate(sheet, row, col); ok {
			series = append(series, Point{Col: col, Value: v})
			gap = 0
			continue
		}
		gap++
		if gap >= maxSeriesGap && len(series) > 0 {
			break
		}
	}
	return series
}

// LatestValue returns the last value of series.
func LatestValue(series []Point) (float64, bool) {
	if len(series) == 0 {
		return 0, false
	}
	return series[len(series)-1].Value, true
}

// LatestN returns the last n values of series, oldest first.
func LatestN(series []Point, n int) ([]float64, bool) {
	if n <= 0 || len(series) < n {
		return nil, false
	}
	out := make([]float64, 0, n)
	for _, p := range series[len(series)-n:] {
		out = append(out, p.Value)
	}
	return out, true
}

// Frequency is the reporting cadence of a series.
type Frequency int

const (
	// Quarterly data changes every period.
	Quarterly Frequency = iota
	// SemiAnnual data repeats each value over two quarterly columns.
	SemiAnnual
)

func (f Frequency) String() string {
	if f == SemiAnnual {
		return "semi-annual"
	}
	return "quarterly"
}

// YoYStep is the number of periods spanning one year.
func (f Frequency) YoYStep() int {
	if f == SemiAnnual {
		return 2
	}
	return 4
}

const sameValueTolerance = 1e-4

// DetectFrequency tells semi-annual data, reported as pairs of repeated
// quarterly values, from quarterly data. It looks at consecutive pairs of the
// last eight values; fewer than four values count as quarterly.
func DetectFrequency(series []Point) Frequency {
	if len(series) < 4 {
		return Quarterly
	}
	recent := series
	if len(recent) > 8 {
		recent = recent[len(recent)-8:]
	}
	same, differ := 0, 0
	for i := 0; i+1 < len(recent); i += 2 {
		if samePeriodValue(recent[i].Value, recent[i+1].Value) {
			same++
		} else {
			differ++
		}
	}
	if same > differ {
		return SemiAnnual
	}
	return Quarterly
}

func samePeriodValue(a, b float64) bool {
	if math.Abs(a) > sameValueTolerance {
		return math.Abs(a-b)/math.Abs(a) < sameValueTolerance
	}
	return math.Abs(b) < sameValueTolerance
}

// YearOverYear returns the latest value and the value one year earlier, using
// the detected frequency to find the earlier period.
func YearOverYear(series []Point) (latest, prior float64, ok bool) {
	step := DetectFrequency(series).YoYStep()
	if len(series) <= step {
		return 0, 0, false
	}
	return series[len(series)-1].Value, series[len(series)-1-step].Value, true
}
