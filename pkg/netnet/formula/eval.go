package formula

import (
	"strings"

	"github.com/ukaji3/netnet-go/pkg/netnet/workbook"
)

// Book is the read access the evaluator needs; *workbook.Workbook satisfies it.
type Book interface {
	SheetNames() []string
	CellAt(sheet string, row, col int) (workbook.Cell, error)
}

type cellKey struct {
	sheet    string
	row, col int
}

type evalResult struct {
	v  float64
	ok bool
}

// Evaluator computes numeric cell values, evaluating supported formulas on
// demand. Results are memoized per cell for the lifetime of the evaluator; a
// cell reached again while it is being evaluated resolves as unresolved.
// An Evaluator is not safe for concurrent use.
type Evaluator struct {
	book       Book
	classifier *Classifier
	memo       map[cellKey]evalResult
	active     map[cellKey]bool
	sheets     map[string]string
}

// EvaluatorOption configures an Evaluator.
type EvaluatorOption func(*Evaluator)

// WithClassifier replaces the default formula shapes.
func WithClassifier(c *Classifier) EvaluatorOption {
	return func(e *Evaluator) { e.classifier = c }
}

// NewEvaluator returns an evaluator reading from book.
func NewEvaluator(book Book, opts ...EvaluatorOption) *Evaluator {
	e := &Evaluator{
		book:       book,
		classifier: DefaultClassifier(),
		memo:       make(map[cellKey]evalResult),
		active:     make(map[cellKey]bool),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate returns the numeric value of a cell. Plain values go through
// workbook.ParseValue; formulas are classified and evaluated. Empty cells,
// unsupported formulas, missing sheets and cycles are unresolved.
func (e *Evaluator) Evaluate(sheet string, row, col int) (float64, bool) {
	name, ok := e.sheetName(sheet)
	if !ok {
		return 0, false
	}
	key := cellKey{sheet: name, row: row, col: col}
	if r, ok := e.memo[key]; ok {
		return r.v, r.ok
	}
	if e.active[key] {
		return 0, false
	}
	e.active[key] = true
	v, ok := e.evaluate(name, row, col)
	delete(e.active, key)
	e.memo[key] = evalResult{v: v, ok: ok}
	return v, ok
}

func (e *Evaluator) evaluate(sheet string, row, col int) (float64, bool) {
	c, err := e.book.CellAt(sheet, row, col)
	if err != nil || c.IsEmpty() {
		return 0, false
	}
	if !c.IsFormula() {
		return workbook.ParseValue(c)
	}
	expr := e.classifier.Classify(c.Text)
	if expr == nil {
		return 0, false
	}
	return expr.Eval(e, sheet)
}

// Resolve evaluates ref, defaulting its sheet to currentSheet.
func (e *Evaluator) Resolve(ref Ref, currentSheet string) (float64, bool) {
	sheet := ref.Sheet
	if sheet == "" {
		sheet = currentSheet
	}
	return e.Evaluate(sheet, ref.Row, ref.Col)
}

// ResolveReference evaluates a textual reference such as "D5" or
// "'acme bs'!D12" from currentSheet.
func (e *Evaluator) ResolveReference(ref, currentSheet string) (float64, bool) {
	r, err := ParseRef(strings.TrimSpace(ref))
	if err != nil {
		return 0, false
	}
	return e.Resolve(r, currentSheet)
}

// Reset drops memoized values, e.g. after the workbook changed.
func (e *Evaluator) Reset() {
	clear(e.memo)
	e.sheets = nil
}

// sheetName maps a referenced sheet name to the workbook's spelling; sheet
// names are case-insensitive in formulas.
func (e *Evaluator) sheetName(name string) (string, bool) {
	if e.sheets == nil {
		e.sheets = make(map[string]string)
		for _, s := range e.book.SheetNames() {
			e.sheets[strings.ToLower(s)] = s
		}
	}
	s, ok := e.sheets[strings.ToLower(name)]
	return s, ok
}
