package formula

import "github.com/xuri/efp"

// Resolver yields the numeric value of a referenced cell.
type Resolver interface {
	Resolve(ref Ref, currentSheet string) (float64, bool)
}

// Expr is a classified formula ready to evaluate.
type Expr interface {
	Eval(r Resolver, currentSheet string) (float64, bool)
}

// Recognizer matches one formula shape.
type Recognizer func(tokens []efp.Token) (Expr, bool)

// Classifier maps formulas to the first matching shape, in registration order.
// It is not safe for concurrent use.
type Classifier struct {
	recognizers []Recognizer
	cache       map[string]Expr
}

// NewClassifier returns a classifier trying rs in order.
func NewClassifier(rs ...Recognizer) *Classifier {
	return &Classifier{recognizers: rs, cache: make(map[string]Expr)}
}

// DefaultClassifier recognizes, in priority order: NUMBERVALUE(ref), a single
// reference, ref*const, ref*const/ref, ref op ref and AVERAGE(range).
func DefaultClassifier() *Classifier {
	return NewClassifier(
		recognizeNumberValue,
		recognizeReference,
		recognizeScaled,
		recognizeScaledRatio,
		recognizeBinary,
		recognizeAverage,
	)
}

// Register appends a shape with the lowest priority.
func (c *Classifier) Register(r Recognizer) {
	c.recognizers = append(c.recognizers, r)
	clear(c.cache)
}

// Classify returns the expression for formula, or nil when no shape matches.
func (c *Classifier) Classify(formula string) Expr {
	if e, ok := c.cache[formula]; ok {
		return e
	}
	tokens := Tokenize(formula)
	var found Expr
	for _, r := range c.recognizers {
		if e, ok := r(tokens); ok {
			found = e
			break
		}
	}
	c.cache[formula] = found
	return found
}

type refExpr struct{ ref Ref }

func (e refExpr) Eval(r Resolver, sheet string) (float64, bool) {
	return r.Resolve(e.ref, sheet)
}

type averageExpr struct{ area Area }

func (e averageExpr) Eval(r Resolver, sheet string) (float64, bool) {
	var sum float64
	n := 0
	for _, ref := range e.area.Refs() {
		if v, ok := r.Resolve(ref, sheet); ok {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

func recognizeNumberValue(t []efp.Token) (Expr, bool) {
	if len(t) != 3 || !isFunctionStop(t[2]) {
		return nil, false
	}
	if name, ok := functionName(t[0]); !ok || name != "NUMBERVALUE" {
		return nil, false
	}
	ref, ok := refToken(t[1])
	if !ok {
		return nil, false
	}
	return refExpr{ref: ref}, true
}

func recognizeReference(t []efp.Token) (Expr, bool) {
	if len(t) != 1 {
		return nil, false
	}
	ref, ok := refToken(t[0])
	if !ok {
		return nil, false
	}
	return refExpr{ref: ref}, true
}

func recognizeScaled(t []efp.Token) (Expr, bool) {
	if len(t) != 3 || !isOperator(t[1], "*") {
		return nil, false
	}
	if _, ok := isNumber(t[2]); !ok {
		return nil, false
	}
	return arith(t)
}

func recognizeScaledRatio(t []efp.Token) (Expr, bool) {
	if len(t) != 5 || !isOperator(t[1], "*") || !isOperator(t[3], "/") {
		return nil, false
	}
	if _, ok := isNumber(t[2]); !ok {
		return nil, false
	}
	if _, ok := refToken(t[4]); !ok {
		return nil, false
	}
	return arith(t)
}

func recognizeBinary(t []efp.Token) (Expr, bool) {
	if len(t) != 3 || !isOperator(t[1], "+-*/") {
		return nil, false
	}
	if _, ok := refToken(t[2]); !ok {
		return nil, false
	}
	return arith(t)
}

// arith builds the expression of a recognized arithmetic shape. The first
// token of every such shape is a reference.
func arith(t []efp.Token) (Expr, bool) {
	if _, ok := refToken(t[0]); !ok {
		return nil, false
	}
	e, ok := newArith(t)
	if !ok {
		return nil, false
	}
	return e, true
}

func recognizeAverage(t []efp.Token) (Expr, bool) {
	if len(t) != 3 || !isFunctionStop(t[2]) {
		return nil, false
	}
	if name, ok := functionName(t[0]); !ok || name != "AVERAGE" {
		return nil, false
	}
	area, ok := areaToken(t[1])
	if !ok {
		return nil, false
	}
	return averageExpr{area: area}, true
}
