package formula

import (
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/xuri/efp"
)

// programs caches compiled arithmetic by source text.
var programs = struct {
	sync.Mutex
	m map[string]*vm.Program
}{m: make(map[string]*vm.Program)}

// refVar names the i-th reference of an arithmetic source.
func refVar(i int) string {
	return "r" + strconv.Itoa(i)
}

// arithExpr is a formula of references, numbers and infix math operators,
// translated to an expr source where reference i reads as variable r<i>.
type arithExpr struct {
	src  string
	refs []Ref
}

// newArith translates tokens into an arithExpr. Only range operands holding a
// single cell, numbers and + - * / are accepted.
func newArith(tokens []efp.Token) (arithExpr, bool) {
	var (
		parts []string
		refs  []Ref
	)
	for _, t := range tokens {
		if ref, ok := refToken(t); ok {
			parts = append(parts, refVar(len(refs)))
			refs = append(refs, ref)
			continue
		}
		if k, ok := isNumber(t); ok {
			parts = append(parts, strconv.FormatFloat(k, 'g', -1, 64))
			continue
		}
		if isOperator(t, "+-*/") {
			parts = append(parts, t.TValue)
			continue
		}
		return arithExpr{}, false
	}
	if len(refs) == 0 {
		return arithExpr{}, false
	}
	return arithExpr{src: strings.Join(parts, " "), refs: refs}, true
}

func (e arithExpr) Eval(r Resolver, sheet string) (float64, bool) {
	env := make(map[string]any, len(e.refs))
	for i, ref := range e.refs {
		v, ok := r.Resolve(ref, sheet)
		if !ok {
			return 0, false
		}
		env[refVar(i)] = v
	}
	return compute(e.src, env)
}

func program(src string, env map[string]any) (*vm.Program, error) {
	programs.Lock()
	defer programs.Unlock()
	if p, ok := programs.m[src]; ok {
		return p, nil
	}
	p, err := expr.Compile(src, expr.Env(env), expr.AsFloat64())
	if err != nil {
		return nil, err
	}
	programs.m[src] = p
	return p, nil
}

// compute runs src against env. Non-finite results, such as a division by
// zero, are unresolved.
func compute(src string, env map[string]any) (float64, bool) {
	p, err := program(src, env)
	if err != nil {
		return 0, false
	}
	out, err := expr.Run(p, env)
	if err != nil {
		return 0, false
	}
	v, ok := out.(float64)
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
