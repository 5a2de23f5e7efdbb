package symbolic

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/Knetic/govaluate"

	"github.com/stellarlinkco/phys-eval/internal/mathtext"
)

// engineFunctions are the math functions available inside expressions.
var engineFunctions = map[string]govaluate.ExpressionFunction{
	"sqrt": unaryFn(math.Sqrt),
	"sin":  unaryFn(math.Sin),
	"cos":  unaryFn(math.Cos),
	"tan":  unaryFn(math.Tan),
	"log":  unaryFn(math.Log10),
	"ln":   unaryFn(math.Log),
	"exp":  unaryFn(math.Exp),
	"abs":  unaryFn(math.Abs),
}

// engineConstants are bound at evaluation time rather than parse time, so an
// answer using pi as a variable name still parses.
var engineConstants = map[string]float64{
	"pi": math.Pi,
	"e":  math.E,
}

func unaryFn(f func(float64) float64) govaluate.ExpressionFunction {
	return func(args ...interface{}) (interface{}, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("symbolic: function wants 1 argument, got %d", len(args))
		}
		v, err := toFloat(args[0])
		if err != nil {
			return nil, err
		}
		return f(v), nil
	}
}

func toFloat(v interface{}) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int64:
		return float64(x), nil
	default:
		return 0, fmt.Errorf("symbolic: non-numeric value %T", v)
	}
}

// Expr is a parsed expression (or the lhs-rhs form of an equation) ready for
// pointwise evaluation.
type Expr struct {
	expr *govaluate.EvaluableExpression
	vars []string
	text string
}

// Parse compiles an engine-syntax expression. Use TranslateLaTeX first for
// LaTeX input.
func Parse(s string) (*Expr, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errors.New("symbolic: empty expression")
	}
	ev, err := govaluate.NewEvaluableExpressionWithFunctions(s, engineFunctions)
	if err != nil {
		return nil, fmt.Errorf("symbolic: parse %q: %w", s, err)
	}

	seen := make(map[string]struct{})
	var vars []string
	for _, v := range ev.Vars() {
		if _, ok := engineConstants[v]; ok {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		vars = append(vars, v)
	}

	return &Expr{expr: ev, vars: vars, text: s}, nil
}

// ParseRelation compiles either a plain expression or a single equation
// "lhs = rhs", which is folded into the difference (lhs) - (rhs). Two
// equations are then equivalent when their difference forms agree everywhere.
func ParseRelation(s string) (*Expr, error) {
	lhs, rhs, isEq := SplitEquation(s)
	if isEq {
		return Parse("(" + lhs + ") - (" + rhs + ")")
	}
	return Parse(s)
}

// SplitEquation splits a single top-level "=" that is not part of a
// comparison operator. Multi-equation strings are left alone.
func SplitEquation(s string) (lhs, rhs string, ok bool) {
	if strings.Count(s, "=") != 1 {
		return "", "", false
	}
	idx := strings.Index(s, "=")
	if idx <= 0 || idx == len(s)-1 {
		return "", "", false
	}
	if s[idx-1] == '<' || s[idx-1] == '>' || s[idx-1] == '!' || s[idx+1] == '=' {
		return "", "", false
	}
	return strings.TrimSpace(s[:idx]), strings.TrimSpace(s[idx+1:]), true
}

// Vars returns the free variables of the expression, constants excluded.
func (e *Expr) Vars() []string {
	if e == nil {
		return nil
	}
	return e.vars
}

// EvalAt evaluates the expression with the given variable assignment.
func (e *Expr) EvalAt(assignment map[string]float64) (float64, error) {
	if e == nil || e.expr == nil {
		return 0, errors.New("symbolic: nil expression")
	}

	params := make(map[string]interface{}, len(assignment)+len(engineConstants))
	for name, v := range engineConstants {
		params[name] = v
	}
	for name, v := range assignment {
		params[name] = v
	}

	out, err := e.expr.Evaluate(params)
	if err != nil {
		return 0, fmt.Errorf("symbolic: eval %q: %w", e.text, err)
	}
	return toFloat(out)
}

// Canonical renders the canonical string form of a (possibly LaTeX) math
// string: translated into engine syntax with whitespace collapsed, each side
// of an equation handled independently. A translation the engine cannot
// re-parse is discarded and the whitespace-collapsed input is returned
// instead; this function never fails.
func Canonical(s string) string {
	if lhs, rhs, ok := SplitEquation(s); ok {
		l, errL := canonicalSide(lhs)
		r, errR := canonicalSide(rhs)
		if errL != nil || errR != nil {
			return mathtext.CollapseWhitespace(s)
		}
		return l + " = " + r
	}

	c, err := canonicalSide(s)
	if err != nil {
		return mathtext.CollapseWhitespace(s)
	}
	return c
}

// canonicalSide translates one equation side (or a whole expression) and
// verifies the engine accepts it before committing to the translated form.
func canonicalSide(s string) (string, error) {
	t := TranslateLaTeX(s)
	if _, err := Parse(t); err != nil {
		return "", err
	}
	return mathtext.CollapseWhitespace(t), nil
}
