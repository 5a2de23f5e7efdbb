package symbolic

import (
	"errors"
	"math"
)

const (
	// equivTolerance is the relative tolerance at each sample point.
	equivTolerance = 1e-9

	// minSamplePoints is how many points must evaluate cleanly on both sides
	// before a verdict is trusted. Fewer (because of domain errors such as
	// division by zero at a sample) means the test is inconclusive.
	minSamplePoints = 3
)

// sampleValues feed the deterministic assignments used for identity testing.
// Values avoid 0, 1, and each other's ratios so that distinct expressions
// rarely collide on every point.
var sampleValues = []float64{
	0.5379, 1.3417, 2.7133, -1.1189, 0.8731, -2.3907, 3.1119, -0.6247,
}

// Equivalent reports whether two expressions (or equation difference forms)
// agree at every usable sample point over the union of their variables. An
// error means the test was inconclusive, not that the expressions differ.
func Equivalent(a, b *Expr) (bool, error) {
	if a == nil || b == nil {
		return false, errors.New("symbolic: nil expression")
	}

	vars := unionVars(a.Vars(), b.Vars())
	trials := len(sampleValues)

	usable := 0
	for trial := 0; trial < trials; trial++ {
		assignment := make(map[string]float64, len(vars))
		for i, name := range vars {
			assignment[name] = sampleValues[(i+trial*3)%len(sampleValues)]
		}

		va, errA := a.EvalAt(assignment)
		vb, errB := b.EvalAt(assignment)
		if errA != nil || errB != nil {
			continue // domain error at this point, try the next one
		}
		if math.IsNaN(va) || math.IsNaN(vb) || math.IsInf(va, 0) || math.IsInf(vb, 0) {
			continue
		}

		usable++
		if !closeEnough(va, vb) {
			return false, nil
		}
	}

	if usable < minSamplePoints {
		return false, errors.New("symbolic: too few usable sample points")
	}
	return true, nil
}

// EquivalentStrings is the convenience form used by comparators: both inputs
// are translated, compiled as relations, and tested pointwise.
func EquivalentStrings(a, b string) (bool, error) {
	ea, err := ParseRelation(TranslateLaTeX(a))
	if err != nil {
		return false, err
	}
	eb, err := ParseRelation(TranslateLaTeX(b))
	if err != nil {
		return false, err
	}
	return Equivalent(ea, eb)
}

func unionVars(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, list := range [][]string{a, b} {
		for _, v := range list {
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	return out
}

func closeEnough(a, b float64) bool {
	diff := math.Abs(a - b)
	scale := math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
	return diff <= equivTolerance*scale
}
