package compare

import (
	"math"
	"strconv"
	"strings"
)

// relativeEpsilon guards float formatting noise after both operands have been
// rounded to the shared significant-figure precision.
const relativeEpsilon = 1e-9

// significantFigures infers the precision implied by a float's shortest
// decimal representation: 3.14 -> 3, 3.14159 -> 6, 0.00123 -> 3, 500 -> 3.
func significantFigures(x float64) int {
	if x == 0 {
		return 1
	}
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}

	s := strconv.FormatFloat(math.Abs(x), 'g', -1, 64)
	if i := strings.IndexAny(s, "eE"); i >= 0 {
		s = s[:i]
	}
	s = strings.Replace(s, ".", "", 1)
	s = strings.TrimLeft(s, "0")
	if s == "" {
		return 1
	}
	return len(s)
}

// roundToSigFigs rounds x to n significant figures.
func roundToSigFigs(x float64, n int) float64 {
	if n <= 0 || x == 0 || math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	magnitude := math.Floor(math.Log10(math.Abs(x)))
	factor := math.Pow(10, float64(n-1)-magnitude)
	return math.Round(x*factor) / factor
}

// numbersMatch compares two floats at significant-figure tolerance. With
// sigFigs <= 0 the precision is derived from the less precise operand, so
// 3.14 matches 3.14159 at the 3 figures 3.14 implies. NaN never matches
// anything, including another NaN; infinities match only with equal sign.
func numbersMatch(a, b float64, sigFigs int) bool {
	if math.IsNaN(a) || math.IsNaN(b) {
		return false
	}
	if math.IsInf(a, 0) || math.IsInf(b, 0) {
		return math.IsInf(a, 1) && math.IsInf(b, 1) ||
			math.IsInf(a, -1) && math.IsInf(b, -1)
	}
	if a == 0 && b == 0 {
		return true
	}

	n := sigFigs
	if n <= 0 {
		n = significantFigures(a)
		if m := significantFigures(b); m < n {
			n = m
		}
	}

	ra := roundToSigFigs(a, n)
	rb := roundToSigFigs(b, n)
	diff := math.Abs(ra - rb)
	scale := math.Max(1, math.Max(math.Abs(ra), math.Abs(rb)))
	return diff <= relativeEpsilon*scale
}
