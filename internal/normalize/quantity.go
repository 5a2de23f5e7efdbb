package normalize

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/stellarlinkco/phys-eval/internal/mathtext"
)

var (
	unicodeSpaceRe = regexp.MustCompile(`[\s\x{00A0}\x{2009}\x{200B}]+`)
	unitWrapperRe  = regexp.MustCompile(`\\(?:mathrm|text)\{([^}]*)\}`)
	unitFracRe     = regexp.MustCompile(`\\frac\{([^}]*)\}\{([^}]*)\}`)
)

// NormalizePhysicalQuantity reduces a classified quantity string to the
// canonical "{number} {unit}" form: exponents are evaluated exactly (the sign
// binding looser than the power, so -10^{4} is -10000), wrapper commands and
// LaTeX fractions inside the unit are inlined, and the unit string is
// otherwise preserved verbatim. No unit-system conversion happens here; that
// is the comparator's job.
//
// The classifier has already validated the shape, so a parse failure here is
// an internal invariant violation; the orchestrator reacts by falling through
// to the text category.
func NormalizePhysicalQuantity(cleanMath string) (string, error) {
	s := unicodeSpaceRe.ReplaceAllString(cleanMath, " ")
	s = unitWrapperRe.ReplaceAllString(s, "$1")
	s = strings.TrimSpace(s)

	m := quantityRe.FindStringSubmatch(s)
	if m == nil {
		return "", fmt.Errorf("normalize: %q does not match the quantity pattern", cleanMath)
	}
	literal, bracedExp, bareExp, unit := m[1], m[2], m[3], m[4]

	value, ok := mathtext.ParseNumber(literal)
	if !ok {
		return "", fmt.Errorf("normalize: quantity literal %q did not parse", literal)
	}

	expStr := bracedExp
	if expStr == "" {
		expStr = bareExp
	}
	if expStr != "" {
		exp, err := strconv.ParseFloat(expStr, 64)
		if err != nil {
			return "", fmt.Errorf("normalize: quantity exponent %q: %w", expStr, err)
		}
		sign := 1.0
		if value < 0 {
			sign = -1
		}
		value = sign * math.Pow(math.Abs(value), exp)
	}

	unit = unitFracRe.ReplaceAllString(unit, "$1/$2")
	unit = unitWrapperRe.ReplaceAllString(unit, "$1")
	unit = strings.TrimSpace(unit)

	return mathtext.FormatNumber(value) + " " + unit, nil
}

// SplitQuantity parses a canonical "{number} {unit}" string back into parts.
// The numeric part follows the same literal rules as ParseNumber.
func SplitQuantity(s string) (value float64, unit string, ok bool) {
	s = strings.TrimSpace(s)
	numStr, unitStr, found := strings.Cut(s, " ")
	if !found {
		numStr = s
	}
	v, ok := mathtext.ParseNumber(numStr)
	if !ok {
		return 0, "", false
	}
	return v, strings.TrimSpace(unitStr), true
}
