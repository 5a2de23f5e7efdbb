// Package normalize turns raw, possibly LaTeX-decorated answer strings into
// typed, canonical answers. Every input terminates in some category; parse
// failures fall through to weaker categories and never reach the caller.
package normalize

import (
	"regexp"

	"github.com/stellarlinkco/phys-eval/internal/answer"
)

// quantityRe matches a complete physical-quantity literal: numeric literal,
// optional exponent (**n, ^n, or ^{n}), then one trailing unit token made of
// letters, unit symbols, braces, and slashes. Anything else present anywhere
// disqualifies the match.
var quantityRe = regexp.MustCompile(
	`^\s*(-?\d+(?:\.\d+)?(?:/\d+)?)\s*` +
		`(?:(?:\*\*|\^)\s*(?:\{(-?\d+)\}|(-?\d+)))?\s*` +
		`([\\A-Za-zµΩ°%][\\A-Za-z0-9µΩ°%{}/^*.·\-]*)\s*$`)

// Classify decides the expression category of stripped math content. The
// priority order is load-bearing: an equation containing a unit-like tail
// (such as "F = ma") must classify as an equation because "=" wins first, and
// a full-string quantity match beats formula even when the unit token carries
// symbolic-looking characters.
func Classify(cleanMath string) answer.Category {
	if hasTopLevelEquals(cleanMath) {
		return answer.Equation
	}
	if quantityRe.MatchString(cleanMath) {
		return answer.PhysicalQuantity
	}
	return answer.Formula
}

// hasTopLevelEquals reports an "=" outside any brace group.
func hasTopLevelEquals(s string) bool {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			if depth > 0 {
				depth--
			}
		case '=':
			if depth == 0 {
				return true
			}
		}
	}
	return false
}
