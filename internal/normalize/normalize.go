package normalize

import (
	"github.com/stellarlinkco/phys-eval/internal/answer"
	"github.com/stellarlinkco/phys-eval/internal/mathtext"
	"github.com/stellarlinkco/phys-eval/internal/symbolic"
)

// Normalize classifies a raw answer string and reduces it to canonical form.
//
// The state machine runs each input exactly once, with no backtracking:
//
//  1. number attempt — the extracted content parses as a numeric literal
//  2. gate — strings without a leading math opener become text
//  3. expression — classify into equation / physical_quantity / formula and
//     normalize per category; any failure inside this state terminates in
//     text with the best-effort stripped content
//
// Normalize never panics and never returns an error: predictions come from an
// untrusted model, so every malformed input must land in some category.
func Normalize(raw string) (out answer.Answer) {
	clean, hadLaTeX := mathtext.ExtractMathContent(raw)

	defer func() {
		if r := recover(); r != nil {
			out = answer.NewString(answer.Text, mathtext.CollapseWhitespace(clean))
		}
	}()

	if v, ok := mathtext.ParseNumber(clean); ok {
		return answer.NewNumber(v)
	}

	if !mathtext.LooksLikeExpression(raw) {
		return answer.NewString(answer.Text, mathtext.CollapseWhitespace(clean))
	}

	switch Classify(clean) {
	case answer.Equation:
		return answer.NewString(answer.Equation, NormalizeSymbolic(clean, hadLaTeX))
	case answer.PhysicalQuantity:
		canonical, err := NormalizePhysicalQuantity(clean)
		if err != nil {
			// Invariant violation: classification validated the shape.
			return answer.NewString(answer.Text, mathtext.CollapseWhitespace(clean))
		}
		num, unit, ok := SplitQuantity(canonical)
		if !ok {
			return answer.NewString(answer.Text, mathtext.CollapseWhitespace(clean))
		}
		return answer.NewQuantity(canonical, num, unit)
	default:
		return answer.NewString(answer.Formula, NormalizeSymbolic(clean, hadLaTeX))
	}
}

// NormalizeSymbolic renders the canonical symbolic form of stripped math
// content. With LaTeX markup present the string goes through
// symbolic.Canonical; without markup there is nothing LaTeX-specific to
// normalize and the content is only whitespace-collapsed. This function is
// the last line of defense before the orchestrator's text fallback and never
// fails.
func NormalizeSymbolic(cleanMath string, hadLaTeX bool) string {
	if !hadLaTeX {
		return mathtext.CollapseWhitespace(cleanMath)
	}
	return symbolic.Canonical(cleanMath)
}

// FromDeclared builds an answer for a pre-declared category without running
// the orchestrator, used when datasets carry explicit category labels.
func FromDeclared(raw string, cat answer.Category, unitHint string) answer.Answer {
	switch cat {
	case answer.Number:
		if v, ok := mathtext.ParseNumber(raw); ok {
			return answer.NewNumber(v)
		}
		return Normalize(raw)
	case answer.PhysicalQuantity:
		clean, _ := mathtext.ExtractMathContent(raw)
		if canonical, err := NormalizePhysicalQuantity(clean); err == nil {
			if num, unit, ok := SplitQuantity(canonical); ok {
				return answer.NewQuantity(canonical, num, unit)
			}
		}
		if v, ok := mathtext.ParseNumber(clean); ok && unitHint != "" {
			return answer.NewQuantity(mathtext.FormatNumber(v)+" "+unitHint, v, unitHint)
		}
		return Normalize(raw)
	case answer.Equation, answer.Formula:
		clean, hadLaTeX := mathtext.ExtractMathContent(raw)
		return answer.NewString(cat, NormalizeSymbolic(clean, hadLaTeX))
	case answer.Option:
		return answer.NewString(answer.Option, mathtext.CollapseWhitespace(raw))
	case answer.Text:
		clean, _ := mathtext.ExtractMathContent(raw)
		return answer.NewString(answer.Text, mathtext.CollapseWhitespace(clean))
	default:
		return Normalize(raw)
	}
}
