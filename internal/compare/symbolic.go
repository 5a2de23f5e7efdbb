package compare

import (
	"context"

	"github.com/stellarlinkco/phys-eval/internal/answer"
	"github.com/stellarlinkco/phys-eval/internal/mathtext"
	"github.com/stellarlinkco/phys-eval/internal/symbolic"
)

// Symbolic compares equations and formulas for algebraic equivalence by
// re-parsing both canonical strings into the expression engine and testing
// their difference pointwise. When either side cannot be re-parsed the
// comparison degrades to exact equality of the canonical forms.
type Symbolic struct{}

// Name returns the comparator identifier.
func (Symbolic) Name() string {
	return "symbolic"
}

// Compare matches two equation/formula answers.
func (Symbolic) Compare(ctx context.Context, pred, ref answer.Answer) (*answer.Result, error) {
	details := map[string]any{
		"prediction": pred.Value,
		"reference":  ref.Value,
	}

	eq, err := symbolic.EquivalentStrings(pred.Value, ref.Value)
	if err == nil {
		if eq {
			return matched("symbolic_equivalence", details), nil
		}
		return notMatched("symbolic_equivalence", "expressions are not equivalent", details), nil
	}

	// Re-parse failed on at least one side: exact canonical string match.
	details["fallback"] = err.Error()
	if canonicalText(pred.Value) == canonicalText(ref.Value) {
		return matched("canonical_string", details), nil
	}
	return notMatched("canonical_string", "canonical forms differ", details), nil
}

func canonicalText(s string) string {
	return mathtext.CollapseWhitespace(s)
}
