package compare

import (
	"context"
	"errors"
	"fmt"

	"github.com/stellarlinkco/phys-eval/internal/answer"
	"github.com/stellarlinkco/phys-eval/internal/units"
)

// Numerical compares bare numbers and physical quantities. Bare numbers match
// within a significant-figure tolerance derived from the less precise literal.
// Quantities additionally require equal or table-convertible units; values in
// incompatible units never match, regardless of numeric equality.
type Numerical struct {
	// SigFigs overrides the derived precision when > 0.
	SigFigs int

	// Units resolves compatible-unit rescaling. Nil means only identical
	// unit strings are comparable.
	Units *units.Table
}

// Name returns the comparator identifier.
func (Numerical) Name() string {
	return "numerical"
}

// Compare matches two number or two physical-quantity answers.
func (n Numerical) Compare(ctx context.Context, pred, ref answer.Answer) (*answer.Result, error) {
	switch {
	case pred.Category == answer.Number && ref.Category == answer.Number:
		return n.compareBare(pred, ref), nil
	case pred.Category == answer.PhysicalQuantity && ref.Category == answer.PhysicalQuantity:
		return n.compareQuantity(pred, ref), nil
	default:
		return nil, fmt.Errorf("numerical: unsupported pair %s/%s", pred.Category, ref.Category)
	}
}

func (n Numerical) compareBare(pred, ref answer.Answer) *answer.Result {
	details := map[string]any{
		"prediction": pred.Number,
		"reference":  ref.Number,
	}
	if numbersMatch(pred.Number, ref.Number, n.SigFigs) {
		return matched("numeric_sigfig", details)
	}
	return notMatched("numeric_sigfig", "values differ beyond tolerance", details)
}

func (n Numerical) compareQuantity(pred, ref answer.Answer) *answer.Result {
	details := map[string]any{
		"prediction": pred.Value,
		"reference":  ref.Value,
	}

	predValue := pred.Number
	if pred.Unit != ref.Unit {
		if !n.Units.Compatible(pred.Unit, ref.Unit) {
			return notMatched("quantity_units",
				fmt.Sprintf("incompatible units %q and %q", pred.Unit, ref.Unit), details)
		}
		predValue, _ = n.Units.Convert(pred.Number, pred.Unit, ref.Unit)
		details["converted_prediction"] = predValue
	}

	if numbersMatch(predValue, ref.Number, n.SigFigs) {
		return matched("quantity_sigfig", details)
	}
	return notMatched("quantity_sigfig", "values differ beyond tolerance", details)
}

// Validate reports configuration defects. A nil table is allowed (identical
// units only); a negative significant-figure override is not.
func (n Numerical) Validate() error {
	if n.SigFigs < 0 {
		return errors.New("numerical: sig figs override must be >= 0")
	}
	return nil
}
