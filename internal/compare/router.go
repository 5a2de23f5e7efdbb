package compare

import (
	"context"
	"fmt"

	"github.com/stellarlinkco/phys-eval/internal/answer"
	"github.com/stellarlinkco/phys-eval/internal/units"
)

// Config carries the explicit comparison policy. Nothing here is read from
// ambient state, which keeps batch evaluation parallel-safe by construction.
type Config struct {
	// SigFigs overrides the derived significant-figure tolerance when > 0.
	SigFigs int

	// Units is the compatible-unit conversion table. Nil means defaults.
	Units *units.Table

	// Similarity is the optional semantic collaborator for text pairs.
	Similarity SimilarityFunc

	// SimilarityThreshold is the minimum passing similarity score.
	SimilarityThreshold float64
}

// Router dispatches a prediction/reference pair to the comparator matching
// their comparison class. Differing classes are a structured non-match, never
// a silent coercion.
type Router struct {
	registry *Registry
}

// NewRouter validates the configuration, registers one comparator per family
// and builds a router. Configuration defects are the only errors this package
// propagates.
func NewRouter(cfg Config) (*Router, error) {
	table := cfg.Units
	if table == nil {
		var err error
		table, err = units.NewTable(nil)
		if err != nil {
			return nil, fmt.Errorf("compare: default unit table: %w", err)
		}
	}

	num := Numerical{SigFigs: cfg.SigFigs, Units: table}
	if err := num.Validate(); err != nil {
		return nil, fmt.Errorf("compare: %w", err)
	}

	reg := NewRegistry()
	reg.Register(num)
	reg.Register(Symbolic{})
	reg.Register(Textual{Similarity: cfg.Similarity, Threshold: cfg.SimilarityThreshold})
	reg.Register(Option{})

	return &Router{registry: reg}, nil
}

// Compare routes one normalized pair through the registry.
func (r *Router) Compare(ctx context.Context, pred, ref answer.Answer) (*answer.Result, error) {
	if r == nil || r.registry == nil {
		return nil, fmt.Errorf("compare: nil router")
	}

	predClass := pred.Category.ComparisonClass()
	refClass := ref.Category.ComparisonClass()
	if predClass != refClass {
		return notMatched("category_mismatch",
			fmt.Sprintf("category mismatch: prediction is %s, reference is %s",
				pred.Category, ref.Category),
			map[string]any{
				"prediction_category": string(pred.Category),
				"reference_category":  string(ref.Category),
			}), nil
	}

	c, ok := r.registry.Get(comparatorName(refClass))
	if !ok {
		return nil, fmt.Errorf("compare: no comparator registered for class %q", refClass)
	}
	return c.Compare(ctx, pred, ref)
}

// comparatorName maps a comparison class to its comparator. The mapping is
// exhaustive: a new category cannot be added without extending it.
func comparatorName(class answer.ComparisonClass) string {
	switch class {
	case answer.ClassNumerical, answer.ClassQuantity:
		return "numerical"
	case answer.ClassSymbolic:
		return "symbolic"
	case answer.ClassTextual:
		return "textual"
	case answer.ClassOption:
		return "option"
	default:
		return ""
	}
}
