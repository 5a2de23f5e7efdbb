// Package compare implements the per-category comparators and the router that
// dispatches a prediction/reference pair to the right one. Comparators are
// pure and share no state; configuration (unit table, significant-figure
// policy, similarity collaborator) is passed in explicitly so batches can run
// in parallel without locking.
package compare

import (
	"context"
	"strings"

	"github.com/stellarlinkco/phys-eval/internal/answer"
)

// Comparator compares two already-normalized answers of one comparison class.
//
// A returned error indicates a setup defect or collaborator failure, never a
// data-quality problem: malformed answers produce structured non-matches.
type Comparator interface {
	Name() string
	Compare(ctx context.Context, pred, ref answer.Answer) (*answer.Result, error)
}

// SimilarityFunc scores the semantic similarity of two texts in [0, 1]. This
// is the pipeline's only potentially slow call; implementations may sit on a
// network and callers may time it out or cache it independently.
type SimilarityFunc func(ctx context.Context, prediction, reference string) (float64, error)

// Registry stores comparators by name.
type Registry struct {
	comparators map[string]Comparator
}

// NewRegistry creates an empty comparator registry.
func NewRegistry() *Registry {
	return &Registry{comparators: make(map[string]Comparator)}
}

// Register adds a comparator to the registry.
func (r *Registry) Register(c Comparator) {
	if r == nil || c == nil {
		return
	}
	name := strings.TrimSpace(c.Name())
	if name == "" {
		return
	}
	if r.comparators == nil {
		r.comparators = make(map[string]Comparator)
	}
	r.comparators[name] = c
}

// Get returns a named comparator if present.
func (r *Registry) Get(name string) (Comparator, bool) {
	if r == nil || r.comparators == nil {
		return nil, false
	}
	c, ok := r.comparators[strings.TrimSpace(name)]
	return c, ok
}

func matched(method string, details map[string]any) *answer.Result {
	return &answer.Result{Matched: true, Confidence: 1.0, Method: method, Details: details}
}

func notMatched(method, reason string, details map[string]any) *answer.Result {
	return &answer.Result{Matched: false, Method: method, Reason: reason, Details: details}
}
