package compare

import (
	"context"
	"fmt"
	"strings"

	"github.com/stellarlinkco/phys-eval/internal/answer"
	"github.com/stellarlinkco/phys-eval/internal/mathtext"
)

const defaultSimilarityThreshold = 0.8

// Textual compares free-text answers. A normalized exact match decides first;
// on a miss the optional similarity collaborator grades the pair and the
// score is reported alongside the verdict.
type Textual struct {
	// Similarity is the optional semantic collaborator. Nil disables the
	// graded path and leaves exact matching only.
	Similarity SimilarityFunc

	// Threshold is the minimum similarity score that counts as a match.
	// Zero means the default of 0.8.
	Threshold float64
}

// Name returns the comparator identifier.
func (Textual) Name() string {
	return "textual"
}

// Compare matches two text answers.
func (t Textual) Compare(ctx context.Context, pred, ref answer.Answer) (*answer.Result, error) {
	p := foldText(pred.Value)
	r := foldText(ref.Value)
	details := map[string]any{
		"prediction": p,
		"reference":  r,
	}

	if p == r {
		return matched("text_exact", details), nil
	}

	if t.Similarity == nil {
		return notMatched("text_exact", "texts differ", details), nil
	}

	score, err := t.Similarity(ctx, pred.Value, ref.Value)
	if err != nil {
		return nil, fmt.Errorf("textual: similarity collaborator: %w", err)
	}
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}

	threshold := t.Threshold
	if threshold <= 0 {
		threshold = defaultSimilarityThreshold
	}
	details["threshold"] = threshold

	res := &answer.Result{
		Matched:    score >= threshold,
		Confidence: score,
		Method:     "text_similarity",
		Details:    details,
	}
	if !res.Matched {
		res.Reason = fmt.Sprintf("similarity %.3f below threshold %.3f", score, threshold)
	}
	return res, nil
}

// foldText is the canonical comparison form: case-folded with whitespace
// collapsed.
func foldText(s string) string {
	return strings.ToLower(mathtext.CollapseWhitespace(s))
}
