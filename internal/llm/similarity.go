package llm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
)

// Judge scores semantic similarity between a candidate answer and a
// reference using an LLM. It backs the text comparator when exact matching
// is too strict.
type Judge struct {
	Provider Provider
}

type judgeOutput struct {
	Score     float64 `json:"score"`
	Reasoning string  `json:"reasoning"`
}

// Score rates how close prediction is to reference on [0, 1].
func (j *Judge) Score(ctx context.Context, prediction, reference string) (float64, error) {
	if j == nil || j.Provider == nil {
		return 0, errors.New("similarity: nil llm provider")
	}
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return 0, errors.New("similarity: missing reference")
	}

	var prompt bytes.Buffer
	prompt.WriteString("You are grading a physics answer. Assess whether the candidate answer is semantically equivalent to the reference answer.\n\n")
	prompt.WriteString("## Reference Answer\n")
	prompt.WriteString(reference)
	prompt.WriteString("\n\n## Candidate Answer\n")
	prompt.WriteString(prediction)
	prompt.WriteString("\n\n## Instructions\n")
	prompt.WriteString("Rate semantic similarity on a scale from 0.0 to 1.0.\n")
	prompt.WriteString("- 0.0: Completely different or incorrect\n")
	prompt.WriteString("- 1.0: Semantically equivalent (minor wording differences allowed)\n")
	prompt.WriteString("Treat equivalent physical statements as equal even when the phrasing or ordering differs.\n\n")
	prompt.WriteString("Output ONLY valid JSON in this exact format:\n")
	prompt.WriteString("{\"score\": <number 0.0-1.0>, \"reasoning\": \"<brief explanation>\"}")

	resp, err := j.Provider.Complete(ctx, &Request{
		Messages:  []Message{{Role: "user", Content: prompt.String()}},
		MaxTokens: 512,
	})
	if err != nil {
		return 0, fmt.Errorf("similarity: llm: %w", err)
	}
	if resp == nil {
		return 0, errors.New("similarity: nil llm response")
	}

	raw := strings.TrimSpace(Text(resp))
	var out judgeOutput
	if err := ParseJSON(raw, &out); err != nil {
		return 0, fmt.Errorf("similarity: invalid judge output %q: %w", raw, err)
	}

	score := out.Score
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	return score, nil
}

// Func adapts the judge to the plain scoring signature the text comparator
// takes.
func (j *Judge) Func() func(ctx context.Context, prediction, reference string) (float64, error) {
	return j.Score
}
