package compare

import (
	"context"
	"sort"
	"strings"
	"unicode"

	"github.com/stellarlinkco/phys-eval/internal/answer"
)

// Option compares multiple-choice selections as sets: case, ordering, and
// separator style (comma, semicolon, "and", or none) never affect the result.
type Option struct{}

// Name returns the comparator identifier.
func (Option) Name() string {
	return "option"
}

// Compare matches two option answers.
func (Option) Compare(ctx context.Context, pred, ref answer.Answer) (*answer.Result, error) {
	p := normalizeOptions(pred.Value)
	r := normalizeOptions(ref.Value)
	details := map[string]any{
		"prediction": p,
		"reference":  r,
	}

	if p != "" && p == r {
		return matched("option_set", details), nil
	}
	if p == "" && r == "" {
		return matched("option_set", details), nil
	}
	return notMatched("option_set", "option sets differ", details), nil
}

// normalizeOptions reduces an option string to its sorted selection set:
// "C and A" and "a,c" both become "AC".
func normalizeOptions(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, " AND ", " ")

	var selected []string
	seen := make(map[rune]struct{})
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			continue
		}
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		selected = append(selected, string(r))
	}
	sort.Strings(selected)
	return strings.Join(selected, "")
}
