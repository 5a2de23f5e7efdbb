package mathtext

import (
	"regexp"
	"strings"
)

// maxExtractIterations bounds wrapper stripping on pathological input.
const maxExtractIterations = 20

var (
	displayMathRe = regexp.MustCompile(`(?s)\$\$(.*?)\$\$`)
	inlineMathRe  = regexp.MustCompile(`(?s)\$(.*?)\$`)
	bracketMathRe = regexp.MustCompile(`(?s)\\\[(.*?)\\\]`)
	parenMathRe   = regexp.MustCompile(`(?s)\\\((.*?)\\\)`)

	spacingCommands = []string{`\;`, `\,`, `\:`, `\!`}

	// Command wrappers whose braced argument replaces the whole command.
	braceCommands = []string{`\boxed`, `\text`, `\mathrm`}
)

// MatchBalancedBraces returns the index of the closing brace matching the
// opening brace at start, or -1 when start is not an opening brace or the
// braces are unbalanced.
func MatchBalancedBraces(text string, start int) int {
	if start >= len(text) || text[start] != '{' {
		return -1
	}
	depth := 1
	for i := start + 1; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
		}
		if depth == 0 {
			return i
		}
	}
	return -1
}

// ExtractMathContent strips LaTeX math delimiters and wrapper commands,
// replacing each wrapper with its inner content. It reports whether any
// markup was found. Malformed or unbalanced markup never fails: stripping
// stops at the point of ambiguity and the best-effort result is returned.
func ExtractMathContent(text string) (string, bool) {
	s := strings.TrimSpace(text)
	hadLaTeX := false

	for _, cmd := range spacingCommands {
		if strings.Contains(s, cmd) {
			s = strings.ReplaceAll(s, cmd, "")
			hadLaTeX = true
		}
	}

	delimiters := []*regexp.Regexp{displayMathRe, inlineMathRe, bracketMathRe, parenMathRe}

	for iter := 0; iter < maxExtractIterations; iter++ {
		previous := s

		for _, re := range delimiters {
			replaced := re.ReplaceAllString(s, "$1")
			if replaced != s {
				s = strings.TrimSpace(replaced)
				hadLaTeX = true
				break
			}
		}

		for _, cmd := range braceCommands {
			next, ok := unwrapCommand(s, cmd)
			if ok {
				s = next
				hadLaTeX = true
				break
			}
		}

		if s == previous {
			break
		}
	}

	return strings.TrimSpace(s), hadLaTeX
}

// unwrapCommand replaces the last occurrence of cmd{...} with its content.
// Unwrapping right to left keeps earlier offsets valid when commands nest.
func unwrapCommand(s, cmd string) (string, bool) {
	search := cmd + "{"
	idx := strings.LastIndex(s, search)
	if idx < 0 {
		return s, false
	}
	braceStart := idx + len(cmd)
	end := MatchBalancedBraces(s, braceStart)
	if end < 0 {
		return s, false
	}
	content := s[braceStart+1 : end]
	return s[:idx] + content + s[end+1:], true
}

// expressionOpeners is the fixed prefix set that admits a string into the
// expression path. Order matters only for readability; prefixes are disjoint
// enough that first-match is fine.
var expressionOpeners = []string{
	"$$", "$", `\[`, `\(`,
	`\boxed{`, `\frac{`, `\text{`, `\mathrm{`,
}

// LooksLikeExpression reports whether the string starts with a LaTeX math
// opener. This is a syntactic pre-filter only: strings that fail it are
// classified as free text even when they contain embedded math fragments.
func LooksLikeExpression(text string) bool {
	s := strings.TrimLeft(text, " \t\n\r")
	for _, opener := range expressionOpeners {
		if strings.HasPrefix(s, opener) {
			return true
		}
	}
	return false
}
