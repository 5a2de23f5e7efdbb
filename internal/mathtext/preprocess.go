package mathtext

import (
	"regexp"
	"strings"
)

// protectedPhysicsSymbols maps LaTeX commands the expression engine cannot
// tokenize to plain variable names. Standard Greek commands are handled by the
// LaTeX translator itself and stay out of this table.
var protectedPhysicsSymbols = [][2]string{
	{`\hbar`, "hbar"},
	{`\mu_0`, "mu0"},
	{`\epsilon_0`, "eps0"},
	{`\varepsilon_0`, "eps0"},
	{`\ell`, "ell"},
	{`\angstrom`, "angstrom"},
	{`\degree`, "deg"},
}

var (
	vecRe        = regexp.MustCompile(`\\vec\{([^}]*)\}`)
	hatRe        = regexp.MustCompile(`\\hat\{([^}]*)\}`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// PreprocessLaTeX cleans a stripped math string before symbolic conversion:
// spacing commands become spaces, fragile physics symbols become plain names,
// vector and hat decorations are dropped, and differentials are standardized.
func PreprocessLaTeX(s string) string {
	if s == "" {
		return ""
	}

	for _, cmd := range []string{`\,`, `\:`, `\;`, `\!`, `\quad`, `\qquad`} {
		s = strings.ReplaceAll(s, cmd, " ")
	}

	for _, sym := range protectedPhysicsSymbols {
		s = strings.ReplaceAll(s, sym[0], sym[1])
	}

	// Decorations like \vec{v} defeat variable matching; the bare symbol is safer.
	s = vecRe.ReplaceAllString(s, "$1")
	s = hatRe.ReplaceAllString(s, "$1")

	s = strings.ReplaceAll(s, `\mathrm{d}`, " d ")
	s = strings.ReplaceAll(s, `\text{d}`, " d ")

	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// CollapseWhitespace folds all Unicode whitespace runs into single ASCII
// spaces. This is the canonical form for text and for failed symbolic parses.
func CollapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}
