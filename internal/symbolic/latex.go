// Package symbolic converts algebraic answer strings into evaluable
// expressions and tests pairs of them for mathematical equivalence. The engine
// underneath is govaluate; since it evaluates rather than rewrites, equivalence
// is established by evaluating both expressions over a fixed set of sample
// points instead of by simplifying their difference.
package symbolic

import (
	"regexp"
	"strings"

	"github.com/stellarlinkco/phys-eval/internal/mathtext"
)

// knownNames are multi-letter identifiers that must survive the single-letter
// split: greek symbols, protected physics constants, and function names.
var knownNames = map[string]struct{}{
	"alpha": {}, "beta": {}, "gamma": {}, "delta": {}, "epsilon": {},
	"zeta": {}, "eta": {}, "theta": {}, "iota": {}, "kappa": {},
	"lambda": {}, "mu": {}, "nu": {}, "xi": {}, "omicron": {}, "rho": {},
	"sigma": {}, "tau": {}, "upsilon": {}, "phi": {}, "chi": {}, "psi": {},
	"omega": {}, "Gamma": {}, "Delta": {}, "Theta": {}, "Lambda": {},
	"Xi": {}, "Pi": {}, "Sigma": {}, "Phi": {}, "Psi": {}, "Omega": {},
	"pi": {}, "hbar": {}, "mu0": {}, "eps0": {}, "ell": {}, "deg": {},
	"angstrom": {},
	"sqrt":     {}, "sin": {}, "cos": {}, "tan": {}, "log": {}, "ln": {},
	"exp": {}, "abs": {},
}

var (
	commandRe    = regexp.MustCompile(`\\([a-zA-Z]+)`)
	subscriptRe  = regexp.MustCompile(`_\{([^}]*)\}`)
	letterRunRe  = regexp.MustCompile(`[a-zA-Z][a-zA-Z0-9]*`)
	implicitNum  = regexp.MustCompile(`(\d)\s*([a-zA-Z(])`)
	implicitPar  = regexp.MustCompile(`\)\s*([a-zA-Z0-9(])`)
	implicitGap  = regexp.MustCompile(`([a-zA-Z0-9_)])\s+([a-zA-Z(])`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// TranslateLaTeX rewrites a stripped LaTeX math string into the engine's
// expression syntax. The rewrite is purely textual and never fails; strings
// the engine still cannot parse surface as a Parse error downstream.
func TranslateLaTeX(s string) string {
	s = mathtext.PreprocessLaTeX(s)

	s = strings.ReplaceAll(s, `\left`, "")
	s = strings.ReplaceAll(s, `\right`, "")
	s = strings.ReplaceAll(s, `\cdot`, "*")
	s = strings.ReplaceAll(s, `\times`, "*")
	s = strings.ReplaceAll(s, `\div`, "/")

	s = rewriteFractions(s)
	s = rewriteCommand(s, `\sqrt`, "sqrt(", ")")

	// Remaining commands (\alpha, \sin, ...) become bare identifiers.
	s = commandRe.ReplaceAllString(s, "$1")

	s = subscriptRe.ReplaceAllString(s, "_$1")
	s = rewriteExponents(s)

	s = strings.ReplaceAll(s, "{", "(")
	s = strings.ReplaceAll(s, "}", ")")

	s = splitLetterRuns(s)
	s = insertImplicitMultiplication(s)

	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// rewriteFractions converts every \frac{a}{b} (and the \dfrac/\tfrac variants)
// to ((a)/(b)). Processing the last occurrence first keeps nesting intact.
func rewriteFractions(s string) string {
	for _, cmd := range []string{`\dfrac`, `\tfrac`, `\frac`} {
		for i := 0; i < 20; i++ {
			idx := strings.LastIndex(s, cmd+"{")
			if idx < 0 {
				break
			}
			numStart := idx + len(cmd)
			numEnd := mathtext.MatchBalancedBraces(s, numStart)
			if numEnd < 0 {
				break
			}
			rest := s[numEnd+1:]
			trimmed := strings.TrimLeft(rest, " ")
			if !strings.HasPrefix(trimmed, "{") {
				break
			}
			denStart := numEnd + 1 + (len(rest) - len(trimmed))
			denEnd := mathtext.MatchBalancedBraces(s, denStart)
			if denEnd < 0 {
				break
			}
			num := s[numStart+1 : numEnd]
			den := s[denStart+1 : denEnd]
			s = s[:idx] + "((" + num + ")/(" + den + "))" + s[denEnd+1:]
		}
	}
	return s
}

// rewriteCommand converts cmd{x} to prefix+x+suffix, last occurrence first.
func rewriteCommand(s, cmd, prefix, suffix string) string {
	for i := 0; i < 20; i++ {
		idx := strings.LastIndex(s, cmd+"{")
		if idx < 0 {
			break
		}
		start := idx + len(cmd)
		end := mathtext.MatchBalancedBraces(s, start)
		if end < 0 {
			break
		}
		s = s[:idx] + prefix + s[start+1:end] + suffix + s[end+1:]
	}
	return s
}

// rewriteExponents converts ^{n} to **(n) and a lone ^ to **. The engine
// reserves ^ for bitwise XOR, so the caret must not survive translation.
func rewriteExponents(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '^' {
			b.WriteByte(s[i])
			continue
		}
		j := i + 1
		for j < len(s) && s[j] == ' ' {
			j++
		}
		if j < len(s) && s[j] == '{' {
			end := mathtext.MatchBalancedBraces(s, j)
			if end > j {
				b.WriteString("**(")
				b.WriteString(s[j+1 : end])
				b.WriteString(")")
				i = end
				continue
			}
		}
		b.WriteString("**")
	}
	return b.String()
}

// splitLetterRuns expands unknown multi-letter runs into single-letter
// products, so that LaTeX juxtaposition like "ma" means m*a. Known names
// (greek, constants, functions) and underscore-subscripted names are kept.
func splitLetterRuns(s string) string {
	return letterRunRe.ReplaceAllStringFunc(s, func(run string) string {
		if _, ok := knownNames[run]; ok {
			return run
		}
		if len(run) == 1 {
			return run
		}
		if strings.ContainsAny(run, "0123456789") {
			return run
		}
		letters := strings.Split(run, "")
		return strings.Join(letters, "*")
	})
}

// insertImplicitMultiplication makes juxtaposition explicit: 2x, 3(x+1),
// (x+1)(x-1), and space-separated factors all gain a * operator.
func insertImplicitMultiplication(s string) string {
	for i := 0; i < 8; i++ {
		next := implicitNum.ReplaceAllString(s, "$1*$2")
		next = implicitPar.ReplaceAllString(next, ")*$1")
		next = implicitGap.ReplaceAllString(next, "$1*$2")
		if next == s {
			break
		}
		s = next
	}
	return s
}
