// Package mathtext provides the lexical layer for answer normalization:
// numeric-literal parsing, LaTeX wrapper stripping, and the syntactic gate that
// decides whether a string is attempted as a math expression at all.
package mathtext

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	integerRe  = regexp.MustCompile(`^-?\d+$`)
	decimalRe  = regexp.MustCompile(`^-?\d+\.\d+$`)
	fractionRe = regexp.MustCompile(`^-?\d+/\d+$`)
)

// ParseNumber parses a numeric literal: a LaTeX fraction \frac{a}{b} first,
// then integer, decimal, and plain fraction a/b, in that order. The first
// matching form wins; a form that matches but fails to evaluate (division by
// zero) is not retried as a weaker form.
//
// Returns (NaN, false) when the input is not a numeric literal.
func ParseNumber(text string) (float64, bool) {
	s := strings.TrimSpace(text)
	s = strings.ReplaceAll(s, ",", "") // thousand separators

	if idx := strings.Index(s, `\frac`); idx >= 0 {
		return parseLatexFraction(s, idx)
	}

	s = strings.ReplaceAll(s, " ", "")
	switch {
	case integerRe.MatchString(s):
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return math.NaN(), false
		}
		return v, true
	case decimalRe.MatchString(s):
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return math.NaN(), false
		}
		return v, true
	case fractionRe.MatchString(s):
		parts := strings.SplitN(s, "/", 2)
		n, err1 := strconv.ParseFloat(parts[0], 64)
		d, err2 := strconv.ParseFloat(parts[1], 64)
		if err1 != nil || err2 != nil || d == 0 {
			return math.NaN(), false
		}
		return n / d, true
	}
	return math.NaN(), false
}

// parseLatexFraction evaluates \frac{a}{b} at idx. Both arguments must be
// plain numeric literals themselves.
func parseLatexFraction(s string, idx int) (float64, bool) {
	rest := s[idx+len(`\frac`):]
	rest = strings.TrimLeft(rest, " ")
	if !strings.HasPrefix(rest, "{") {
		return math.NaN(), false
	}
	numEnd := MatchBalancedBraces(rest, 0)
	if numEnd < 0 {
		return math.NaN(), false
	}
	numStr := rest[1:numEnd]

	rest = strings.TrimLeft(rest[numEnd+1:], " ")
	if !strings.HasPrefix(rest, "{") {
		return math.NaN(), false
	}
	denEnd := MatchBalancedBraces(rest, 0)
	if denEnd < 0 {
		return math.NaN(), false
	}
	denStr := rest[1:denEnd]

	num, ok := parseLiteral(numStr)
	if !ok {
		return math.NaN(), false
	}
	den, ok := parseLiteral(denStr)
	if !ok || den == 0 {
		return math.NaN(), false
	}
	return num / den, true
}

func parseLiteral(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if integerRe.MatchString(s) || decimalRe.MatchString(s) {
		v, err := strconv.ParseFloat(s, 64)
		return v, err == nil
	}
	return 0, false
}

// FormatNumber renders a float without trailing zeros, the form used in
// canonical "{number} {unit}" strings.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
