package mathtext

import (
	"math"
	"testing"
)

func TestParseNumber(t *testing.T) {
	t.Parallel()

	{
		v, ok := ParseNumber("500")
		if !ok || v != 500 {
			t.Fatalf("integer: got v=%v ok=%v", v, ok)
		}
	}
	{
		v, ok := ParseNumber("-42")
		if !ok || v != -42 {
			t.Fatalf("negative integer: got v=%v ok=%v", v, ok)
		}
	}
	{
		v, ok := ParseNumber("3.14")
		if !ok || v != 3.14 {
			t.Fatalf("decimal: got v=%v ok=%v", v, ok)
		}
	}
	{
		v, ok := ParseNumber("1,000")
		if !ok || v != 1000 {
			t.Fatalf("thousand separator: got v=%v ok=%v", v, ok)
		}
	}
	{
		v, ok := ParseNumber("2/3")
		if !ok || math.Abs(v-2.0/3.0) > 1e-12 {
			t.Fatalf("fraction: got v=%v ok=%v", v, ok)
		}
	}
	{
		v, ok := ParseNumber(`\frac{2}{3}`)
		if !ok || math.Abs(v-2.0/3.0) > 1e-12 {
			t.Fatalf("latex fraction: got v=%v ok=%v", v, ok)
		}
	}
	{
		v, ok := ParseNumber(`\frac{-1}{4}`)
		if !ok || v != -0.25 {
			t.Fatalf("negative latex fraction: got v=%v ok=%v", v, ok)
		}
	}
}

func TestParseNumberRejects(t *testing.T) {
	t.Parallel()

	cases := []string{
		"",
		"abc",
		"5 m",
		"1/0",
		`\frac{1}{0}`,
		`\frac{x}{2}`,
		`\frac{1}`,
		"1.2.3",
		"x=5",
	}
	for _, in := range cases {
		if v, ok := ParseNumber(in); ok {
			t.Fatalf("ParseNumber(%q): expected no parse, got %v", in, v)
		}
	}
}

func TestParseNumberNoWeakerFormRetry(t *testing.T) {
	t.Parallel()

	// A \frac that fails to evaluate must not fall back to the plain literal
	// forms, even when the surrounding text would match one.
	if v, ok := ParseNumber(`\frac{5}{0}`); ok {
		t.Fatalf("expected no parse, got %v", v)
	}
}

func TestFormatNumber(t *testing.T) {
	t.Parallel()

	if got := FormatNumber(-10000); got != "-10000" {
		t.Fatalf("got %q", got)
	}
	if got := FormatNumber(0.25); got != "0.25" {
		t.Fatalf("got %q", got)
	}
}
