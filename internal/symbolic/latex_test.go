package symbolic

import "testing"

func TestTranslateLaTeX(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{`x^2`, "x**2"},
		{`x^{10}`, "x**(10)"},
		{`2x`, "2*x"},
		{`ma`, "m*a"},
		{`\frac{a}{b}`, "((a)/(b))"},
		{`\sqrt{x}`, "sqrt(x)"},
		{`a \cdot b`, "a*b"},
		{`a \times b`, "a*b"},
		{`\alpha + \beta`, "alpha+beta"},
		{`\left( x \right)`, "( x )"},
		{`(x+1)(x-1)`, "(x+1)*(x-1)"},
		{`3(x+1)`, "3*(x+1)"},
		{`v_0 t`, "v_0*t"},
	}
	for _, tc := range cases {
		got := TranslateLaTeX(tc.in)
		if _, err := Parse(got); err != nil {
			t.Fatalf("TranslateLaTeX(%q) = %q does not parse: %v", tc.in, got, err)
		}
		if collapsed := stripSpaces(got); collapsed != stripSpaces(tc.want) {
			t.Fatalf("TranslateLaTeX(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func stripSpaces(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != ' ' {
			out = append(out, s[i])
		}
	}
	return string(out)
}

func TestTranslateLaTeXKnownNames(t *testing.T) {
	t.Parallel()

	// Known multi-letter names survive; unknown runs split into products.
	if got := TranslateLaTeX("alpha"); got != "alpha" {
		t.Fatalf("alpha: got %q", got)
	}
	if got := TranslateLaTeX("abc"); got != "a*b*c" {
		t.Fatalf("abc: got %q", got)
	}
	if got := TranslateLaTeX(`\hbar \omega`); got != "hbar*omega" {
		t.Fatalf("hbar omega: got %q", got)
	}
}

func TestSplitEquation(t *testing.T) {
	t.Parallel()

	{
		lhs, rhs, ok := SplitEquation("F = ma")
		if !ok || lhs != "F" || rhs != "ma" {
			t.Fatalf("got lhs=%q rhs=%q ok=%v", lhs, rhs, ok)
		}
	}
	{
		if _, _, ok := SplitEquation("a <= b"); ok {
			t.Fatalf("<=: expected not an equation")
		}
	}
	{
		if _, _, ok := SplitEquation("a == b"); ok {
			t.Fatalf("==: expected not an equation")
		}
	}
	{
		if _, _, ok := SplitEquation("a != b"); ok {
			t.Fatalf("!=: expected not an equation")
		}
	}
	{
		if _, _, ok := SplitEquation("a = b = c"); ok {
			t.Fatalf("double: expected not an equation")
		}
	}
	{
		if _, _, ok := SplitEquation("= b"); ok {
			t.Fatalf("leading: expected not an equation")
		}
	}
	{
		if _, _, ok := SplitEquation("a+b"); ok {
			t.Fatalf("no equals: expected not an equation")
		}
	}
}
