package normalize

import (
	"math"
	"testing"

	"github.com/stellarlinkco/phys-eval/internal/answer"
)

func TestNormalizeNumbers(t *testing.T) {
	t.Parallel()

	{
		a := Normalize("500")
		if a.Category != answer.Number || a.Number != 500 {
			t.Fatalf("got category=%s number=%v", a.Category, a.Number)
		}
	}
	{
		a := Normalize("2/3")
		if a.Category != answer.Number || math.Abs(a.Number-2.0/3.0) > 1e-12 {
			t.Fatalf("got category=%s number=%v", a.Category, a.Number)
		}
	}
	{
		a := Normalize(`$\frac{2}{3}$`)
		if a.Category != answer.Number || math.Abs(a.Number-2.0/3.0) > 1e-12 {
			t.Fatalf("got category=%s number=%v", a.Category, a.Number)
		}
	}
	{
		a := Normalize(`$\boxed{-42}$`)
		if a.Category != answer.Number || a.Number != -42 {
			t.Fatalf("boxed: got category=%s number=%v", a.Category, a.Number)
		}
	}
}

func TestNormalizeText(t *testing.T) {
	t.Parallel()

	{
		a := Normalize("from $B$ to $A$")
		if a.Category != answer.Text || a.Value != "from B to A" {
			t.Fatalf("got category=%s value=%q", a.Category, a.Value)
		}
	}
	{
		a := Normalize("the field increases")
		if a.Category != answer.Text || a.Value != "the field increases" {
			t.Fatalf("got category=%s value=%q", a.Category, a.Value)
		}
	}
}

func TestNormalizeQuantity(t *testing.T) {
	t.Parallel()

	{
		a := Normalize(`$-10^{4} \mathrm{A}/\mathrm{s}$`)
		if a.Category != answer.PhysicalQuantity {
			t.Fatalf("got category=%s value=%q", a.Category, a.Value)
		}
		if a.Value != "-10000 A/s" || a.Number != -10000 || a.Unit != "A/s" {
			t.Fatalf("got value=%q number=%v unit=%q", a.Value, a.Number, a.Unit)
		}
	}
	{
		a := Normalize("$25 \\mathrm{m/s}$")
		if a.Category != answer.PhysicalQuantity || a.Number != 25 || a.Unit != "m/s" {
			t.Fatalf("got category=%s number=%v unit=%q", a.Category, a.Number, a.Unit)
		}
	}
}

func TestNormalizeEquationAndFormula(t *testing.T) {
	t.Parallel()

	{
		a := Normalize("$F = ma$")
		if a.Category != answer.Equation {
			t.Fatalf("got category=%s value=%q", a.Category, a.Value)
		}
		if a.Value != "F = m*a" {
			t.Fatalf("got value=%q", a.Value)
		}
	}
	{
		a := Normalize("$a+b$")
		if a.Category != answer.Formula || a.Value != "a+b" {
			t.Fatalf("got category=%s value=%q", a.Category, a.Value)
		}
	}
}

func TestNormalizeNeverPanics(t *testing.T) {
	t.Parallel()

	// Pathological inputs must terminate in some category.
	inputs := []string{
		"",
		`\frac{1}{0}`,
		`$\frac{1}{0}$`,
		`$\boxed{$$}`,
		"$$$$",
		`\[`,
		"$ = $",
		"1/0",
	}
	for _, in := range inputs {
		a := Normalize(in)
		if a.Category == "" {
			t.Fatalf("Normalize(%q): empty category", in)
		}
	}
}

func TestClassify(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want answer.Category
	}{
		{"F = ma", answer.Equation},
		{"E = mc^2", answer.Equation},
		{"10 m/s", answer.PhysicalQuantity},
		{"-10^{4} A/s", answer.PhysicalQuantity},
		{"9.8 m", answer.PhysicalQuantity},
		{"a+b", answer.Formula},
		{"x^2 + 2x + 1", answer.Formula},
	}
	for _, tc := range cases {
		if got := Classify(tc.in); got != tc.want {
			t.Fatalf("Classify(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestClassifyEqualsWinsFirst(t *testing.T) {
	t.Parallel()

	// "v = 10 m/s" has a quantity-shaped tail; "=" still decides.
	if got := Classify("v = 10 m/s"); got != answer.Equation {
		t.Fatalf("got %s", got)
	}
}

func TestNormalizePhysicalQuantity(t *testing.T) {
	t.Parallel()

	{
		got, err := NormalizePhysicalQuantity(`-10^{4} A/s`)
		if err != nil || got != "-10000 A/s" {
			t.Fatalf("got %q err=%v", got, err)
		}
	}
	{
		got, err := NormalizePhysicalQuantity("3.0 kg")
		if err != nil || got != "3 kg" {
			t.Fatalf("got %q err=%v", got, err)
		}
	}
	{
		got, err := NormalizePhysicalQuantity(`2^3 m`)
		if err != nil || got != "8 m" {
			t.Fatalf("bare exponent: got %q err=%v", got, err)
		}
	}
	{
		if _, err := NormalizePhysicalQuantity("not a quantity at all!"); err == nil {
			t.Fatalf("expected error")
		}
	}
}

func TestSplitQuantity(t *testing.T) {
	t.Parallel()

	v, unit, ok := SplitQuantity("-10000 A/s")
	if !ok || v != -10000 || unit != "A/s" {
		t.Fatalf("got v=%v unit=%q ok=%v", v, unit, ok)
	}

	if _, _, ok := SplitQuantity("abc def"); ok {
		t.Fatalf("expected no parse")
	}
}

func TestFromDeclared(t *testing.T) {
	t.Parallel()

	{
		a := FromDeclared("500", answer.Number, "")
		if a.Category != answer.Number || a.Number != 500 {
			t.Fatalf("number: got category=%s number=%v", a.Category, a.Number)
		}
	}
	{
		a := FromDeclared("A, C", answer.Option, "")
		if a.Category != answer.Option || a.Value != "A, C" {
			t.Fatalf("option: got category=%s value=%q", a.Category, a.Value)
		}
	}
	{
		// A bare number plus a unit hint becomes a quantity.
		a := FromDeclared("500", answer.PhysicalQuantity, "m")
		if a.Category != answer.PhysicalQuantity || a.Number != 500 || a.Unit != "m" {
			t.Fatalf("hinted quantity: got %+v", a)
		}
	}
	{
		a := FromDeclared("$x+1$", answer.Formula, "")
		if a.Category != answer.Formula || a.Value != "x+1" {
			t.Fatalf("formula: got category=%s value=%q", a.Category, a.Value)
		}
	}
}
