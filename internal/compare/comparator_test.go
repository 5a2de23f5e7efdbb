package compare

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stellarlinkco/phys-eval/internal/answer"
	"github.com/stellarlinkco/phys-eval/internal/units"
)

func TestNumericalBare(t *testing.T) {
	t.Parallel()

	n := Numerical{}

	{
		res, err := n.Compare(context.Background(), answer.NewNumber(3.14), answer.NewNumber(3.14159))
		if err != nil {
			t.Fatalf("Compare: %v", err)
		}
		if !res.Matched || res.Method != "numeric_sigfig" {
			t.Fatalf("got matched=%v method=%q", res.Matched, res.Method)
		}
	}
	{
		res, err := n.Compare(context.Background(), answer.NewNumber(0), answer.NewNumber(0))
		if err != nil {
			t.Fatalf("Compare: %v", err)
		}
		if !res.Matched {
			t.Fatalf("0 vs 0: expected match")
		}
	}
	{
		res, err := n.Compare(context.Background(), answer.NewNumber(math.NaN()), answer.NewNumber(math.NaN()))
		if err != nil {
			t.Fatalf("Compare: %v", err)
		}
		if res.Matched {
			t.Fatalf("NaN vs NaN: expected mismatch")
		}
	}
	{
		res, err := n.Compare(context.Background(), answer.NewNumber(500), answer.NewNumber(600))
		if err != nil {
			t.Fatalf("Compare: %v", err)
		}
		if res.Matched || res.Reason == "" {
			t.Fatalf("got matched=%v reason=%q", res.Matched, res.Reason)
		}
	}
}

func TestNumericalQuantity(t *testing.T) {
	t.Parallel()

	table, err := units.NewTable(nil)
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	n := Numerical{Units: table}

	{
		pred := answer.NewQuantity("1 km", 1, "km")
		ref := answer.NewQuantity("1000 m", 1000, "m")
		res, err := n.Compare(context.Background(), pred, ref)
		if err != nil {
			t.Fatalf("Compare: %v", err)
		}
		if !res.Matched || res.Method != "quantity_sigfig" {
			t.Fatalf("got matched=%v method=%q", res.Matched, res.Method)
		}
		if res.Details["converted_prediction"].(float64) != 1000 {
			t.Fatalf("converted: got %v", res.Details["converted_prediction"])
		}
	}
	{
		pred := answer.NewQuantity("5 kg", 5, "kg")
		ref := answer.NewQuantity("5 s", 5, "s")
		res, err := n.Compare(context.Background(), pred, ref)
		if err != nil {
			t.Fatalf("Compare: %v", err)
		}
		if res.Matched || res.Method != "quantity_units" {
			t.Fatalf("got matched=%v method=%q", res.Matched, res.Method)
		}
	}
	{
		pred := answer.NewQuantity("10 m", 10, "m")
		ref := answer.NewQuantity("10 m", 10, "m")
		res, err := n.Compare(context.Background(), pred, ref)
		if err != nil {
			t.Fatalf("Compare: %v", err)
		}
		if !res.Matched {
			t.Fatalf("identical units: expected match")
		}
	}
	{
		// Without a table only identical unit strings are comparable.
		bare := Numerical{}
		pred := answer.NewQuantity("1 km", 1, "km")
		ref := answer.NewQuantity("1000 m", 1000, "m")
		res, err := bare.Compare(context.Background(), pred, ref)
		if err != nil {
			t.Fatalf("Compare: %v", err)
		}
		if res.Matched || res.Method != "quantity_units" {
			t.Fatalf("got matched=%v method=%q", res.Matched, res.Method)
		}
	}
}

func TestNumericalValidate(t *testing.T) {
	t.Parallel()

	if err := (Numerical{SigFigs: -1}).Validate(); err == nil {
		t.Fatalf("expected error")
	}
	if err := (Numerical{SigFigs: 3}).Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestSymbolicCompare(t *testing.T) {
	t.Parallel()

	s := Symbolic{}

	{
		pred := answer.NewString(answer.Formula, "x^2 + 2x + 1")
		ref := answer.NewString(answer.Formula, "(x+1)^2")
		res, err := s.Compare(context.Background(), pred, ref)
		if err != nil {
			t.Fatalf("Compare: %v", err)
		}
		if !res.Matched || res.Method != "symbolic_equivalence" {
			t.Fatalf("got matched=%v method=%q", res.Matched, res.Method)
		}
	}
	{
		pred := answer.NewString(answer.Equation, "F = ma")
		ref := answer.NewString(answer.Equation, "F = am")
		res, err := s.Compare(context.Background(), pred, ref)
		if err != nil {
			t.Fatalf("Compare: %v", err)
		}
		if !res.Matched {
			t.Fatalf("rearranged equation: expected match")
		}
	}
	{
		pred := answer.NewString(answer.Formula, "x^2")
		ref := answer.NewString(answer.Formula, "x^3")
		res, err := s.Compare(context.Background(), pred, ref)
		if err != nil {
			t.Fatalf("Compare: %v", err)
		}
		if res.Matched {
			t.Fatalf("expected mismatch")
		}
	}
}

func TestSymbolicCanonicalFallback(t *testing.T) {
	t.Parallel()

	s := Symbolic{}

	// Unparseable on both sides degrades to exact canonical comparison.
	pred := answer.NewString(answer.Formula, "a + (b")
	ref := answer.NewString(answer.Formula, "a +  (b")
	res, err := s.Compare(context.Background(), pred, ref)
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if res.Method != "canonical_string" {
		t.Fatalf("got method=%q", res.Method)
	}
	if !res.Matched {
		t.Fatalf("whitespace-equal canonical forms: expected match")
	}
	if _, ok := res.Details["fallback"]; !ok {
		t.Fatalf("expected fallback detail")
	}
}

func TestTextualCompare(t *testing.T) {
	t.Parallel()

	{
		c := Textual{}
		res, err := c.Compare(context.Background(),
			answer.NewString(answer.Text, "The  Field Increases"),
			answer.NewString(answer.Text, "the field increases"))
		if err != nil {
			t.Fatalf("Compare: %v", err)
		}
		if !res.Matched || res.Method != "text_exact" {
			t.Fatalf("got matched=%v method=%q", res.Matched, res.Method)
		}
	}
	{
		c := Textual{}
		res, err := c.Compare(context.Background(),
			answer.NewString(answer.Text, "increases"),
			answer.NewString(answer.Text, "decreases"))
		if err != nil {
			t.Fatalf("Compare: %v", err)
		}
		if res.Matched {
			t.Fatalf("no collaborator: expected mismatch")
		}
	}
	{
		c := Textual{
			Similarity: func(ctx context.Context, prediction, reference string) (float64, error) {
				return 0.9, nil
			},
		}
		res, err := c.Compare(context.Background(),
			answer.NewString(answer.Text, "the field grows"),
			answer.NewString(answer.Text, "the field increases"))
		if err != nil {
			t.Fatalf("Compare: %v", err)
		}
		if !res.Matched || res.Method != "text_similarity" || res.Confidence != 0.9 {
			t.Fatalf("got matched=%v method=%q confidence=%v", res.Matched, res.Method, res.Confidence)
		}
	}
	{
		c := Textual{
			Similarity: func(ctx context.Context, prediction, reference string) (float64, error) {
				return 0.5, nil
			},
		}
		res, err := c.Compare(context.Background(),
			answer.NewString(answer.Text, "a"),
			answer.NewString(answer.Text, "b"))
		if err != nil {
			t.Fatalf("Compare: %v", err)
		}
		if res.Matched || res.Reason == "" {
			t.Fatalf("got matched=%v reason=%q", res.Matched, res.Reason)
		}
	}
	{
		wantErr := errors.New("judge down")
		c := Textual{
			Similarity: func(ctx context.Context, prediction, reference string) (float64, error) {
				return 0, wantErr
			},
		}
		_, err := c.Compare(context.Background(),
			answer.NewString(answer.Text, "a"),
			answer.NewString(answer.Text, "b"))
		if !errors.Is(err, wantErr) {
			t.Fatalf("got err=%v", err)
		}
	}
}

func TestOptionCompare(t *testing.T) {
	t.Parallel()

	o := Option{}

	cases := []struct {
		pred, ref string
		want      bool
	}{
		{"A,C", "C and A", true},
		{"a", "A", true},
		{"B; D", "d, b", true},
		{"A", "B", false},
		{"A,B", "A", false},
	}
	for _, tc := range cases {
		res, err := o.Compare(context.Background(),
			answer.NewString(answer.Option, tc.pred),
			answer.NewString(answer.Option, tc.ref))
		if err != nil {
			t.Fatalf("Compare(%q, %q): %v", tc.pred, tc.ref, err)
		}
		if res.Matched != tc.want {
			t.Fatalf("Compare(%q, %q): got matched=%v, want %v", tc.pred, tc.ref, res.Matched, tc.want)
		}
	}
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.Register(Option{})

	c, ok := r.Get("option")
	if !ok {
		t.Fatalf("Get(option) ok=false")
	}
	if c.Name() != "option" {
		t.Fatalf("got %q", c.Name())
	}

	if _, ok := r.Get("missing"); ok {
		t.Fatalf("Get(missing) ok=true")
	}
}
