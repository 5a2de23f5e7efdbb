package units

import (
	"math"
	"testing"
)

func TestNewTableDefaults(t *testing.T) {
	t.Parallel()

	tab, err := NewTable(nil)
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}

	if v, ok := tab.Convert(1, "km", "m"); !ok || v != 1000 {
		t.Fatalf("km->m: got %v ok=%v", v, ok)
	}
	if v, ok := tab.Convert(1000, "m", "km"); !ok || v != 1 {
		t.Fatalf("inverse m->km: got %v ok=%v", v, ok)
	}
	if v, ok := tab.Convert(2, "h", "s"); !ok || v != 7200 {
		t.Fatalf("h->s: got %v ok=%v", v, ok)
	}
	if _, ok := tab.Convert(1, "kg", "s"); ok {
		t.Fatalf("kg->s: expected incompatible")
	}
}

func TestConvertIdenticalUnits(t *testing.T) {
	t.Parallel()

	tab, err := NewTable([]Conversion{{From: "km", To: "m", Factor: 1000}})
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	if v, ok := tab.Convert(42, "furlong", "furlong"); !ok || v != 42 {
		t.Fatalf("identical units: got %v ok=%v", v, ok)
	}
}

func TestCompatible(t *testing.T) {
	t.Parallel()

	tab, err := NewTable(nil)
	if err != nil {
		t.Fatalf("NewTable: %v", err)
	}
	if !tab.Compatible("eV", "J") {
		t.Fatalf("eV/J: expected compatible")
	}
	if !tab.Compatible("m", "m") {
		t.Fatalf("same unit: expected compatible")
	}
	if tab.Compatible("m", "J") {
		t.Fatalf("m/J: expected incompatible")
	}

	var nilTab *Table
	if nilTab.Compatible("km", "m") {
		t.Fatalf("nil table: only identical units compare")
	}
	if !nilTab.Compatible("m", "m") {
		t.Fatalf("nil table: identical units still compare")
	}
}

func TestNewTableValidation(t *testing.T) {
	t.Parallel()

	cases := []Conversion{
		{From: "", To: "m", Factor: 1},
		{From: "km", To: "km", Factor: 1},
		{From: "km", To: "m", Factor: 0},
		{From: "km", To: "m", Factor: -5},
		{From: "km", To: "m", Factor: math.NaN()},
		{From: "km", To: "m", Factor: math.Inf(1)},
	}
	for _, c := range cases {
		if _, err := NewTable([]Conversion{c}); err == nil {
			t.Fatalf("NewTable(%+v): expected error", c)
		}
	}
}
