// Package units holds the fixed-factor conversion table used when comparing
// physical quantities. This is compatible-unit rescaling only; dimensional
// analysis and cross-system conversion stay out of scope.
package units

import (
	"fmt"
	"math"
	"strings"
)

// Conversion rescales a value in unit From to unit To by a constant factor.
type Conversion struct {
	From   string  `yaml:"from"`
	To     string  `yaml:"to"`
	Factor float64 `yaml:"factor"`
}

// Table resolves unit compatibility. Malformed tables are a configuration
// defect and surface as an error from Validate, the only error class in the
// comparison pipeline that propagates to the caller.
type Table struct {
	factors map[[2]string]float64
}

// DefaultConversions cover the common compatible pairs seen in physics
// benchmark answers.
var DefaultConversions = []Conversion{
	{From: "km", To: "m", Factor: 1000},
	{From: "cm", To: "m", Factor: 0.01},
	{From: "mm", To: "m", Factor: 0.001},
	{From: "nm", To: "m", Factor: 1e-9},
	{From: "g", To: "kg", Factor: 0.001},
	{From: "mg", To: "kg", Factor: 1e-6},
	{From: "min", To: "s", Factor: 60},
	{From: "h", To: "s", Factor: 3600},
	{From: "ms", To: "s", Factor: 0.001},
	{From: "kJ", To: "J", Factor: 1000},
	{From: "eV", To: "J", Factor: 1.602176634e-19},
	{From: "kHz", To: "Hz", Factor: 1000},
	{From: "MHz", To: "Hz", Factor: 1e6},
	{From: "GHz", To: "Hz", Factor: 1e9},
	{From: "mA", To: "A", Factor: 0.001},
	{From: "kPa", To: "Pa", Factor: 1000},
	{From: "atm", To: "Pa", Factor: 101325},
	{From: "kN", To: "N", Factor: 1000},
	{From: "kV", To: "V", Factor: 1000},
	{From: "mV", To: "V", Factor: 0.001},
}

// NewTable builds a table from conversions, adding the inverse of each entry.
// A nil or empty slice yields the default table.
func NewTable(conversions []Conversion) (*Table, error) {
	if len(conversions) == 0 {
		conversions = DefaultConversions
	}
	t := &Table{factors: make(map[[2]string]float64, 2*len(conversions))}
	for i, c := range conversions {
		if err := validateConversion(c); err != nil {
			return nil, fmt.Errorf("units: conversions[%d]: %w", i, err)
		}
		from := strings.TrimSpace(c.From)
		to := strings.TrimSpace(c.To)
		t.factors[[2]string{from, to}] = c.Factor
		t.factors[[2]string{to, from}] = 1 / c.Factor
	}
	return t, nil
}

func validateConversion(c Conversion) error {
	if strings.TrimSpace(c.From) == "" || strings.TrimSpace(c.To) == "" {
		return fmt.Errorf("empty unit name")
	}
	if strings.TrimSpace(c.From) == strings.TrimSpace(c.To) {
		return fmt.Errorf("identical units %q", c.From)
	}
	if c.Factor == 0 || c.Factor < 0 || math.IsNaN(c.Factor) || math.IsInf(c.Factor, 0) {
		return fmt.Errorf("factor must be finite and positive, got %v", c.Factor)
	}
	return nil
}

// Compatible reports whether two units can be compared at all.
func (t *Table) Compatible(from, to string) bool {
	from = strings.TrimSpace(from)
	to = strings.TrimSpace(to)
	if from == to {
		return true
	}
	if t == nil || t.factors == nil {
		return false
	}
	_, ok := t.factors[[2]string{from, to}]
	return ok
}

// Convert rescales value from one unit into another. Identical units pass
// through; unknown pairs report incompatibility.
func (t *Table) Convert(value float64, from, to string) (float64, bool) {
	from = strings.TrimSpace(from)
	to = strings.TrimSpace(to)
	if from == to {
		return value, true
	}
	if t == nil || t.factors == nil {
		return 0, false
	}
	f, ok := t.factors[[2]string{from, to}]
	if !ok {
		return 0, false
	}
	return value * f, true
}
