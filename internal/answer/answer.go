package answer

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Category classifies an answer for normalization and comparison.
//
// The set is closed: adding a category requires updating ComparisonClass and the
// router's dispatch at the same time.
type Category string

const (
	Number           Category = "number"
	Equation         Category = "equation"
	PhysicalQuantity Category = "physical_quantity"
	Formula          Category = "formula"
	Text             Category = "text"
	Option           Category = "option"
)

// ParseCategory resolves a declared category string from a dataset.
func ParseCategory(s string) (Category, error) {
	switch Category(strings.ToLower(strings.TrimSpace(s))) {
	case Number:
		return Number, nil
	case Equation:
		return Equation, nil
	case PhysicalQuantity:
		return PhysicalQuantity, nil
	case Formula:
		return Formula, nil
	case Text:
		return Text, nil
	case Option:
		return Option, nil
	default:
		return "", fmt.Errorf("answer: unknown category %q", s)
	}
}

// ComparisonClass identifies which comparator family handles a category.
type ComparisonClass string

const (
	ClassNumerical ComparisonClass = "numerical"
	ClassQuantity  ComparisonClass = "quantity"
	ClassSymbolic  ComparisonClass = "symbolic"
	ClassTextual   ComparisonClass = "textual"
	ClassOption    ComparisonClass = "option"
)

// ComparisonClass maps the category to its comparator family. Equation and
// formula share the symbolic family; a bare number and a unit-carrying quantity
// do not share one, so a missing unit is reported as a category mismatch rather
// than silently dropped.
func (c Category) ComparisonClass() ComparisonClass {
	switch c {
	case Number:
		return ClassNumerical
	case PhysicalQuantity:
		return ClassQuantity
	case Equation, Formula:
		return ClassSymbolic
	case Option:
		return ClassOption
	default:
		return ClassTextual
	}
}

// Answer is one normalized answer. It is created once by normalize.Normalize
// (or built from a declared category) and never mutated afterwards.
type Answer struct {
	Category Category

	// Value holds the canonical string form for every category except number.
	Value string

	// Number holds the parsed float when Category == Number, NaN otherwise.
	Number float64

	// Unit is set for physical quantities split into value and unit.
	Unit string
}

// NewNumber builds a number answer.
func NewNumber(v float64) Answer {
	return Answer{Category: Number, Number: v, Value: formatFloat(v)}
}

// NewString builds a string-valued answer in the given category.
func NewString(cat Category, value string) Answer {
	return Answer{Category: cat, Value: value, Number: math.NaN()}
}

// NewQuantity builds a physical-quantity answer from its canonical
// "{number} {unit}" form.
func NewQuantity(value string, num float64, unit string) Answer {
	return Answer{Category: PhysicalQuantity, Value: value, Number: num, Unit: unit}
}

// String renders the answer the way datasets record it.
func (a Answer) String() string {
	if a.Category == Number {
		return formatFloat(a.Number)
	}
	return a.Value
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Result reports the outcome of comparing one prediction/reference pair.
type Result struct {
	Matched    bool           `json:"matched"`
	Confidence float64        `json:"confidence"` // 0.0 - 1.0
	Method     string         `json:"method"`
	Reason     string         `json:"reason,omitempty"`
	Details    map[string]any `json:"details,omitempty"`
}
