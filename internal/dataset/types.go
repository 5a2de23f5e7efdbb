package dataset

// Suite is one benchmark file of prediction/reference pairs.
type Suite struct {
	Suite       string `yaml:"suite"`
	Description string `yaml:"description,omitempty"`
	Pairs       []Pair `yaml:"pairs"`
}

// Pair is one raw evaluation triple as produced by a dataset loader and a
// model client: two opaque strings plus optional declared categories. The
// declared category is a hint; an empty one lets the orchestrator infer it.
type Pair struct {
	ID         string `yaml:"id"`
	Prediction string `yaml:"prediction"`
	Reference  string `yaml:"reference"`

	// Category declares both sides when PredictionCategory is empty.
	Category           string `yaml:"category,omitempty"`
	PredictionCategory string `yaml:"prediction_category,omitempty"`

	// Unit is the implicit-unit hint for quantity references recorded as
	// bare numbers.
	Unit string `yaml:"unit,omitempty"`
}
