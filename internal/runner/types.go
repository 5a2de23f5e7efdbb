package runner

import (
	"time"

	"github.com/stellarlinkco/phys-eval/internal/answer"
)

// Config defines batch behavior. Comparison policy lives in the router; this
// only controls scheduling.
type Config struct {
	Concurrency int           // Max concurrent comparisons
	Timeout     time.Duration // Per-pair budget; only the similarity path can be slow
}

// PairResult reports the outcome for a single prediction/reference pair.
type PairResult struct {
	ID                 string          `json:"id"`
	PredictionCategory answer.Category `json:"prediction_category"`
	ReferenceCategory  answer.Category `json:"reference_category"`
	Result             *answer.Result  `json:"result"`
	LatencyMs          int64           `json:"latency_ms"`
	Error              error           `json:"-"`
}

// BatchResult aggregates a batch, results in input order.
type BatchResult struct {
	Total    int          `json:"total"`
	Matched  int          `json:"matched"`
	Accuracy float64      `json:"accuracy"`
	Results  []PairResult `json:"results"`
}
