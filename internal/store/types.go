package store

import (
	"context"
	"time"

	"github.com/stellarlinkco/phys-eval/internal/answer"
)

// RunWriter defines persistence for run summaries and their pair outcomes.
type RunWriter interface {
	SaveRun(ctx context.Context, run *RunRecord) error
	SavePairResults(ctx context.Context, runID string, results []PairRecord) error
}

// RunReader defines read access to run and pair data.
type RunReader interface {
	GetRun(ctx context.Context, id string) (*RunRecord, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]*RunRecord, error)
	GetPairResults(ctx context.Context, runID string) ([]*PairRecord, error)
}

// Store defines persistence for evaluation runs.
type Store interface {
	RunWriter
	RunReader
	Close() error
}

// RunRecord stores a single batch run summary.
type RunRecord struct {
	ID         string
	SuiteName  string
	StartedAt  time.Time
	FinishedAt time.Time
	TotalPairs int
	Matched    int
	Accuracy   float64
	Config     map[string]any // Serialized evaluation settings
}

// PairRecord stores the outcome for one prediction/reference pair.
type PairRecord struct {
	PairID             string
	PredictionCategory answer.Category
	ReferenceCategory  answer.Category
	Matched            bool
	Confidence         float64
	Method             string
	Reason             string
	LatencyMs          int64
	Error              string
	Details            map[string]any
}

// RunFilter filters run listings.
type RunFilter struct {
	SuiteName string
	Since     time.Time
	Until     time.Time
	Limit     int
}
