package runner

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stellarlinkco/phys-eval/internal/compare"
	"github.com/stellarlinkco/phys-eval/internal/dataset"
)

func newTestRunner(t *testing.T, cfg compare.Config, rcfg Config) *Runner {
	t.Helper()
	router, err := compare.NewRouter(cfg)
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}
	return NewRunner(router, rcfg)
}

func TestRunPair(t *testing.T) {
	t.Parallel()

	r := newTestRunner(t, compare.Config{}, Config{})

	{
		res, err := r.RunPair(context.Background(), dataset.Pair{
			ID:         "p1",
			Prediction: `$\frac{2}{3}$`,
			Reference:  "2/3",
		})
		if err != nil {
			t.Fatalf("RunPair: %v", err)
		}
		if !res.Result.Matched || res.PredictionCategory != "number" {
			t.Fatalf("got matched=%v category=%s", res.Result.Matched, res.PredictionCategory)
		}
	}
	{
		// Declared category overrides inference on both sides.
		res, err := r.RunPair(context.Background(), dataset.Pair{
			ID:         "p2",
			Prediction: "A, C",
			Reference:  "C and A",
			Category:   "option",
		})
		if err != nil {
			t.Fatalf("RunPair: %v", err)
		}
		if !res.Result.Matched || res.Result.Method != "option_set" {
			t.Fatalf("got matched=%v method=%q", res.Result.Matched, res.Result.Method)
		}
	}
	{
		// Unit hint turns a bare numeric reference into a quantity.
		res, err := r.RunPair(context.Background(), dataset.Pair{
			ID:         "p3",
			Prediction: "1 km",
			Reference:  "1000",
			Category:   "physical_quantity",
			Unit:       "m",
		})
		if err != nil {
			t.Fatalf("RunPair: %v", err)
		}
		if !res.Result.Matched || res.Result.Method != "quantity_sigfig" {
			t.Fatalf("got matched=%v method=%q", res.Result.Matched, res.Result.Method)
		}
	}
}

func TestRunPairPredictionCategory(t *testing.T) {
	t.Parallel()

	r := newTestRunner(t, compare.Config{}, Config{})

	// Sides can declare different categories; the router reports the clash.
	res, err := r.RunPair(context.Background(), dataset.Pair{
		ID:                 "p1",
		Prediction:         "increases",
		Reference:          "5",
		Category:           "number",
		PredictionCategory: "text",
	})
	if err != nil {
		t.Fatalf("RunPair: %v", err)
	}
	if res.Result.Matched || res.Result.Method != "category_mismatch" {
		t.Fatalf("got matched=%v method=%q", res.Result.Matched, res.Result.Method)
	}
}

func TestRun(t *testing.T) {
	t.Parallel()

	r := newTestRunner(t, compare.Config{}, Config{Concurrency: 4})

	pairs := []dataset.Pair{
		{ID: "a", Prediction: "500", Reference: "500"},
		{ID: "b", Prediction: "$F = ma$", Reference: "$F = am$"},
		{ID: "c", Prediction: "3", Reference: "4"},
		{ID: "d", Prediction: "$25 \\mathrm{m/s}$", Reference: "25 m/s"},
	}
	batch, err := r.Run(context.Background(), pairs)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if batch.Total != 4 || batch.Matched != 3 {
		t.Fatalf("got total=%d matched=%d", batch.Total, batch.Matched)
	}
	if batch.Accuracy != 0.75 {
		t.Fatalf("got accuracy=%v", batch.Accuracy)
	}
	// Results come back in input order regardless of scheduling.
	for i, id := range []string{"a", "b", "c", "d"} {
		if batch.Results[i].ID != id {
			t.Fatalf("results[%d].ID = %q, want %q", i, batch.Results[i].ID, id)
		}
	}
}

func TestRunRecordsPairErrors(t *testing.T) {
	t.Parallel()

	wantErr := errors.New("judge down")
	r := newTestRunner(t, compare.Config{
		Similarity: func(ctx context.Context, prediction, reference string) (float64, error) {
			return 0, wantErr
		},
	}, Config{Concurrency: 2})

	pairs := []dataset.Pair{
		{ID: "ok", Prediction: "1", Reference: "1"},
		{ID: "broken", Prediction: "grows", Reference: "increases", Category: "text"},
	}
	batch, err := r.Run(context.Background(), pairs)
	if err != nil {
		t.Fatalf("batch must not fail on a pair error: %v", err)
	}
	if batch.Matched != 1 {
		t.Fatalf("got matched=%d", batch.Matched)
	}
	if !errors.Is(batch.Results[1].Error, wantErr) {
		t.Fatalf("got pair error=%v", batch.Results[1].Error)
	}
}

func TestRunEmptyBatch(t *testing.T) {
	t.Parallel()

	r := newTestRunner(t, compare.Config{}, Config{})
	batch, err := r.Run(context.Background(), nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if batch.Total != 0 || batch.Accuracy != 0 {
		t.Fatalf("got %+v", batch)
	}
}

func TestRunCancelled(t *testing.T) {
	t.Parallel()

	// One slot, one collaborator call that holds it until the batch context
	// dies: acquiring the slot for the second pair must fail with ctx.Err.
	var inFlight atomic.Int32
	r := newTestRunner(t, compare.Config{
		Similarity: func(ctx context.Context, prediction, reference string) (float64, error) {
			inFlight.Add(1)
			defer inFlight.Add(-1)
			<-ctx.Done()
			return 0, ctx.Err()
		},
	}, Config{Concurrency: 1})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	pairs := []dataset.Pair{
		{ID: "slow", Prediction: "grows", Reference: "increases", Category: "text"},
		{ID: "starved", Prediction: "1", Reference: "1"},
	}
	if _, err := r.Run(ctx, pairs); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("got err=%v", err)
	}
	// Run must not return while a pair is still writing its result.
	if n := inFlight.Load(); n != 0 {
		t.Fatalf("got %d in-flight pairs after Run returned", n)
	}
}
