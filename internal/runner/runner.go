// Package runner executes batches of answer comparisons. Pairs are
// independent and the pipeline holds no shared mutable state, so the batch
// parallelizes with nothing but a semaphore.
package runner

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/stellarlinkco/phys-eval/internal/answer"
	"github.com/stellarlinkco/phys-eval/internal/compare"
	"github.com/stellarlinkco/phys-eval/internal/dataset"
	"github.com/stellarlinkco/phys-eval/internal/normalize"
)

// Runner normalizes raw pairs and routes them through the comparators.
type Runner struct {
	router *compare.Router
	cfg    Config

	sem chan struct{}
}

// NewRunner creates a Runner with defaults applied.
func NewRunner(router *compare.Router, cfg Config) *Runner {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	return &Runner{
		router: router,
		cfg:    cfg,
		sem:    make(chan struct{}, cfg.Concurrency),
	}
}

// RunPair evaluates one pair. Normalization cannot fail; a returned error
// reflects a router misconfiguration or a similarity collaborator failure.
func (r *Runner) RunPair(ctx context.Context, p dataset.Pair) (*PairResult, error) {
	if r == nil || r.router == nil {
		return nil, errors.New("runner: nil runner")
	}
	if ctx == nil {
		return nil, errors.New("runner: nil context")
	}

	start := time.Now()

	pred := normalizeSide(p.Prediction, firstNonEmpty(p.PredictionCategory, p.Category), p.Unit)
	ref := normalizeSide(p.Reference, p.Category, p.Unit)

	pairCtx := ctx
	if r.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		pairCtx, cancel = context.WithTimeout(ctx, r.cfg.Timeout)
		defer cancel()
	}

	res, err := r.router.Compare(pairCtx, pred, ref)
	out := &PairResult{
		ID:                 p.ID,
		PredictionCategory: pred.Category,
		ReferenceCategory:  ref.Category,
		Result:             res,
		LatencyMs:          time.Since(start).Milliseconds(),
		Error:              err,
	}
	return out, err
}

// Run evaluates all pairs with bounded concurrency and returns results in
// input order alongside the aggregate accuracy. Pair-level errors are
// recorded per result, not propagated: one misbehaving collaborator call must
// not sink the batch.
func (r *Runner) Run(ctx context.Context, pairs []dataset.Pair) (*BatchResult, error) {
	if r == nil || r.router == nil {
		return nil, errors.New("runner: nil runner")
	}
	if ctx == nil {
		return nil, errors.New("runner: nil context")
	}

	results := make([]PairResult, len(pairs))
	var wg sync.WaitGroup

	for i, p := range pairs {
		if err := r.acquire(ctx); err != nil {
			// In-flight pairs still write into results; let them drain.
			wg.Wait()
			return nil, err
		}
		wg.Add(1)
		go func(i int, p dataset.Pair) {
			defer wg.Done()
			defer r.release()

			res, err := r.RunPair(ctx, p)
			if res == nil {
				res = &PairResult{ID: p.ID, Error: err}
			}
			results[i] = *res
		}(i, p)
	}
	wg.Wait()

	out := &BatchResult{Total: len(results), Results: results}
	for _, res := range results {
		if res.Result != nil && res.Result.Matched {
			out.Matched++
		}
	}
	if out.Total > 0 {
		out.Accuracy = float64(out.Matched) / float64(out.Total)
	}
	return out, nil
}

func (r *Runner) acquire(ctx context.Context) error {
	select {
	case r.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Runner) release() {
	<-r.sem
}

func normalizeSide(raw, declared, unitHint string) answer.Answer {
	declared = strings.TrimSpace(declared)
	if declared == "" {
		return normalize.Normalize(raw)
	}
	cat, err := answer.ParseCategory(declared)
	if err != nil {
		return normalize.Normalize(raw)
	}
	return normalize.FromDeclared(raw, cat, unitHint)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
