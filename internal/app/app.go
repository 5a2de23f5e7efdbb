// Package app orchestrates suite execution and persistence. The CLI and the
// HTTP API both run batches through here so they stay behaviorally identical.
package app

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/stellarlinkco/phys-eval/internal/dataset"
	"github.com/stellarlinkco/phys-eval/internal/runner"
	"github.com/stellarlinkco/phys-eval/internal/store"
)

// SuiteRun pairs a suite with its batch outcome.
type SuiteRun struct {
	Suite  *dataset.Suite
	Result *runner.BatchResult
}

// RunSummary aggregates across all suites of one invocation.
type RunSummary struct {
	TotalSuites int     `json:"total_suites"`
	TotalPairs  int     `json:"total_pairs"`
	Matched     int     `json:"matched"`
	Accuracy    float64 `json:"accuracy"`
}

// ExecuteSuites runs every suite through the runner. Suite-level errors abort;
// pair-level errors are already folded into the batch results.
func ExecuteSuites(ctx context.Context, run *runner.Runner, suites []*dataset.Suite) ([]SuiteRun, error) {
	if run == nil {
		return nil, errors.New("run: nil runner")
	}

	out := make([]SuiteRun, 0, len(suites))
	for _, s := range suites {
		if s == nil {
			return nil, errors.New("run: nil suite")
		}
		batch, err := run.Run(ctx, s.Pairs)
		if err != nil {
			return nil, fmt.Errorf("run: suite %q: %w", s.Suite, err)
		}
		out = append(out, SuiteRun{Suite: s, Result: batch})
	}
	return out, nil
}

// Summarize folds suite runs into one aggregate.
func Summarize(runs []SuiteRun) RunSummary {
	var summary RunSummary
	summary.TotalSuites = len(runs)
	for _, r := range runs {
		if r.Result == nil {
			continue
		}
		summary.TotalPairs += r.Result.Total
		summary.Matched += r.Result.Matched
	}
	if summary.TotalPairs > 0 {
		summary.Accuracy = float64(summary.Matched) / float64(summary.TotalPairs)
	}
	return summary
}

// SaveRun persists one suite run: the summary row plus every pair outcome.
func SaveRun(ctx context.Context, writer store.RunWriter, run SuiteRun, startedAt, finishedAt time.Time, runConfig map[string]any) (*store.RunRecord, error) {
	if writer == nil {
		return nil, errors.New("run: missing store")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if run.Suite == nil || run.Result == nil {
		return nil, errors.New("run: incomplete suite run")
	}

	runID, err := newRunID()
	if err != nil {
		return nil, fmt.Errorf("run: generate run id: %w", err)
	}

	record := &store.RunRecord{
		ID:         runID,
		SuiteName:  strings.TrimSpace(run.Suite.Suite),
		StartedAt:  startedAt,
		FinishedAt: finishedAt,
		TotalPairs: run.Result.Total,
		Matched:    run.Result.Matched,
		Accuracy:   run.Result.Accuracy,
		Config:     runConfig,
	}
	if err := writer.SaveRun(ctx, record); err != nil {
		return nil, err
	}
	if err := writer.SavePairResults(ctx, runID, PairRecords(run.Result.Results)); err != nil {
		return nil, err
	}
	return record, nil
}

// PairRecords converts batch pair results to their storage form.
func PairRecords(results []runner.PairResult) []store.PairRecord {
	out := make([]store.PairRecord, 0, len(results))
	for _, r := range results {
		rec := store.PairRecord{
			PairID:             r.ID,
			PredictionCategory: r.PredictionCategory,
			ReferenceCategory:  r.ReferenceCategory,
			LatencyMs:          r.LatencyMs,
		}
		if r.Result != nil {
			rec.Matched = r.Result.Matched
			rec.Confidence = r.Result.Confidence
			rec.Method = r.Result.Method
			rec.Reason = r.Result.Reason
			rec.Details = r.Result.Details
		}
		if r.Error != nil {
			rec.Error = r.Error.Error()
		}
		out = append(out, rec)
	}
	return out
}

func newRunID() (string, error) {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", err
	}
	return fmt.Sprintf("run_%s_%x", time.Now().UTC().Format("20060102T150405Z"), buf), nil
}
