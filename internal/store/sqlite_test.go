package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stellarlinkco/phys-eval/internal/answer"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	st, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func testRun(id, suite string, started time.Time) *RunRecord {
	return &RunRecord{
		ID:         id,
		SuiteName:  suite,
		StartedAt:  started,
		FinishedAt: started.Add(2 * time.Second),
		TotalPairs: 10,
		Matched:    8,
		Accuracy:   0.8,
		Config:     map[string]any{"sig_figs": float64(3)},
	}
}

func TestSaveAndGetRun(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	ctx := context.Background()

	started := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	if err := st.SaveRun(ctx, testRun("run_1", "mechanics", started)); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	got, err := st.GetRun(ctx, "run_1")
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if got.SuiteName != "mechanics" || got.TotalPairs != 10 || got.Matched != 8 || got.Accuracy != 0.8 {
		t.Fatalf("got %+v", got)
	}
	if !got.StartedAt.Equal(started) {
		t.Fatalf("started: got %v, want %v", got.StartedAt, started)
	}
	if got.Config["sig_figs"] != float64(3) {
		t.Fatalf("config: got %v", got.Config)
	}
}

func TestGetRunNotFound(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	if _, err := st.GetRun(context.Background(), "absent"); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("got err=%v", err)
	}
}

func TestSaveRunValidation(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	ctx := context.Background()

	if err := st.SaveRun(ctx, nil); err == nil {
		t.Fatalf("nil run: expected error")
	}
	if err := st.SaveRun(ctx, &RunRecord{SuiteName: "s"}); err == nil {
		t.Fatalf("empty id: expected error")
	}
	if err := st.SaveRun(ctx, &RunRecord{ID: "r", SuiteName: "s"}); err == nil {
		t.Fatalf("zero timestamps: expected error")
	}
}

func TestSaveAndGetPairResults(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	ctx := context.Background()

	if err := st.SaveRun(ctx, testRun("run_1", "mechanics", time.Now())); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	records := []PairRecord{
		{
			PairID:             "p2",
			PredictionCategory: answer.Number,
			ReferenceCategory:  answer.Number,
			Matched:            true,
			Confidence:         1,
			Method:             "numeric_sigfig",
			LatencyMs:          3,
			Details:            map[string]any{"prediction": float64(500)},
		},
		{
			PairID:             "p1",
			PredictionCategory: answer.Text,
			ReferenceCategory:  answer.Number,
			Matched:            false,
			Method:             "category_mismatch",
			Reason:             "category mismatch: prediction is text, reference is number",
			Error:              "",
		},
	}
	if err := st.SavePairResults(ctx, "run_1", records); err != nil {
		t.Fatalf("SavePairResults: %v", err)
	}

	got, err := st.GetPairResults(ctx, "run_1")
	if err != nil {
		t.Fatalf("GetPairResults: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d records", len(got))
	}
	// Ordered by pair id.
	if got[0].PairID != "p1" || got[1].PairID != "p2" {
		t.Fatalf("got order %q, %q", got[0].PairID, got[1].PairID)
	}
	if got[0].Method != "category_mismatch" || got[0].Matched {
		t.Fatalf("got %+v", got[0])
	}
	if got[1].Details["prediction"] != float64(500) {
		t.Fatalf("details: got %v", got[1].Details)
	}
}

func TestSavePairResultsValidation(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	ctx := context.Background()

	if err := st.SavePairResults(ctx, "", []PairRecord{{PairID: "p"}}); err == nil {
		t.Fatalf("empty run id: expected error")
	}
	if err := st.SavePairResults(ctx, "run_1", []PairRecord{{}}); err == nil {
		t.Fatalf("empty pair id: expected error")
	}
	// Empty batches are a no-op.
	if err := st.SavePairResults(ctx, "run_1", nil); err != nil {
		t.Fatalf("empty batch: %v", err)
	}
}

func TestListRuns(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	runs := []*RunRecord{
		testRun("run_1", "mechanics", base),
		testRun("run_2", "optics", base.Add(time.Hour)),
		testRun("run_3", "mechanics", base.Add(2*time.Hour)),
	}
	for _, r := range runs {
		if err := st.SaveRun(ctx, r); err != nil {
			t.Fatalf("SaveRun(%s): %v", r.ID, err)
		}
	}

	{
		got, err := st.ListRuns(ctx, RunFilter{})
		if err != nil {
			t.Fatalf("ListRuns: %v", err)
		}
		if len(got) != 3 || got[0].ID != "run_3" || got[2].ID != "run_1" {
			t.Fatalf("got %d runs, first=%s", len(got), got[0].ID)
		}
	}
	{
		got, err := st.ListRuns(ctx, RunFilter{SuiteName: "mechanics"})
		if err != nil {
			t.Fatalf("ListRuns: %v", err)
		}
		if len(got) != 2 || got[0].ID != "run_3" {
			t.Fatalf("suite filter: got %d runs", len(got))
		}
	}
	{
		got, err := st.ListRuns(ctx, RunFilter{Since: base.Add(30 * time.Minute)})
		if err != nil {
			t.Fatalf("ListRuns: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("since filter: got %d runs", len(got))
		}
	}
	{
		got, err := st.ListRuns(ctx, RunFilter{Until: base.Add(30 * time.Minute)})
		if err != nil {
			t.Fatalf("ListRuns: %v", err)
		}
		if len(got) != 1 || got[0].ID != "run_1" {
			t.Fatalf("until filter: got %d runs", len(got))
		}
	}
	{
		got, err := st.ListRuns(ctx, RunFilter{Limit: 1})
		if err != nil {
			t.Fatalf("ListRuns: %v", err)
		}
		if len(got) != 1 || got[0].ID != "run_3" {
			t.Fatalf("limit: got %d runs", len(got))
		}
	}
}

func TestDuplicateRunID(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	ctx := context.Background()

	run := testRun("run_1", "mechanics", time.Now())
	if err := st.SaveRun(ctx, run); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	if err := st.SaveRun(ctx, run); err == nil {
		t.Fatalf("duplicate id: expected error")
	}
}
