package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/stellarlinkco/phys-eval/internal/answer"
)

const defaultListLimit = 50

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB

	insertRunStmt  *sql.Stmt
	insertPairStmt *sql.Stmt
	getRunStmt     *sql.Stmt
	pairsByRunStmt *sql.Stmt
}

// NewSQLiteStore opens or creates a SQLite store at the given path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("store: empty sqlite path")
	}
	if path != ":memory:" {
		dir := filepath.Dir(path)
		if dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("store: create sqlite dir: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("store: open sqlite: %w", err)
	}
	if path == ":memory:" {
		// Every pooled connection would otherwise see its own empty database.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(5)
		db.SetMaxIdleConns(2)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: ping sqlite: %w", err)
	}

	if err := initSQLiteSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	st := &SQLiteStore{db: db}
	if err := st.prepareStatements(); err != nil {
		_ = st.Close()
		return nil, err
	}
	return st, nil
}

func initSQLiteSchema(db *sql.DB) error {
	stmts := []string{
		`PRAGMA foreign_keys = ON`,
		`PRAGMA journal_mode = WAL`,
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			suite_name TEXT NOT NULL,
			started_at INTEGER NOT NULL,
			finished_at INTEGER NOT NULL,
			total_pairs INTEGER NOT NULL,
			matched_pairs INTEGER NOT NULL,
			accuracy REAL NOT NULL,
			config_json TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS pair_results (
			run_id TEXT NOT NULL,
			pair_id TEXT NOT NULL,
			prediction_category TEXT NOT NULL,
			reference_category TEXT NOT NULL,
			matched INTEGER NOT NULL,
			confidence REAL NOT NULL,
			method TEXT NOT NULL,
			reason TEXT,
			latency_ms INTEGER NOT NULL,
			error TEXT,
			details_json TEXT,
			PRIMARY KEY (run_id, pair_id),
			FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_suite ON runs(suite_name, started_at)`,
		`CREATE INDEX IF NOT EXISTS idx_pair_results_run_id ON pair_results(run_id)`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("store: init schema: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) prepareStatements() error {
	if s == nil || s.db == nil {
		return errors.New("store: nil sqlite store")
	}

	ctx := context.Background()
	type stmtSpec struct {
		dst    **sql.Stmt
		query  string
		errFmt string
	}

	specs := []stmtSpec{
		{
			dst: &s.insertRunStmt,
			query: `
				INSERT INTO runs (
					id, suite_name, started_at, finished_at, total_pairs, matched_pairs, accuracy, config_json
				) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			`,
			errFmt: "store: prepare insert run: %w",
		},
		{
			dst: &s.insertPairStmt,
			query: `
				INSERT INTO pair_results (
					run_id, pair_id, prediction_category, reference_category, matched,
					confidence, method, reason, latency_ms, error, details_json
				) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			`,
			errFmt: "store: prepare insert pair: %w",
		},
		{
			dst: &s.getRunStmt,
			query: `
				SELECT id, suite_name, started_at, finished_at, total_pairs, matched_pairs, accuracy, config_json
				FROM runs WHERE id = ?
			`,
			errFmt: "store: prepare get run: %w",
		},
		{
			dst: &s.pairsByRunStmt,
			query: `
				SELECT run_id, pair_id, prediction_category, reference_category, matched,
					confidence, method, reason, latency_ms, error, details_json
				FROM pair_results
				WHERE run_id = ?
				ORDER BY pair_id ASC
			`,
			errFmt: "store: prepare get pairs: %w",
		},
	}

	for _, spec := range specs {
		stmt, err := s.db.PrepareContext(ctx, spec.query)
		if err != nil {
			return fmt.Errorf(spec.errFmt, err)
		}
		*spec.dst = stmt
	}

	return nil
}

// Close releases database resources.
func (s *SQLiteStore) Close() error {
	if s == nil {
		return nil
	}
	stmts := []*sql.Stmt{
		s.insertRunStmt,
		s.insertPairStmt,
		s.getRunStmt,
		s.pairsByRunStmt,
	}
	for _, stmt := range stmts {
		if stmt != nil {
			_ = stmt.Close()
		}
	}
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveRun persists a run summary.
func (s *SQLiteStore) SaveRun(ctx context.Context, run *RunRecord) error {
	if s == nil {
		return errors.New("store: nil sqlite store")
	}
	if ctx == nil {
		return errors.New("store: nil context")
	}
	if run == nil {
		return errors.New("store: nil run")
	}

	id := strings.TrimSpace(run.ID)
	if id == "" {
		return errors.New("store: empty run id")
	}
	if run.StartedAt.IsZero() || run.FinishedAt.IsZero() {
		return errors.New("store: missing run timestamps")
	}

	cfgJSON := []byte("null")
	if run.Config != nil {
		var err error
		cfgJSON, err = json.Marshal(run.Config)
		if err != nil {
			return fmt.Errorf("store: marshal run config: %w", err)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin run tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stmt := tx.StmtContext(ctx, s.insertRunStmt)
	defer stmt.Close()

	_, err = stmt.ExecContext(
		ctx,
		id,
		strings.TrimSpace(run.SuiteName),
		run.StartedAt.UTC().UnixMilli(),
		run.FinishedAt.UTC().UnixMilli(),
		run.TotalPairs,
		run.Matched,
		run.Accuracy,
		string(cfgJSON),
	)
	if err != nil {
		return fmt.Errorf("store: insert run: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit run: %w", err)
	}
	return nil
}

// SavePairResults persists the pair outcomes for a run in one transaction.
func (s *SQLiteStore) SavePairResults(ctx context.Context, runID string, results []PairRecord) error {
	if s == nil {
		return errors.New("store: nil sqlite store")
	}
	if ctx == nil {
		return errors.New("store: nil context")
	}
	runID = strings.TrimSpace(runID)
	if runID == "" {
		return errors.New("store: empty run id")
	}
	if len(results) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin pairs tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	stmt := tx.StmtContext(ctx, s.insertPairStmt)
	defer stmt.Close()

	for i, r := range results {
		pairID := strings.TrimSpace(r.PairID)
		if pairID == "" {
			return fmt.Errorf("store: results[%d]: empty pair id", i)
		}

		detailsJSON := []byte("null")
		if r.Details != nil {
			detailsJSON, err = json.Marshal(r.Details)
			if err != nil {
				return fmt.Errorf("store: marshal pair details: %w", err)
			}
		}

		matched := 0
		if r.Matched {
			matched = 1
		}

		_, err = stmt.ExecContext(
			ctx,
			runID,
			pairID,
			string(r.PredictionCategory),
			string(r.ReferenceCategory),
			matched,
			r.Confidence,
			r.Method,
			r.Reason,
			r.LatencyMs,
			r.Error,
			string(detailsJSON),
		)
		if err != nil {
			return fmt.Errorf("store: insert pair result: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit pair results: %w", err)
	}
	return nil
}

// GetRun loads a run by id.
func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*RunRecord, error) {
	if s == nil {
		return nil, errors.New("store: nil sqlite store")
	}
	if ctx == nil {
		return nil, errors.New("store: nil context")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.New("store: empty run id")
	}

	row := s.getRunStmt.QueryRowContext(ctx, id)
	rec, err := scanRunRow(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("store: get run: %w", err)
	}
	return rec, nil
}

// ListRuns returns runs matching the filter, most recent first.
func (s *SQLiteStore) ListRuns(ctx context.Context, filter RunFilter) ([]*RunRecord, error) {
	if s == nil {
		return nil, errors.New("store: nil sqlite store")
	}
	if ctx == nil {
		return nil, errors.New("store: nil context")
	}

	suiteName := strings.TrimSpace(filter.SuiteName)
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	var sb strings.Builder
	sb.WriteString(`SELECT id, suite_name, started_at, finished_at, total_pairs, matched_pairs, accuracy, config_json FROM runs WHERE 1=1`)

	var args []any
	if suiteName != "" {
		sb.WriteString(` AND suite_name = ?`)
		args = append(args, suiteName)
	}
	if !filter.Since.IsZero() {
		sb.WriteString(` AND started_at >= ?`)
		args = append(args, filter.Since.UTC().UnixMilli())
	}
	if !filter.Until.IsZero() {
		sb.WriteString(` AND started_at <= ?`)
		args = append(args, filter.Until.UTC().UnixMilli())
	}
	sb.WriteString(` ORDER BY started_at DESC LIMIT ?`)
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("store: list runs: %w", err)
	}
	defer rows.Close()

	var out []*RunRecord
	for rows.Next() {
		rec, err := scanRunRow(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("store: scan run: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: list runs: %w", err)
	}
	return out, nil
}

// GetPairResults lists pair outcomes for a run.
func (s *SQLiteStore) GetPairResults(ctx context.Context, runID string) ([]*PairRecord, error) {
	if s == nil {
		return nil, errors.New("store: nil sqlite store")
	}
	if ctx == nil {
		return nil, errors.New("store: nil context")
	}
	runID = strings.TrimSpace(runID)
	if runID == "" {
		return nil, errors.New("store: empty run id")
	}

	rows, err := s.pairsByRunStmt.QueryContext(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("store: get pair results: %w", err)
	}
	defer rows.Close()

	var out []*PairRecord
	for rows.Next() {
		var (
			gotRunID    string
			pairID      string
			predCat     string
			refCat      string
			matched     int
			confidence  float64
			method      string
			reason      sql.NullString
			latencyMs   int64
			errText     sql.NullString
			detailsJSON sql.NullString
		)
		if err := rows.Scan(&gotRunID, &pairID, &predCat, &refCat, &matched, &confidence, &method, &reason, &latencyMs, &errText, &detailsJSON); err != nil {
			return nil, fmt.Errorf("store: scan pair result: %w", err)
		}

		details, err := decodeDetails(detailsJSON)
		if err != nil {
			return nil, fmt.Errorf("store: decode pair details: %w", err)
		}

		out = append(out, &PairRecord{
			PairID:             pairID,
			PredictionCategory: answer.Category(predCat),
			ReferenceCategory:  answer.Category(refCat),
			Matched:            matched != 0,
			Confidence:         confidence,
			Method:             method,
			Reason:             reason.String,
			LatencyMs:          latencyMs,
			Error:              errText.String,
			Details:            details,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: get pair results: %w", err)
	}
	return out, nil
}

func scanRunRow(scan func(dest ...any) error) (*RunRecord, error) {
	var (
		id           string
		suiteName    string
		startedAtMS  int64
		finishedAtMS int64
		totalPairs   int
		matchedPairs int
		accuracy     float64
		cfgJSON      sql.NullString
	)
	if err := scan(&id, &suiteName, &startedAtMS, &finishedAtMS, &totalPairs, &matchedPairs, &accuracy, &cfgJSON); err != nil {
		return nil, err
	}

	cfg, err := decodeDetails(cfgJSON)
	if err != nil {
		return nil, err
	}

	return &RunRecord{
		ID:         id,
		SuiteName:  suiteName,
		StartedAt:  time.UnixMilli(startedAtMS).UTC(),
		FinishedAt: time.UnixMilli(finishedAtMS).UTC(),
		TotalPairs: totalPairs,
		Matched:    matchedPairs,
		Accuracy:   accuracy,
		Config:     cfg,
	}, nil
}

func decodeDetails(raw sql.NullString) (map[string]any, error) {
	if !raw.Valid {
		return nil, nil
	}
	s := strings.TrimSpace(raw.String)
	if s == "" || s == "null" {
		return nil, nil
	}
	var out map[string]any
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, err
	}
	return out, nil
}
