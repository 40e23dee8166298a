package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/lucasnoah/remedy/internal/pipeline"
)

// RunRecord represents a row in the validation_runs table.
type RunRecord struct {
	ID         string
	Dir        string
	Language   string
	Passed     bool
	StartedAt  string
	RecordedAt string
}

// StageRecord represents a row in the stage_results table.
type StageRecord struct {
	ID         int
	RunID      string
	Position   int
	Stage      string
	Passed     bool
	Skipped    bool
	DurationS  float64
	ErrorCount int
}

// RetryAttempt represents a row in the retry_attempts table.
type RetryAttempt struct {
	ID        int
	RunID     string
	Attempt   int
	Kind      string
	DelayMs   int
	Detail    string
	Timestamp string
}

// StageStat aggregates pass rates for one stage across all recorded runs.
type StageStat struct {
	Stage       string
	Total       int
	Passed      int
	AvgDuration float64
}

// PassRate returns the fraction of recorded runs of this stage that passed.
func (s StageStat) PassRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Passed) / float64(s.Total)
}

// InsertRun records a finished validation run and its stage results in one
// transaction.
func (d *DB) InsertRun(run *pipeline.Run) error {
	if run.ID == "" {
		return fmt.Errorf("run has no ID")
	}

	tx, err := d.conn.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO validation_runs (id, dir, language, passed, started_at) VALUES (?, ?, ?, ?, ?)`,
		run.ID, run.Dir, string(run.Language), run.Passed(), run.StartedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", run.ID, err)
	}

	stmt, err := tx.Prepare(
		`INSERT INTO stage_results (run_id, position, stage, passed, skipped, duration_s, error_count)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare stage insert: %w", err)
	}
	defer stmt.Close()

	for i, st := range run.Stages {
		if _, err := stmt.Exec(run.ID, i, string(st.Stage), st.Passed, st.Skipped, st.DurationSeconds, len(st.Errors)); err != nil {
			return fmt.Errorf("insert stage %s: %w", st.Stage, err)
		}
	}

	return tx.Commit()
}

// LogRetryAttempt records one remediation attempt against a run.
func (d *DB) LogRetryAttempt(runID string, attempt int, kind string, delay time.Duration, detail string) error {
	_, err := d.conn.Exec(
		`INSERT INTO retry_attempts (run_id, attempt, kind, delay_ms, detail) VALUES (?, ?, ?, ?, ?)`,
		runID, attempt, kind, delay.Milliseconds(), detail,
	)
	if err != nil {
		return fmt.Errorf("log retry attempt: %w", err)
	}
	return nil
}

// GetRunHistory returns the most recently recorded runs, newest first.
func (d *DB) GetRunHistory(limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := d.conn.Query(
		`SELECT id, dir, language, passed, started_at, recorded_at
		 FROM validation_runs ORDER BY recorded_at DESC, rowid DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("get run history: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var r RunRecord
		if err := rows.Scan(&r.ID, &r.Dir, &r.Language, &r.Passed, &r.StartedAt, &r.RecordedAt); err != nil {
			return nil, fmt.Errorf("scan run record: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// GetLatestRun returns the most recently recorded run, or nil if none exist.
func (d *DB) GetLatestRun() (*RunRecord, error) {
	row := d.conn.QueryRow(
		`SELECT id, dir, language, passed, started_at, recorded_at
		 FROM validation_runs ORDER BY recorded_at DESC, rowid DESC LIMIT 1`)

	var r RunRecord
	err := row.Scan(&r.ID, &r.Dir, &r.Language, &r.Passed, &r.StartedAt, &r.RecordedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get latest run: %w", err)
	}
	return &r, nil
}

// GetStageResults returns the stage rows for a run, in pipeline order.
func (d *DB) GetStageResults(runID string) ([]StageRecord, error) {
	rows, err := d.conn.Query(
		`SELECT id, run_id, position, stage, passed, skipped, duration_s, error_count
		 FROM stage_results WHERE run_id = ? ORDER BY position`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("get stage results: %w", err)
	}
	defer rows.Close()

	var records []StageRecord
	for rows.Next() {
		var s StageRecord
		if err := rows.Scan(&s.ID, &s.RunID, &s.Position, &s.Stage, &s.Passed, &s.Skipped, &s.DurationS, &s.ErrorCount); err != nil {
			return nil, fmt.Errorf("scan stage result: %w", err)
		}
		records = append(records, s)
	}
	return records, rows.Err()
}

// GetRetryAttempts returns logged remediation attempts for a run, in order.
func (d *DB) GetRetryAttempts(runID string) ([]RetryAttempt, error) {
	rows, err := d.conn.Query(
		`SELECT id, run_id, attempt, kind, delay_ms, detail, timestamp
		 FROM retry_attempts WHERE run_id = ? ORDER BY attempt, id`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("get retry attempts: %w", err)
	}
	defer rows.Close()

	var attempts []RetryAttempt
	for rows.Next() {
		var a RetryAttempt
		var detail sql.NullString
		if err := rows.Scan(&a.ID, &a.RunID, &a.Attempt, &a.Kind, &a.DelayMs, &detail, &a.Timestamp); err != nil {
			return nil, fmt.Errorf("scan retry attempt: %w", err)
		}
		if detail.Valid {
			a.Detail = detail.String
		}
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}

// StageStats aggregates per-stage pass counts and average duration across
// all recorded runs, skipped stages excluded.
func (d *DB) StageStats() ([]StageStat, error) {
	rows, err := d.conn.Query(`
		SELECT stage,
		       COUNT(*),
		       SUM(CASE WHEN passed THEN 1 ELSE 0 END),
		       AVG(duration_s)
		FROM stage_results
		WHERE skipped = 0
		GROUP BY stage
		ORDER BY stage`)
	if err != nil {
		return nil, fmt.Errorf("get stage stats: %w", err)
	}
	defer rows.Close()

	var stats []StageStat
	for rows.Next() {
		var s StageStat
		if err := rows.Scan(&s.Stage, &s.Total, &s.Passed, &s.AvgDuration); err != nil {
			return nil, fmt.Errorf("scan stage stat: %w", err)
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}
