// Package history keeps a log of finished runs in SQLite.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/user/yuvenc/pkg/ports"
)

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

var schema = []string{`
CREATE TABLE IF NOT EXISTS runs (
	run_id      TEXT PRIMARY KEY,
	started_at  INTEGER NOT NULL,
	finished_at INTEGER NOT NULL,
	input       TEXT NOT NULL,
	output      TEXT NOT NULL,
	codec       TEXT NOT NULL,
	width       INTEGER NOT NULL,
	height      INTEGER NOT NULL,
	status      TEXT NOT NULL,
	reason      TEXT NOT NULL DEFAULT '',
	frames      INTEGER NOT NULL,
	packets     INTEGER NOT NULL,
	bytes       INTEGER NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_runs_finished_at ON runs(finished_at)`,
}

// Store implements ports.RunHistory.
type Store struct {
	db   *sql.DB
	path string
}

var _ ports.RunHistory = (*Store)(nil)

// Open initializes or connects to the history database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("init schema: %w", err)
		}
	}

	return &Store{db: db, path: path}, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Record stores a run. Recording the same run ID twice replaces the earlier row.
func (s *Store) Record(ctx context.Context, rec ports.RunRecord) error {
	return retryOnBusy(ctx, func() error {
		_, err := s.db.ExecContext(ctx, `
INSERT OR REPLACE INTO runs
	(run_id, started_at, finished_at, input, output, codec, width, height, status, reason, frames, packets, bytes)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			rec.RunID,
			rec.StartedAt.UnixNano(),
			rec.FinishedAt.UnixNano(),
			rec.Input,
			rec.Output,
			rec.Codec,
			rec.Width,
			rec.Height,
			rec.Status,
			rec.Reason,
			rec.Frames,
			rec.Packets,
			rec.Bytes,
		)
		if err != nil {
			return fmt.Errorf("insert run %s: %w", rec.RunID, err)
		}
		return nil
	})
}

// Recent returns up to limit runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]ports.RunRecord, error) {
	if limit <= 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT run_id, started_at, finished_at, input, output, codec, width, height, status, reason, frames, packets, bytes
FROM runs
ORDER BY finished_at DESC, run_id DESC
LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []ports.RunRecord
	for rows.Next() {
		var (
			rec               ports.RunRecord
			started, finished int64
		)
		if err := rows.Scan(
			&rec.RunID,
			&started,
			&finished,
			&rec.Input,
			&rec.Output,
			&rec.Codec,
			&rec.Width,
			&rec.Height,
			&rec.Status,
			&rec.Reason,
			&rec.Frames,
			&rec.Packets,
			&rec.Bytes,
		); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		rec.StartedAt = time.Unix(0, started)
		rec.FinishedAt = time.Unix(0, finished)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return out, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}
