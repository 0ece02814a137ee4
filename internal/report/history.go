package report

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cannacraft/storefront/engine/db"
	"github.com/google/uuid"
)

const migration = `
CREATE TABLE IF NOT EXISTS runs (
    id TEXT PRIMARY KEY,
    started INTEGER NOT NULL,
    finished INTEGER NOT NULL,
    target TEXT NOT NULL,
    mode TEXT NOT NULL,
    passed INTEGER NOT NULL,
    failed INTEGER NOT NULL,
    skipped INTEGER NOT NULL,
    ok INTEGER NOT NULL,
    results_dir TEXT NOT NULL DEFAULT ''
) STRICT;

CREATE INDEX IF NOT EXISTS runs_started_idx ON runs (started);
`

// History is the record of previous runs.
type History struct {
	db *sql.DB
}

func NewHistory(d *sql.DB) *History {
	db.MustMigrate(d, migration)
	return &History{db: d}
}

// OpenHistory opens (or creates) the history database at path.
func OpenHistory(path string) (*History, error) {
	d, err := db.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening history: %w", err)
	}
	return NewHistory(d), nil
}

func (h *History) Close() error { return h.db.Close() }

// Entry is a row of the history.
type Entry struct {
	ID         uuid.UUID
	Started    time.Time
	Finished   time.Time
	Target     string
	Mode       string
	Summary    Summary
	OK         bool
	ResultsDir string
}

func (e *Entry) Duration() time.Duration { return e.Finished.Sub(e.Started) }

// Record stores a finished run.
func (h *History) Record(ctx context.Context, run *Run, resultsDir string) error {
	s := run.Summary()
	_, err := h.db.ExecContext(ctx, `INSERT INTO runs (id, started, finished, target, mode, passed, failed, skipped, ok, results_dir) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		run.ID.String(), run.Started.Unix(), run.Finished.Unix(), run.Target, run.Mode, s.Passed, s.Failed, s.Skipped, run.Passed(), resultsDir)
	if err != nil {
		return fmt.Errorf("recording run: %w", err)
	}
	return nil
}

// List returns the most recent runs, newest first.
func (h *History) List(ctx context.Context, limit int) ([]*Entry, error) {
	rows, err := h.db.QueryContext(ctx, `SELECT id, started, finished, target, mode, passed, failed, skipped, ok, results_dir FROM runs ORDER BY started DESC, rowid DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		var (
			e                 Entry
			id                string
			started, finished db.LocalTime
		)
		err := rows.Scan(&id, &started, &finished, &e.Target, &e.Mode, &e.Summary.Passed, &e.Summary.Failed, &e.Summary.Skipped, &e.OK, &e.ResultsDir)
		if err != nil {
			return nil, err
		}
		e.ID, err = uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("invalid run id %q: %w", id, err)
		}
		e.Started, e.Finished = started.Time, finished.Time
		e.Summary.Total = e.Summary.Passed + e.Summary.Failed + e.Summary.Skipped
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

// Prune drops all but the newest keep runs.
func (h *History) Prune(ctx context.Context, keep int) (int64, error) {
	res, err := h.db.ExecContext(ctx, `DELETE FROM runs WHERE id NOT IN (SELECT id FROM runs ORDER BY started DESC, rowid DESC LIMIT $1)`, keep)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
