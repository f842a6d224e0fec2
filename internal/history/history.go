// Package history persists sensor samples to a local SQLite database so an
// operator can inspect what a monitor saw before a warning or shutdown.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Recorder appends samples for one monitor instance.
type Recorder struct {
	db       *sql.DB
	instance string
}

// Open creates (or opens) the database at path and ensures the schema.
func Open(path, instance string) (*Recorder, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS samples (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		instance TEXT NOT NULL,
		value REAL NOT NULL,
		inhibit INTEGER NOT NULL DEFAULT 0,
		recorded_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_samples_recorded_at ON samples(recorded_at);
	CREATE INDEX IF NOT EXISTS idx_samples_instance ON samples(instance);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create history schema: %w", err)
	}

	return &Recorder{db: db, instance: instance}, nil
}

// Record appends one sample.
func (r *Recorder) Record(ctx context.Context, value float64, inhibit bool, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO samples (instance, value, inhibit, recorded_at) VALUES (?, ?, ?, ?)`,
		r.instance, value, inhibit, at.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("insert sample: %w", err)
	}
	return nil
}

// Recent returns up to limit samples for this instance, newest first.
func (r *Recorder) Recent(ctx context.Context, limit int) ([]SampleRow, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT value, inhibit, recorded_at FROM samples
		 WHERE instance = ? ORDER BY recorded_at DESC LIMIT ?`,
		r.instance, limit)
	if err != nil {
		return nil, fmt.Errorf("query samples: %w", err)
	}
	defer rows.Close()

	var out []SampleRow
	for rows.Next() {
		var row SampleRow
		var ts string
		if err := rows.Scan(&row.Value, &row.Inhibit, &ts); err != nil {
			return nil, fmt.Errorf("scan sample: %w", err)
		}
		row.RecordedAt, err = time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return nil, fmt.Errorf("parse sample timestamp: %w", err)
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// Prune deletes samples older than the retention window, across all
// instances sharing the file.
func (r *Recorder) Prune(ctx context.Context, retain time.Duration) error {
	cutoff := time.Now().Add(-retain).UTC().Format(time.RFC3339Nano)
	if _, err := r.db.ExecContext(ctx, `DELETE FROM samples WHERE recorded_at < ?`, cutoff); err != nil {
		return fmt.Errorf("prune samples: %w", err)
	}
	return nil
}

// Close closes the database.
func (r *Recorder) Close() error {
	return r.db.Close()
}

// SampleRow is one persisted sample.
type SampleRow struct {
	Value      float64
	Inhibit    bool
	RecordedAt time.Time
}
