// repositories/mysql/run_repo.go
// Archive of rendered benchmark reports

package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"benchreport/internal/bench"
)

var ErrRunNotFound = errors.New("run not found")

var schema = []string{`
CREATE TABLE IF NOT EXISTS bench_runs (
	id         CHAR(36)     NOT NULL PRIMARY KEY,
	label      VARCHAR(255) NOT NULL DEFAULT '',
	created_at DATETIME(6)  NOT NULL,
	total      DOUBLE       NOT NULL,
	has_total  BOOLEAN      NOT NULL
)`, `
CREATE TABLE IF NOT EXISTS bench_entries (
	run_id   CHAR(36)     NOT NULL,
	position INT          NOT NULL,
	name     VARCHAR(255) NOT NULL,
	seconds  DOUBLE       NOT NULL,
	PRIMARY KEY (run_id, position),
	CONSTRAINT fk_bench_entries_run FOREIGN KEY (run_id) REFERENCES bench_runs(id) ON DELETE CASCADE
)`}

type RunRepo struct{ DB *sql.DB }

type Entry struct {
	Name    string
	Seconds float64
}

// Run is one archived report. Entries keep first-seen order.
type Run struct {
	ID        string
	Label     string
	CreatedAt time.Time
	Total     float64
	HasTotal  bool
	Entries   []Entry
}

// NewRun snapshots agg under id.
func NewRun(id, label string, createdAt time.Time, agg *bench.Aggregate) Run {
	run := Run{ID: id, Label: label, CreatedAt: createdAt, Total: agg.Total()}
	run.HasTotal = run.Total != 0
	for _, name := range agg.Names() {
		secs, _ := agg.Get(name)
		run.Entries = append(run.Entries, Entry{Name: name, Seconds: secs})
	}
	return run
}

// Aggregate rebuilds the aggregate the run was taken from.
func (r Run) Aggregate() *bench.Aggregate {
	agg := bench.NewAggregate()
	for _, e := range r.Entries {
		agg.Add(e.Name, e.Seconds)
	}
	return agg
}

// EnsureSchema creates the archive tables if they do not exist.
func (r *RunRepo) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := r.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create bench schema: %w", err)
		}
	}
	return nil
}

func (r *RunRepo) Save(ctx context.Context, run Run) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO bench_runs (id, label, created_at, total, has_total) VALUES (?, ?, ?, ?, ?)`,
		run.ID, run.Label, run.CreatedAt, run.Total, run.HasTotal)
	if err != nil {
		return fmt.Errorf("insert bench_runs: %w", err)
	}

	if len(run.Entries) > 0 {
		q, args := entryInsert(run.ID, run.Entries)
		if _, err := tx.ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("insert bench_entries: %w", err)
		}
	}
	return tx.Commit()
}

// List returns runs newest first, without entries.
func (r *RunRepo) List(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, label, created_at, total, has_total
		FROM bench_runs
		ORDER BY created_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query bench_runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.ID, &run.Label, &run.CreatedAt, &run.Total, &run.HasTotal); err != nil {
			return nil, fmt.Errorf("scan bench_run: %w", err)
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

func (r *RunRepo) Get(ctx context.Context, id string) (Run, error) {
	var run Run
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, label, created_at, total, has_total
		FROM bench_runs WHERE id = ?`, id).
		Scan(&run.ID, &run.Label, &run.CreatedAt, &run.Total, &run.HasTotal)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, ErrRunNotFound
	}
	if err != nil {
		return Run{}, fmt.Errorf("query bench_run %s: %w", id, err)
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT name, seconds FROM bench_entries
		WHERE run_id = ? ORDER BY position`, id)
	if err != nil {
		return Run{}, fmt.Errorf("query bench_entries: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Name, &e.Seconds); err != nil {
			return Run{}, fmt.Errorf("scan bench_entry: %w", err)
		}
		run.Entries = append(run.Entries, e)
	}
	return run, rows.Err()
}

// entryInsert builds one multi-row insert for entries, positions starting at 0.
func entryInsert(runID string, entries []Entry) (string, []any) {
	q := `INSERT INTO bench_entries (run_id, position, name, seconds) VALUES `
	args := make([]any, 0, len(entries)*4)
	for i, e := range entries {
		if i > 0 {
			q += ", "
		}
		q += "(" + placeholders(4) + ")"
		args = append(args, runID, i, e.Name, e.Seconds)
	}
	return q, args
}
