package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/roach88/autodual/internal/snapshot"
)

// ErrNotFound is returned by Get when no run has the given ID.
var ErrNotFound = errors.New("run not found")

// Run is one recorded scenario evaluation.
type Run struct {
	ID       string   `json:"id"`
	Seq      int64    `json:"seq"`
	Scenario string   `json:"scenario"`
	Kind     string   `json:"kind"`
	Pass     bool     `json:"pass"`
	Snapshot string   `json:"snapshot"` // canonical JSON
	Failures []string `json:"failures,omitempty"`
}

// NewRun builds a run record from a result snapshot. The ID is a content
// hash, so the same outcome always maps to the same run.
func NewRun(scenario, kind string, pass bool, snap map[string]any, failures []string) (Run, error) {
	data, err := snapshot.Marshal(snap)
	if err != nil {
		return Run{}, fmt.Errorf("new run: %w", err)
	}
	id, err := snapshot.RunID(scenario, map[string]any{
		"snapshot": snap,
		"pass":     pass,
	})
	if err != nil {
		return Run{}, fmt.Errorf("new run: %w", err)
	}
	return Run{
		ID:       id,
		Scenario: scenario,
		Kind:     kind,
		Pass:     pass,
		Snapshot: string(data),
		Failures: failures,
	}, nil
}

// Record inserts a run and assigns it the next sequence number.
// Uses ON CONFLICT(id) DO NOTHING for idempotency: recording an outcome
// that is already stored returns false and changes nothing.
func (s *Store) Record(ctx context.Context, run Run) (bool, error) {
	failures := run.Failures
	if failures == nil {
		failures = []string{}
	}
	failuresJSON, err := snapshot.Marshal(failures)
	if err != nil {
		return false, fmt.Errorf("record run: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, seq, scenario, kind, pass, snapshot, failures)
		VALUES (?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM runs), ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		run.ID,
		run.Scenario,
		run.Kind,
		run.Pass,
		run.Snapshot,
		string(failuresJSON),
	)
	if err != nil {
		return false, fmt.Errorf("record run: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("record run: %w", err)
	}
	return n == 1, nil
}

// ListOptions filters List.
type ListOptions struct {
	Scenario string // only runs of this scenario; empty for all
	Limit    int    // at most this many runs; 0 for no limit
}

// List returns runs newest first (ORDER BY seq DESC).
// Returns an empty slice (not nil) if no runs match.
func (s *Store) List(ctx context.Context, opts ListOptions) ([]Run, error) {
	query := `SELECT id, seq, scenario, kind, pass, snapshot, failures FROM runs`
	var args []any
	if opts.Scenario != "" {
		query += ` WHERE scenario = ?`
		args = append(args, opts.Scenario)
	}
	query += ` ORDER BY seq DESC`
	if opts.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, opts.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// Get returns the run with the given ID, or ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, seq, scenario, kind, pass, snapshot, failures
		FROM runs
		WHERE id = ?
	`, id)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("get run %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Run{}, err
	}
	return run, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var run Run
	var failuresJSON string
	if err := row.Scan(&run.ID, &run.Seq, &run.Scenario, &run.Kind, &run.Pass, &run.Snapshot, &failuresJSON); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	if err := json.Unmarshal([]byte(failuresJSON), &run.Failures); err != nil {
		return Run{}, fmt.Errorf("decode failures for run %s: %w", run.ID, err)
	}
	if len(run.Failures) == 0 {
		run.Failures = nil
	}
	return run, nil
}
