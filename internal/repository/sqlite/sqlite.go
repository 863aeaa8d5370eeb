// Package sqlite implements the model library on an embedded SQLite
// database via the pure-Go modernc driver.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"waterworks/internal/domain"
	"waterworks/internal/repository"

	_ "modernc.org/sqlite"
)

// Store implements repository.Store using SQLite.
type Store struct {
	db *sql.DB
}

var _ repository.Store = (*Store)(nil)

// New opens (and if needed creates) the library database at dbPath.
// ":memory:" gives a throwaway in-process library.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS snapshots (
		name TEXT PRIMARY KEY,
		flow_units TEXT NOT NULL,
		node_count INTEGER NOT NULL,
		link_count INTEGER NOT NULL,
		data JSON NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		snapshot TEXT NOT NULL,
		engine TEXT NOT NULL,
		steps INTEGER NOT NULL DEFAULT 0,
		succeeded INTEGER NOT NULL,
		diagnostic TEXT,
		started_at DATETIME NOT NULL,
		FOREIGN KEY (snapshot) REFERENCES snapshots(name) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_runs_snapshot ON runs(snapshot);
	`

	_, err := s.db.Exec(schema)
	return err
}

// SaveNetwork inserts or replaces a named snapshot.
func (s *Store) SaveNetwork(ctx context.Context, name string, net *domain.Network) error {
	data, err := json.Marshal(net)
	if err != nil {
		return fmt.Errorf("failed to marshal network: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO snapshots (name, flow_units, node_count, link_count, data, updated_at)
		VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(name) DO UPDATE SET
			flow_units = excluded.flow_units,
			node_count = excluded.node_count,
			link_count = excluded.link_count,
			data = excluded.data,
			updated_at = CURRENT_TIMESTAMP
	`, name, string(net.Options.FlowUnits), len(net.Nodes), len(net.Links), data)
	if err != nil {
		return fmt.Errorf("failed to save snapshot %s: %w", name, err)
	}
	return nil
}

// LoadNetwork reads a named snapshot back into a network.
func (s *Store) LoadNetwork(ctx context.Context, name string) (*domain.Network, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT data FROM snapshots WHERE name = ?
	`, name).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", repository.ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot: %w", err)
	}

	net := domain.NewNetwork()
	if err := json.Unmarshal(data, net); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot %s: %w", name, err)
	}
	return net, nil
}

// ListNetworks returns summaries for every snapshot, most recent first.
func (s *Store) ListNetworks(ctx context.Context) ([]repository.Summary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, flow_units, node_count, link_count, updated_at
		FROM snapshots ORDER BY updated_at DESC, name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	var out []repository.Summary
	for rows.Next() {
		var sum repository.Summary
		if err := rows.Scan(&sum.Name, &sum.FlowUnits, &sum.Nodes, &sum.Links, &sum.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

// DeleteNetwork removes a snapshot and its run history.
func (s *Store) DeleteNetwork(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM snapshots WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", repository.ErrNotFound, name)
	}
	return nil
}

// RecordRun appends one run outcome to the history.
func (s *Store) RecordRun(ctx context.Context, rec repository.RunRecord) error {
	started := rec.StartedAt
	if started.IsZero() {
		started = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (snapshot, engine, steps, succeeded, diagnostic, started_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, rec.Snapshot, rec.Engine, rec.Steps, rec.Succeeded, rec.Diagnostic, started)
	if err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	return nil
}

// ListRuns returns the run history for a snapshot, newest first.
func (s *Store) ListRuns(ctx context.Context, snapshot string) ([]repository.RunRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT snapshot, engine, steps, succeeded, diagnostic, started_at
		FROM runs WHERE snapshot = ? ORDER BY started_at DESC, id DESC
	`, snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var out []repository.RunRecord
	for rows.Next() {
		var rec repository.RunRecord
		var diag sql.NullString
		if err := rows.Scan(&rec.Snapshot, &rec.Engine, &rec.Steps, &rec.Succeeded, &diag, &rec.StartedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		rec.Diagnostic = diag.String
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
