// Package audit persists resolved-configuration snapshots for later
// inspection. Each successful resolution can be recorded as one row: a
// generated identifier, a timestamp, and the flat key-value mapping encoded
// as JSON. Storage is SQLite through database/sql.
package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver
)

// schema creates the snapshot table on open. Idempotent.
const schema = `
CREATE TABLE IF NOT EXISTS config_snapshots (
	id          TEXT PRIMARY KEY,
	recorded_at TEXT NOT NULL,
	config      TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_snapshots_recorded_at ON config_snapshots(recorded_at);
`

// Snapshot is one recorded configuration resolution.
type Snapshot struct {
	// ID is the generated snapshot identifier.
	ID string

	// RecordedAt is when the snapshot was taken (UTC).
	RecordedAt time.Time

	// Config is the resolved flat key-value mapping.
	Config map[string]string
}

// Store is a SQLite-backed snapshot store.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens (creating if needed) the snapshot database at path and ensures
// the schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot database %q: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create snapshot schema: %w", err)
	}

	return &Store{
		db:     db,
		logger: slog.Default().With("component", "audit"),
	}, nil
}

// Record persists one snapshot of cfg and returns its generated identifier.
func (s *Store) Record(ctx context.Context, cfg map[string]string) (string, error) {
	encoded, err := json.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}

	id := uuid.New().String()
	recordedAt := time.Now().UTC().Format(time.RFC3339Nano)

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO config_snapshots (id, recorded_at, config) VALUES (?, ?, ?)`,
		id, recordedAt, string(encoded),
	)
	if err != nil {
		return "", fmt.Errorf("insert snapshot: %w", err)
	}

	s.logger.Info("recorded config snapshot", "id", id, "keys", len(cfg))
	return id, nil
}

// List returns the most recent snapshots, newest first, up to limit.
// limit <= 0 returns everything.
func (s *Store) List(ctx context.Context, limit int) ([]Snapshot, error) {
	query := `SELECT id, recorded_at, config FROM config_snapshots ORDER BY recorded_at DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []Snapshot
	for rows.Next() {
		var (
			snap       Snapshot
			recordedAt string
			encoded    string
		)
		if err := rows.Scan(&snap.ID, &recordedAt, &encoded); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		if snap.RecordedAt, err = time.Parse(time.RFC3339Nano, recordedAt); err != nil {
			return nil, fmt.Errorf("parse snapshot timestamp: %w", err)
		}
		if err := json.Unmarshal([]byte(encoded), &snap.Config); err != nil {
			return nil, fmt.Errorf("decode snapshot %s: %w", snap.ID, err)
		}
		snapshots = append(snapshots, snap)
	}
	return snapshots, rows.Err()
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
