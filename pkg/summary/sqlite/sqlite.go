// Package sqlite provides a SQLite-backed summary store.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/loomkb/loom/pkg/summary"
)

const schema = `
CREATE TABLE IF NOT EXISTS summary_versions (
	id TEXT PRIMARY KEY,
	owner_id TEXT NOT NULL,
	resource_id TEXT NOT NULL,
	kind_type TEXT NOT NULL,
	kind_length TEXT NOT NULL,
	content TEXT NOT NULL,
	generated_at TIMESTAMP NOT NULL,
	predecessor_id TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_summaries_group
	ON summary_versions(owner_id, resource_id, kind_type, kind_length);

CREATE TABLE IF NOT EXISTS summary_latest (
	owner_id TEXT NOT NULL,
	resource_id TEXT NOT NULL,
	kind_type TEXT NOT NULL,
	kind_length TEXT NOT NULL,
	version_id TEXT NOT NULL,
	PRIMARY KEY (owner_id, resource_id, kind_type, kind_length)
);
`

// Store implements summary.Store using SQLite. The latest pointer lives in
// its own table keyed by the version group, per the external-index design.
type Store struct {
	db *sql.DB
}

// NewStore opens (and if needed initializes) a SQLite-backed summary store.
// Use ":memory:" for an in-memory database.
func NewStore(dbPath string) (*Store, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("database path is required")
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating summary schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Insert persists a new version.
func (s *Store) Insert(ctx context.Context, v summary.Version) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO summary_versions (id, owner_id, resource_id, kind_type, kind_length, content, generated_at, predecessor_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, v.ID, v.OwnerID, v.ResourceID, v.Kind.Type, v.Kind.Length, v.Content, v.GeneratedAt, v.PredecessorID)
	if err != nil {
		return fmt.Errorf("inserting summary version %s: %w", v.ID, err)
	}
	return nil
}

// Get retrieves a version by id.
func (s *Store) Get(ctx context.Context, ownerID, versionID string) (summary.Version, error) {
	var v summary.Version
	err := s.db.QueryRowContext(ctx, `
		SELECT id, owner_id, resource_id, kind_type, kind_length, content, generated_at, predecessor_id
		FROM summary_versions
		WHERE id = ? AND owner_id = ?
	`, versionID, ownerID).Scan(&v.ID, &v.OwnerID, &v.ResourceID, &v.Kind.Type, &v.Kind.Length,
		&v.Content, &v.GeneratedAt, &v.PredecessorID)
	if err == sql.ErrNoRows {
		return summary.Version{}, summary.ErrNotFound
	}
	if err != nil {
		return summary.Version{}, fmt.Errorf("querying summary version %s: %w", versionID, err)
	}
	return v, nil
}

// UpdateContent overwrites a version's content in place.
func (s *Store) UpdateContent(ctx context.Context, ownerID, versionID, content string, generatedAt time.Time) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE summary_versions
		SET content = ?, generated_at = ?
		WHERE id = ? AND owner_id = ?
	`, content, generatedAt, versionID, ownerID)
	if err != nil {
		return fmt.Errorf("updating summary version %s: %w", versionID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update of summary version %s: %w", versionID, err)
	}
	if affected == 0 {
		return summary.ErrNotFound
	}
	return nil
}

// Latest returns the current version of a (resource, kind) group.
func (s *Store) Latest(ctx context.Context, ownerID, resourceID string, kind summary.Kind) (summary.Version, error) {
	var versionID string
	err := s.db.QueryRowContext(ctx, `
		SELECT version_id FROM summary_latest
		WHERE owner_id = ? AND resource_id = ? AND kind_type = ? AND kind_length = ?
	`, ownerID, resourceID, kind.Type, kind.Length).Scan(&versionID)
	if err == sql.ErrNoRows {
		return summary.Version{}, summary.ErrNotFound
	}
	if err != nil {
		return summary.Version{}, fmt.Errorf("querying latest pointer: %w", err)
	}

	return s.Get(ctx, ownerID, versionID)
}

// SetLatest moves the group's latest pointer.
func (s *Store) SetLatest(ctx context.Context, ownerID, resourceID string, kind summary.Kind, versionID string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO summary_latest (owner_id, resource_id, kind_type, kind_length, version_id)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(owner_id, resource_id, kind_type, kind_length) DO UPDATE SET
			version_id = excluded.version_id
	`, ownerID, resourceID, kind.Type, kind.Length, versionID)
	if err != nil {
		return fmt.Errorf("setting latest pointer: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ensure Store implements summary.Store
var _ summary.Store = (*Store)(nil)
