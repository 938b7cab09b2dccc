// Package sqlite provides a SQLite-backed refgraph store.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/loomkb/loom/pkg/refgraph"
)

const schema = `
CREATE TABLE IF NOT EXISTS reference_edges (
	id TEXT PRIMARY KEY,
	owner_id TEXT NOT NULL,
	source_id TEXT NOT NULL,
	target_kind TEXT NOT NULL,
	target_id TEXT NOT NULL,
	ref_type TEXT NOT NULL,
	context TEXT NOT NULL DEFAULT '',
	snippet TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_edges_source ON reference_edges(owner_id, source_id);
CREATE INDEX IF NOT EXISTS idx_edges_target ON reference_edges(owner_id, target_kind, target_id);
`

// Store implements refgraph.Store using SQLite.
type Store struct {
	db *sql.DB
}

// NewStore opens (and if needed initializes) a SQLite-backed edge store.
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
		return nil, fmt.Errorf("creating edges schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Insert persists a new edge.
func (s *Store) Insert(ctx context.Context, edge refgraph.Edge) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reference_edges (id, owner_id, source_id, target_kind, target_id, ref_type, context, snippet, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, edge.ID, edge.OwnerID, edge.SourceID, edge.Target.Kind(), edge.Target.ID(),
		edge.Type, edge.Context, edge.Snippet, edge.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting edge %s: %w", edge.ID, err)
	}
	return nil
}

// Get retrieves an edge by id.
func (s *Store) Get(ctx context.Context, ownerID, edgeID string) (refgraph.Edge, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, owner_id, source_id, target_kind, target_id, ref_type, context, snippet, created_at
		FROM reference_edges
		WHERE id = ? AND owner_id = ?
	`, edgeID, ownerID)

	edge, err := scanEdge(row)
	if err == sql.ErrNoRows {
		return refgraph.Edge{}, refgraph.ErrNotFound
	}
	if err != nil {
		return refgraph.Edge{}, fmt.Errorf("querying edge %s: %w", edgeID, err)
	}
	return edge, nil
}

// Update replaces an edge's mutable fields.
func (s *Store) Update(ctx context.Context, edge refgraph.Edge) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE reference_edges
		SET ref_type = ?, context = ?, snippet = ?
		WHERE id = ? AND owner_id = ?
	`, edge.Type, edge.Context, edge.Snippet, edge.ID, edge.OwnerID)
	if err != nil {
		return fmt.Errorf("updating edge %s: %w", edge.ID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update of edge %s: %w", edge.ID, err)
	}
	if affected == 0 {
		return refgraph.ErrNotFound
	}
	return nil
}

// Delete removes an edge by id.
func (s *Store) Delete(ctx context.Context, ownerID, edgeID string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM reference_edges WHERE id = ? AND owner_id = ?`, edgeID, ownerID)
	if err != nil {
		return fmt.Errorf("deleting edge %s: %w", edgeID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking deletion of edge %s: %w", edgeID, err)
	}
	if affected == 0 {
		return refgraph.ErrNotFound
	}
	return nil
}

// Outgoing returns edges whose source is the given resource, newest first.
func (s *Store) Outgoing(ctx context.Context, ownerID, sourceID string) ([]refgraph.Edge, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, owner_id, source_id, target_kind, target_id, ref_type, context, snippet, created_at
		FROM reference_edges
		WHERE owner_id = ? AND source_id = ?
		ORDER BY created_at DESC
	`, ownerID, sourceID)
	if err != nil {
		return nil, fmt.Errorf("querying outgoing edges: %w", err)
	}
	defer rows.Close()

	return collectEdges(rows)
}

// Incoming returns edges whose resource-typed target is the given resource,
// newest first.
func (s *Store) Incoming(ctx context.Context, ownerID, resourceID string) ([]refgraph.Edge, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, owner_id, source_id, target_kind, target_id, ref_type, context, snippet, created_at
		FROM reference_edges
		WHERE owner_id = ? AND target_kind = ? AND target_id = ?
		ORDER BY created_at DESC
	`, ownerID, refgraph.TargetResource, resourceID)
	if err != nil {
		return nil, fmt.Errorf("querying incoming edges: %w", err)
	}
	defer rows.Close()

	return collectEdges(rows)
}

// DeleteEndpoint removes every edge touching the given target.
func (s *Store) DeleteEndpoint(ctx context.Context, ownerID string, target refgraph.Target) (int, error) {
	var (
		result sql.Result
		err    error
	)

	if target.Kind() == refgraph.TargetResource {
		result, err = s.db.ExecContext(ctx, `
			DELETE FROM reference_edges
			WHERE owner_id = ?
				AND ((target_kind = ? AND target_id = ?) OR source_id = ?)
		`, ownerID, target.Kind(), target.ID(), target.ID())
	} else {
		result, err = s.db.ExecContext(ctx, `
			DELETE FROM reference_edges
			WHERE owner_id = ? AND target_kind = ? AND target_id = ?
		`, ownerID, target.Kind(), target.ID())
	}
	if err != nil {
		return 0, fmt.Errorf("deleting edges for endpoint %s: %w", target, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting deleted edges: %w", err)
	}
	return int(affected), nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEdge(row rowScanner) (refgraph.Edge, error) {
	var (
		edge       refgraph.Edge
		targetKind refgraph.TargetKind
		targetID   string
	)
	err := row.Scan(&edge.ID, &edge.OwnerID, &edge.SourceID, &targetKind, &targetID,
		&edge.Type, &edge.Context, &edge.Snippet, &edge.CreatedAt)
	if err != nil {
		return refgraph.Edge{}, err
	}

	target, err := refgraph.NewTarget(targetKind, targetID)
	if err != nil {
		return refgraph.Edge{}, fmt.Errorf("rehydrating edge %s: %w", edge.ID, err)
	}
	edge.Target = target
	return edge, nil
}

func collectEdges(rows *sql.Rows) ([]refgraph.Edge, error) {
	var edges []refgraph.Edge
	for rows.Next() {
		edge, err := scanEdge(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning edge: %w", err)
		}
		edges = append(edges, edge)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating edges: %w", err)
	}
	return edges, nil
}

// Ensure Store implements refgraph.Store
var _ refgraph.Store = (*Store)(nil)
