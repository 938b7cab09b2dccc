// Package pgvec provides a PostgreSQL-backed vector driver using pgvector.
package pgvec

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
	pgxvec "github.com/pgvector/pgvector-go/pgx"
	"go.uber.org/zap"

	"github.com/loomkb/loom/pkg/vector"
)

// PgVecDriver implements vector.Driver using PostgreSQL with the pgvector
// extension. Cosine distance (the <=> operator) maps to similarity as
// 1 - distance.
type PgVecDriver struct {
	pool       *pgxpool.Pool
	dimensions int
	logger     *zap.Logger
}

// Config holds configuration for the pgvector driver.
type Config struct {
	// DSN is the PostgreSQL connection string.
	DSN string

	// Dimensions is the number of dimensions for the embedding vectors.
	Dimensions int
}

// NewPgVecDriver creates a new PostgreSQL vector driver backed by pgvector.
func NewPgVecDriver(ctx context.Context, c Config, logger *zap.Logger) (*PgVecDriver, error) {
	if c.DSN == "" {
		return nil, fmt.Errorf("postgres DSN is required")
	}
	if c.Dimensions <= 0 {
		return nil, fmt.Errorf("pgvector embedding dimensions cannot be 0, must be configured")
	}

	poolCfg, err := pgxpool.ParseConfig(c.DSN)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing DSN: %v", vector.ErrConnection, err)
	}

	// Register pgvector types on every new connection so []float32
	// embeddings round-trip as vector columns.
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return pgxvec.RegisterTypes(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("%w: connecting: %v", vector.ErrConnection, err)
	}

	if _, err := pool.Exec(ctx, `CREATE EXTENSION IF NOT EXISTS vector`); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: enabling pgvector extension: %v", vector.ErrConnection, err)
	}

	createTable := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS embedded_items (
			owner_id TEXT NOT NULL,
			item_id TEXT NOT NULL,
			kind TEXT NOT NULL,
			embedding vector(%d) NOT NULL,
			text_hash TEXT NOT NULL DEFAULT '',
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (owner_id, item_id, kind)
		)
	`, c.Dimensions)
	if _, err := pool.Exec(ctx, createTable); err != nil {
		pool.Close()
		return nil, fmt.Errorf("creating embedded_items table: %w", err)
	}

	logger.Info("pgvector driver initialized",
		zap.Int("dimensions", c.Dimensions),
	)

	return &PgVecDriver{
		pool:       pool,
		dimensions: c.Dimensions,
		logger:     logger,
	}, nil
}

// Upsert stores an item's embedding using INSERT ... ON CONFLICT DO UPDATE,
// which replaces the row atomically per key.
func (d *PgVecDriver) Upsert(ctx context.Context, item vector.Item) error {
	if len(item.Embedding) != d.dimensions {
		return fmt.Errorf("%w: got %d, want %d",
			vector.ErrDimensionMismatch, len(item.Embedding), d.dimensions)
	}

	updatedAt := item.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}

	_, err := d.pool.Exec(ctx, `
		INSERT INTO embedded_items (owner_id, item_id, kind, embedding, text_hash, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (owner_id, item_id, kind) DO UPDATE SET
			embedding  = excluded.embedding,
			text_hash  = excluded.text_hash,
			updated_at = excluded.updated_at
	`, item.OwnerID, item.ItemID, item.Kind, pgvector.NewVector(item.Embedding), item.TextHash, updatedAt)
	if err != nil {
		return fmt.Errorf("upserting item %s: %w", item.ItemID, err)
	}

	d.logger.Debug("upserted vector to pgvector",
		zap.String("owner_id", item.OwnerID),
		zap.String("item_id", item.ItemID),
		zap.String("kind", string(item.Kind)),
	)

	return nil
}

// Lookup retrieves a stored item by key, including its embedding.
func (d *PgVecDriver) Lookup(ctx context.Context, ownerID, itemID string, kind vector.Kind) (vector.Item, error) {
	item := vector.Item{OwnerID: ownerID, ItemID: itemID, Kind: kind}

	var emb pgvector.Vector
	err := d.pool.QueryRow(ctx, `
		SELECT embedding, text_hash, updated_at
		FROM embedded_items
		WHERE owner_id = $1 AND item_id = $2 AND kind = $3
	`, ownerID, itemID, kind).Scan(&emb, &item.TextHash, &item.UpdatedAt)
	if err == pgx.ErrNoRows {
		return vector.Item{}, vector.ErrNotFound
	}
	if err != nil {
		return vector.Item{}, fmt.Errorf("querying item: %w", err)
	}

	item.Embedding = emb.Slice()
	return item, nil
}

// Remove deletes the embedding for the given key, if present.
func (d *PgVecDriver) Remove(ctx context.Context, ownerID, itemID string, kind vector.Kind) error {
	_, err := d.pool.Exec(ctx, `
		DELETE FROM embedded_items
		WHERE owner_id = $1 AND item_id = $2 AND kind = $3
	`, ownerID, itemID, kind)
	if err != nil {
		return fmt.Errorf("deleting item %s: %w", itemID, err)
	}
	return nil
}

// Query finds the owner's most similar items to the given embedding.
func (d *PgVecDriver) Query(ctx context.Context, ownerID string, embedding []float32, limit int, minScore float32) ([]vector.QueryResult, error) {
	if len(embedding) != d.dimensions {
		return nil, fmt.Errorf("%w: got %d, want %d",
			vector.ErrDimensionMismatch, len(embedding), d.dimensions)
	}
	if limit <= 0 {
		limit = 10
	}

	queryVec := pgvector.NewVector(embedding)

	rows, err := d.pool.Query(ctx, `
		SELECT item_id, kind, text_hash, updated_at, 1 - (embedding <=> $2) AS score
		FROM embedded_items
		WHERE owner_id = $1
			AND 1 - (embedding <=> $2) >= $3
		ORDER BY embedding <=> $2, updated_at DESC
		LIMIT $4
	`, ownerID, queryVec, minScore, limit)
	if err != nil {
		return nil, fmt.Errorf("querying vectors: %w", err)
	}
	defer rows.Close()

	var results []vector.QueryResult
	for rows.Next() {
		var r vector.QueryResult
		var score float64
		if err := rows.Scan(&r.ItemID, &r.Kind, &r.TextHash, &r.UpdatedAt, &score); err != nil {
			return nil, fmt.Errorf("scanning query result: %w", err)
		}
		if score < 0 {
			score = 0
		}
		r.Score = float32(score)
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating query results: %w", err)
	}

	return results, nil
}

// Close releases resources held by the driver.
func (d *PgVecDriver) Close() error {
	d.pool.Close()
	return nil
}

// Ensure PgVecDriver implements vector.Driver
var _ vector.Driver = (*PgVecDriver)(nil)
