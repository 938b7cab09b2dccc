// Package sqlitevec provides a SQLite-backed vector driver using sqlite-vec.
package sqlitevec

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"time"

	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/loomkb/loom/pkg/vector"
)

// knnOverfetch is how many extra KNN candidates are requested per result
// slot. The vec0 MATCH runs before the owner filter is applied, so a query
// has to over-fetch to keep enough of its own tenant's rows after filtering.
const knnOverfetch = 8

// SQLiteVecDriver implements vector.Driver using SQLite with sqlite-vec.
type SQLiteVecDriver struct {
	db         *sql.DB
	dimensions int
	logger     *zap.Logger
}

// Config holds configuration for the SQLite vec driver.
type Config struct {
	// DBPath is the path to the SQLite database file.
	// Use ":memory:" for an in-memory database.
	DBPath string

	// Dimensions is the number of dimensions for the embedding vectors.
	Dimensions int
}

// NewSQLiteVecDriver creates a new SQLite vector driver backed by sqlite-vec.
func NewSQLiteVecDriver(c Config, logger *zap.Logger) (*SQLiteVecDriver, error) {
	// enable connection to have sqlite-vec extension
	sqlite_vec.Auto()

	if c.DBPath == "" {
		return nil, fmt.Errorf("database path is required")
	}

	if c.Dimensions <= 0 {
		return nil, fmt.Errorf("sqlite-vec embedding dimensions cannot be 0, must be configured")
	}

	db, err := sql.Open("sqlite3", c.DBPath)
	if err != nil {
		return nil, fmt.Errorf("%w: opening database: %v", vector.ErrConnection, err)
	}

	// Verify sqlite-vec is loaded
	var vecVersion string
	if err := db.QueryRow("SELECT vec_version()").Scan(&vecVersion); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: sqlite-vec not available: %v", vector.ErrConnection, err)
	}

	// Create the item key mapping table. vec0 virtual tables use integer
	// rowids, so the (owner, item, kind) key maps to an integer rowid here.
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS vec_items (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			owner_id TEXT NOT NULL,
			item_id TEXT NOT NULL,
			kind TEXT NOT NULL,
			text_hash TEXT NOT NULL DEFAULT '',
			updated_at TIMESTAMP NOT NULL,
			UNIQUE(owner_id, item_id, kind)
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating items table: %w", err)
	}

	// Cosine distance keeps the similarity conversion exact: score = 1 - distance.
	createVec := fmt.Sprintf(
		`CREATE VIRTUAL TABLE IF NOT EXISTS vec_embeddings USING vec0(embedding float[%d] distance_metric=cosine)`,
		c.Dimensions,
	)
	if _, err := db.Exec(createVec); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating vec0 table: %w", err)
	}

	logger.Info("sqlite-vec vector driver initialized",
		zap.String("db_path", c.DBPath),
		zap.Int("dimensions", c.Dimensions),
		zap.String("vec_version", vecVersion),
	)

	return &SQLiteVecDriver{
		db:         db,
		dimensions: c.Dimensions,
		logger:     logger,
	}, nil
}

// serializeFloat32 converts a float32 slice to a little-endian byte slice
// suitable for sqlite-vec BLOB format.
func serializeFloat32(v []float32) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// deserializeFloat32 converts a little-endian byte slice back to a float32 slice.
func deserializeFloat32(b []byte) ([]float32, error) {
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("invalid embedding blob length %d: must be divisible by 4", len(b))
	}
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v, nil
}

// Upsert stores an item's embedding, replacing any existing embedding for
// the same (owner, item, kind) key. The write runs in a single transaction,
// so readers never observe a partially replaced vector.
func (d *SQLiteVecDriver) Upsert(ctx context.Context, item vector.Item) error {
	if len(item.Embedding) != d.dimensions {
		return fmt.Errorf("%w: got %d, want %d",
			vector.ErrDimensionMismatch, len(item.Embedding), d.dimensions)
	}

	embBlob := serializeFloat32(item.Embedding)
	updatedAt := item.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	// Check if the key already exists
	var existingRowID int64
	err = tx.QueryRowContext(ctx,
		`SELECT rowid FROM vec_items WHERE owner_id = ? AND item_id = ? AND kind = ?`,
		item.OwnerID, item.ItemID, item.Kind,
	).Scan(&existingRowID)

	switch err {
	case nil:
		if _, err := tx.ExecContext(ctx,
			`UPDATE vec_items SET text_hash = ?, updated_at = ? WHERE rowid = ?`,
			item.TextHash, updatedAt, existingRowID,
		); err != nil {
			return fmt.Errorf("updating item %s: %w", item.ItemID, err)
		}

		// Replace embedding in vec0 via DELETE + INSERT
		// (vec0 does not support UPDATE)
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM vec_embeddings WHERE rowid = ?`, existingRowID,
		); err != nil {
			return fmt.Errorf("deleting old embedding for item %s: %w", item.ItemID, err)
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO vec_embeddings(rowid, embedding) VALUES (?, ?)`,
			existingRowID, embBlob,
		); err != nil {
			return fmt.Errorf("re-inserting embedding for item %s: %w", item.ItemID, err)
		}
	case sql.ErrNoRows:
		// New key — insert into mapping table first to get the rowid
		result, err := tx.ExecContext(ctx,
			`INSERT INTO vec_items(owner_id, item_id, kind, text_hash, updated_at) VALUES (?, ?, ?, ?, ?)`,
			item.OwnerID, item.ItemID, item.Kind, item.TextHash, updatedAt,
		)
		if err != nil {
			return fmt.Errorf("inserting item %s: %w", item.ItemID, err)
		}

		rowID, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("getting rowid for item %s: %w", item.ItemID, err)
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO vec_embeddings(rowid, embedding) VALUES (?, ?)`,
			rowID, embBlob,
		); err != nil {
			return fmt.Errorf("inserting embedding for item %s: %w", item.ItemID, err)
		}
	default:
		return fmt.Errorf("checking for existing item %s: %w", item.ItemID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	d.logger.Debug("upserted vector to sqlite-vec",
		zap.String("owner_id", item.OwnerID),
		zap.String("item_id", item.ItemID),
		zap.String("kind", string(item.Kind)),
	)

	return nil
}

// Lookup retrieves a stored item by key, including its embedding.
func (d *SQLiteVecDriver) Lookup(ctx context.Context, ownerID, itemID string, kind vector.Kind) (vector.Item, error) {
	var rowID int64
	item := vector.Item{OwnerID: ownerID, ItemID: itemID, Kind: kind}

	err := d.db.QueryRowContext(ctx,
		`SELECT rowid, text_hash, updated_at FROM vec_items WHERE owner_id = ? AND item_id = ? AND kind = ?`,
		ownerID, itemID, kind,
	).Scan(&rowID, &item.TextHash, &item.UpdatedAt)
	if err == sql.ErrNoRows {
		return vector.Item{}, vector.ErrNotFound
	}
	if err != nil {
		return vector.Item{}, fmt.Errorf("querying item: %w", err)
	}

	var embBlob []byte
	err = d.db.QueryRowContext(ctx,
		`SELECT embedding FROM vec_embeddings WHERE rowid = ?`, rowID,
	).Scan(&embBlob)
	if err == nil && len(embBlob) > 0 {
		item.Embedding, err = deserializeFloat32(embBlob)
		if err != nil {
			return vector.Item{}, fmt.Errorf("decoding embedding for item %s: %w", itemID, err)
		}
	}

	return item, nil
}

// Remove deletes the embedding for the given key, if present.
func (d *SQLiteVecDriver) Remove(ctx context.Context, ownerID, itemID string, kind vector.Kind) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var rowID int64
	err = tx.QueryRowContext(ctx,
		`SELECT rowid FROM vec_items WHERE owner_id = ? AND item_id = ? AND kind = ?`,
		ownerID, itemID, kind,
	).Scan(&rowID)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return fmt.Errorf("querying rowid for deletion: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM vec_embeddings WHERE rowid = ?`, rowID,
	); err != nil {
		return fmt.Errorf("deleting embedding rowid %d: %w", rowID, err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM vec_items WHERE rowid = ?`, rowID,
	); err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}

	return tx.Commit()
}

// Query finds the owner's most similar items to the given embedding.
func (d *SQLiteVecDriver) Query(ctx context.Context, ownerID string, embedding []float32, limit int, minScore float32) ([]vector.QueryResult, error) {
	if len(embedding) != d.dimensions {
		return nil, fmt.Errorf("%w: got %d, want %d",
			vector.ErrDimensionMismatch, len(embedding), d.dimensions)
	}
	if limit <= 0 {
		limit = 10
	}

	queryBlob := serializeFloat32(embedding)

	// KNN via vec0 MATCH, then JOIN back to filter by owner and apply the
	// similarity floor. Cosine distance maps to similarity as 1 - distance.
	rows, err := d.db.QueryContext(ctx, `
		SELECT
			i.item_id,
			i.kind,
			i.text_hash,
			i.updated_at,
			ve.distance
		FROM vec_embeddings ve
		INNER JOIN vec_items i ON i.rowid = ve.rowid
		WHERE ve.embedding MATCH ?
			AND ve.k = ?
			AND i.owner_id = ?
			AND (1.0 - ve.distance) >= ?
		ORDER BY ve.distance, i.updated_at DESC
		LIMIT ?
	`, queryBlob, limit*knnOverfetch, ownerID, minScore, limit)
	if err != nil {
		return nil, fmt.Errorf("querying vectors: %w", err)
	}
	defer rows.Close()

	var results []vector.QueryResult
	for rows.Next() {
		var r vector.QueryResult
		var distance float64
		if err := rows.Scan(&r.ItemID, &r.Kind, &r.TextHash, &r.UpdatedAt, &distance); err != nil {
			return nil, fmt.Errorf("scanning query result: %w", err)
		}

		score := 1.0 - distance
		if score < 0 {
			score = 0
		}
		r.Score = float32(score)
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating query results: %w", err)
	}

	d.logger.Debug("queried sqlite-vec",
		zap.String("owner_id", ownerID),
		zap.Int("results", len(results)),
	)

	return results, nil
}

// Close releases resources held by the driver.
func (d *SQLiteVecDriver) Close() error {
	return d.db.Close()
}

// Ensure SQLiteVecDriver implements vector.Driver
var _ vector.Driver = (*SQLiteVecDriver)(nil)
