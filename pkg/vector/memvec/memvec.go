// Package memvec provides an in-process vector driver using brute-force
// cosine similarity. It is the default for tests and local development.
package memvec

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/loomkb/loom/pkg/vector"
)

type itemKey struct {
	itemID string
	kind   vector.Kind
}

// Driver implements vector.Driver with per-owner in-memory buckets.
// It is safe for concurrent use.
type Driver struct {
	dimensions int
	logger     *zap.Logger

	mu sync.RWMutex

	// owners maps owner id -> item key -> stored item. Keeping each
	// tenant in its own bucket makes the isolation guarantee structural:
	// a query only ever walks its own owner's map.
	owners map[string]map[itemKey]vector.Item
}

// Config holds configuration for the in-memory driver.
type Config struct {
	// Dimensions is the required embedding vector length.
	Dimensions int
}

// NewDriver creates an in-memory vector driver.
func NewDriver(c Config, logger *zap.Logger) (*Driver, error) {
	if c.Dimensions <= 0 {
		return nil, fmt.Errorf("memvec embedding dimensions cannot be 0, must be configured")
	}

	return &Driver{
		dimensions: c.Dimensions,
		logger:     logger,
		owners:     make(map[string]map[itemKey]vector.Item),
	}, nil
}

// Upsert stores or replaces the embedding for the item's key.
func (d *Driver) Upsert(_ context.Context, item vector.Item) error {
	if len(item.Embedding) != d.dimensions {
		return fmt.Errorf("%w: got %d, want %d",
			vector.ErrDimensionMismatch, len(item.Embedding), d.dimensions)
	}

	// Copy the embedding so later caller mutations cannot tear a stored
	// vector out from under a concurrent query.
	stored := item
	stored.Embedding = append([]float32(nil), item.Embedding...)

	d.mu.Lock()
	defer d.mu.Unlock()

	bucket, ok := d.owners[item.OwnerID]
	if !ok {
		bucket = make(map[itemKey]vector.Item)
		d.owners[item.OwnerID] = bucket
	}
	bucket[itemKey{itemID: item.ItemID, kind: item.Kind}] = stored

	d.logger.Debug("upserted vector",
		zap.String("owner_id", item.OwnerID),
		zap.String("item_id", item.ItemID),
		zap.String("kind", string(item.Kind)),
	)

	return nil
}

// Lookup retrieves a stored item by key.
func (d *Driver) Lookup(_ context.Context, ownerID, itemID string, kind vector.Kind) (vector.Item, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	item, ok := d.owners[ownerID][itemKey{itemID: itemID, kind: kind}]
	if !ok {
		return vector.Item{}, vector.ErrNotFound
	}
	return item, nil
}

// Remove deletes the embedding for the given key, if present.
func (d *Driver) Remove(_ context.Context, ownerID, itemID string, kind vector.Kind) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	delete(d.owners[ownerID], itemKey{itemID: itemID, kind: kind})
	return nil
}

// Query scores every item in the owner's bucket against the query embedding
// and returns the top matches.
func (d *Driver) Query(_ context.Context, ownerID string, embedding []float32, limit int, minScore float32) ([]vector.QueryResult, error) {
	if len(embedding) != d.dimensions {
		return nil, fmt.Errorf("%w: got %d, want %d",
			vector.ErrDimensionMismatch, len(embedding), d.dimensions)
	}
	if limit <= 0 {
		limit = 10
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	var results []vector.QueryResult
	for _, item := range d.owners[ownerID] {
		score := vector.Cosine(embedding, item.Embedding)
		if score < minScore {
			continue
		}
		results = append(results, vector.QueryResult{
			ItemID:    item.ItemID,
			Kind:      item.Kind,
			TextHash:  item.TextHash,
			UpdatedAt: item.UpdatedAt,
			Score:     score,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].UpdatedAt.After(results[j].UpdatedAt)
	})

	if len(results) > limit {
		results = results[:limit]
	}

	return results, nil
}

// Close releases resources held by the driver.
func (d *Driver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.owners = make(map[string]map[itemKey]vector.Item)
	return nil
}

// Ensure Driver implements vector.Driver
var _ vector.Driver = (*Driver)(nil)
