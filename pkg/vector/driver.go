// Package vector provides interfaces and implementations for owner-scoped
// vector storage and cosine similarity search.
package vector

import (
	"context"
	"time"
)

// Kind identifies the type of content an embedding was computed from.
type Kind string

const (
	// KindResource marks embeddings computed from resource content.
	KindResource Kind = "resource"

	// KindNote marks embeddings computed from note content.
	KindNote Kind = "note"
)

// Valid reports whether k is a known item kind.
func (k Kind) Valid() bool {
	return k == KindResource || k == KindNote
}

// Item represents a stored embedding with its identifying metadata.
// At most one live Item exists per (OwnerID, ItemID, Kind).
type Item struct {
	// OwnerID scopes the item to a single tenant. Queries never cross
	// owner boundaries.
	OwnerID string

	// ItemID identifies the content item the embedding was computed from.
	ItemID string

	// Kind is the content item's kind (resource or note).
	Kind Kind

	// Embedding is the vector representation of the item's text.
	Embedding []float32

	// TextHash is a hash of the source text, used to skip re-embedding
	// unchanged content.
	TextHash string

	// UpdatedAt records when the embedding was last written. Used as the
	// tie-breaker when query scores are equal.
	UpdatedAt time.Time
}

// QueryResult represents a search hit with its similarity score.
type QueryResult struct {
	ItemID    string
	Kind      Kind
	TextHash  string
	UpdatedAt time.Time

	// Score is the cosine similarity to the query embedding,
	// clamped to [0, 1].
	Score float32
}

// Driver handles storage and retrieval of vector embeddings.
// All operations are scoped to a single owner; implementations must never
// return another owner's items from Query or Lookup.
type Driver interface {
	// Upsert stores an item's embedding, replacing any existing embedding
	// for the same (owner, item, kind) key. The replacement is atomic per
	// key: concurrent readers observe either the old or the new embedding,
	// never a partial write.
	Upsert(ctx context.Context, item Item) error

	// Lookup retrieves a stored item by key. Returns ErrNotFound when no
	// embedding exists for the key.
	Lookup(ctx context.Context, ownerID, itemID string, kind Kind) (Item, error)

	// Remove deletes the embedding for the given key. Removing an absent
	// key is not an error.
	Remove(ctx context.Context, ownerID, itemID string, kind Kind) error

	// Query returns up to limit items belonging to ownerID whose cosine
	// similarity to embedding is at least minScore, ordered by score
	// descending with ties broken by most recent UpdatedAt.
	Query(ctx context.Context, ownerID string, embedding []float32, limit int, minScore float32) ([]QueryResult, error)

	// Close releases any resources held by the driver.
	Close() error
}
