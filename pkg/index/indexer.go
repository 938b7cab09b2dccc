// Package index maintains the embedding for each content item: it hashes
// source text, embeds changed content, and keeps the vector store in sync
// with item lifecycle.
package index

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/loomkb/loom/pkg/embeddings"
	"github.com/loomkb/loom/pkg/eventstream"
	"github.com/loomkb/loom/pkg/vector"
)

// Indexer creates and replaces item embeddings. Indexing is a primary
// operation: embedding failures are surfaced, not swallowed.
type Indexer struct {
	embedder embeddings.Embedder
	vectors  vector.Driver
	events   eventstream.Publisher
	logger   *zap.Logger
	nowFunc  func() time.Time
}

// NewIndexer creates an Indexer over the given embedder and vector driver.
func NewIndexer(embedder embeddings.Embedder, vectors vector.Driver, events eventstream.Publisher, logger *zap.Logger) *Indexer {
	return &Indexer{
		embedder: embedder,
		vectors:  vectors,
		events:   events,
		logger:   logger,
		nowFunc:  time.Now,
	}
}

// HashText returns the sha256 hex digest of text, used to detect unchanged
// content.
func HashText(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// IndexItem embeds text and upserts the item's vector. When the stored
// text hash already matches, the item is skipped and IndexItem reports
// false without calling the embedder.
func (ix *Indexer) IndexItem(ctx context.Context, ownerID, itemID string, kind vector.Kind, text string) (bool, error) {
	if !kind.Valid() {
		return false, fmt.Errorf("unknown item kind %q", kind)
	}

	textHash := HashText(text)

	existing, err := ix.vectors.Lookup(ctx, ownerID, itemID, kind)
	if err == nil && existing.TextHash == textHash {
		ix.logger.Debug("skipping unchanged item",
			zap.String("owner_id", ownerID),
			zap.String("item_id", itemID),
		)
		return false, nil
	}

	embedding, err := ix.embedder.Embed(ctx, text)
	if err != nil {
		return false, fmt.Errorf("embedding item %s: %w", itemID, err)
	}

	err = ix.vectors.Upsert(ctx, vector.Item{
		OwnerID:   ownerID,
		ItemID:    itemID,
		Kind:      kind,
		Embedding: embedding,
		TextHash:  textHash,
		UpdatedAt: ix.nowFunc().UTC(),
	})
	if err != nil {
		return false, fmt.Errorf("storing embedding for item %s: %w", itemID, err)
	}

	ix.publish(ctx, ownerID, itemID, kind)

	return true, nil
}

// RemoveItem deletes the item's embedding, called when the owning item is
// deleted.
func (ix *Indexer) RemoveItem(ctx context.Context, ownerID, itemID string, kind vector.Kind) error {
	if err := ix.vectors.Remove(ctx, ownerID, itemID, kind); err != nil {
		return fmt.Errorf("removing embedding for item %s: %w", itemID, err)
	}
	return nil
}

func (ix *Indexer) publish(ctx context.Context, ownerID, itemID string, kind vector.Kind) {
	event := &eventstream.LinkEvent{
		SchemaVersion: eventstream.SchemaVersionV1,
		EventType:     eventstream.EventTypeItemIndexed,
		EventID:       uuid.NewString(),
		EmittedAt:     ix.nowFunc().UTC(),
		OwnerID:       ownerID,
		SubjectID:     itemID,
		Detail:        map[string]string{"kind": string(kind)},
	}

	if err := ix.events.PublishLink(ctx, event); err != nil {
		ix.logger.Warn("failed to publish index event", zap.Error(err))
	}
}
