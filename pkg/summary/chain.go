package summary

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/loomkb/loom/pkg/eventstream"
)

// RegenerateResult carries the outcome of a regeneration.
type RegenerateResult struct {
	// Version is the current version after regeneration: the newly
	// appended version when the original was preserved, otherwise the
	// mutated record.
	Version Version `json:"version"`

	// Original is the superseded version, retrievable for comparison.
	// Nil after a destructive (overwrite) regeneration.
	Original *Version `json:"original,omitempty"`
}

// Chain manages summary version chains over a Store. Content generation is
// the caller's concern; Chain only does version-chain bookkeeping.
type Chain struct {
	store   Store
	events  eventstream.Publisher
	logger  *zap.Logger
	locks   *keyedMutex
	nowFunc func() time.Time
}

// NewChain creates a Chain over the given store.
func NewChain(store Store, events eventstream.Publisher, logger *zap.Logger) *Chain {
	return &Chain{
		store:   store,
		events:  events,
		logger:  logger,
		locks:   newKeyedMutex(),
		nowFunc: time.Now,
	}
}

// Create persists a new version for a (resource, kind) group. The first
// call starts a chain; later calls chain the new version onto the group's
// current one.
func (c *Chain) Create(ctx context.Context, ownerID, resourceID string, kind Kind, content string) (Version, error) {
	chainKey := groupKey(resourceID, kind)
	c.locks.Lock(chainKey)
	defer c.locks.Unlock(chainKey)

	v := Version{
		ID:          uuid.NewString(),
		ResourceID:  resourceID,
		OwnerID:     ownerID,
		Kind:        kind,
		Content:     content,
		GeneratedAt: c.nowFunc().UTC(),
	}

	// A pre-existing current version becomes this one's predecessor.
	if latest, err := c.store.Latest(ctx, ownerID, resourceID, kind); err == nil {
		v.PredecessorID = latest.ID
	}

	if err := c.store.Insert(ctx, v); err != nil {
		return Version{}, fmt.Errorf("inserting summary version: %w", err)
	}
	if err := c.store.SetLatest(ctx, ownerID, resourceID, kind, v.ID); err != nil {
		return Version{}, fmt.Errorf("setting latest pointer: %w", err)
	}

	return v, nil
}

// Regenerate replaces a summary's content.
//
// With preserveOriginal true, a new version is appended with its
// predecessor set to the group's current version; the prior version stays
// retrievable unmodified and is returned as Original.
//
// With preserveOriginal false, the existing version's content is
// overwritten in place. This is destructive: no separate original is
// retrievable afterward. Concurrent destructive regenerations of the same
// version fail fast with ErrConcurrentRegeneration.
func (c *Chain) Regenerate(ctx context.Context, ownerID, resourceID, summaryID, newContent string, preserveOriginal bool) (RegenerateResult, error) {
	original, err := c.store.Get(ctx, ownerID, summaryID)
	if err != nil {
		return RegenerateResult{}, err
	}
	if original.ResourceID != resourceID {
		return RegenerateResult{}, fmt.Errorf("%w: version %s does not belong to resource %s",
			ErrNotFound, summaryID, resourceID)
	}

	if !preserveOriginal {
		return c.overwrite(ctx, original, newContent)
	}
	return c.append(ctx, original, newContent)
}

// append creates a new version chained onto the group's current version.
// The chain lock makes the latest-pointer read and update one consistent
// step, so two interleaved preserving regenerations chain onto each other
// instead of both claiming the same predecessor.
func (c *Chain) append(ctx context.Context, original Version, newContent string) (RegenerateResult, error) {
	chainKey := groupKey(original.ResourceID, original.Kind)
	c.locks.Lock(chainKey)
	defer c.locks.Unlock(chainKey)

	predecessorID := original.ID
	if latest, err := c.store.Latest(ctx, original.OwnerID, original.ResourceID, original.Kind); err == nil {
		predecessorID = latest.ID
	}

	v := Version{
		ID:            uuid.NewString(),
		ResourceID:    original.ResourceID,
		OwnerID:       original.OwnerID,
		Kind:          original.Kind,
		Content:       newContent,
		GeneratedAt:   c.nowFunc().UTC(),
		PredecessorID: predecessorID,
	}

	if err := c.store.Insert(ctx, v); err != nil {
		return RegenerateResult{}, fmt.Errorf("inserting summary version: %w", err)
	}
	if err := c.store.SetLatest(ctx, original.OwnerID, original.ResourceID, original.Kind, v.ID); err != nil {
		return RegenerateResult{}, fmt.Errorf("setting latest pointer: %w", err)
	}

	c.publish(ctx, original.OwnerID, v.ID, map[string]string{
		"resource_id": original.ResourceID,
		"kind":        original.Kind.String(),
		"preserved":   "true",
	})

	return RegenerateResult{Version: v, Original: &original}, nil
}

// overwrite mutates the version's content in place, serialized per
// (resource, version) key.
func (c *Chain) overwrite(ctx context.Context, original Version, newContent string) (RegenerateResult, error) {
	versionKey := original.ResourceID + "\x00" + original.ID
	if !c.locks.TryLock(versionKey) {
		return RegenerateResult{}, fmt.Errorf("%w: version %s", ErrConcurrentRegeneration, original.ID)
	}
	defer c.locks.Unlock(versionKey)

	generatedAt := c.nowFunc().UTC()
	if err := c.store.UpdateContent(ctx, original.OwnerID, original.ID, newContent, generatedAt); err != nil {
		return RegenerateResult{}, err
	}

	mutated := original
	mutated.Content = newContent
	mutated.GeneratedAt = generatedAt

	c.publish(ctx, original.OwnerID, original.ID, map[string]string{
		"resource_id": original.ResourceID,
		"kind":        original.Kind.String(),
		"preserved":   "false",
	})

	return RegenerateResult{Version: mutated}, nil
}

// Get retrieves a single version by id.
func (c *Chain) Get(ctx context.Context, ownerID, versionID string) (Version, error) {
	return c.store.Get(ctx, ownerID, versionID)
}

// Latest returns the current version of a (resource, kind) group.
func (c *Chain) Latest(ctx context.Context, ownerID, resourceID string, kind Kind) (Version, error) {
	return c.store.Latest(ctx, ownerID, resourceID, kind)
}

// History walks the predecessor chain starting at versionID, newest first,
// terminating at the root. A malformed cycle stops the walk rather than
// looping.
func (c *Chain) History(ctx context.Context, ownerID, versionID string) ([]Version, error) {
	var history []Version
	seen := make(map[string]struct{})

	id := versionID
	for id != "" {
		if _, ok := seen[id]; ok {
			c.logger.Warn("summary version chain contains a cycle",
				zap.String("owner_id", ownerID),
				zap.String("version_id", id),
			)
			break
		}
		seen[id] = struct{}{}

		v, err := c.store.Get(ctx, ownerID, id)
		if err != nil {
			return nil, err
		}
		history = append(history, v)
		id = v.PredecessorID
	}

	return history, nil
}

func (c *Chain) publish(ctx context.Context, ownerID, subjectID string, detail map[string]string) {
	event := &eventstream.LinkEvent{
		SchemaVersion: eventstream.SchemaVersionV1,
		EventType:     eventstream.EventTypeSummaryRegenerated,
		EventID:       uuid.NewString(),
		EmittedAt:     c.nowFunc().UTC(),
		OwnerID:       ownerID,
		SubjectID:     subjectID,
		Detail:        detail,
	}

	if err := c.events.PublishLink(ctx, event); err != nil {
		c.logger.Warn("failed to publish summary event", zap.Error(err))
	}
}

func groupKey(resourceID string, kind Kind) string {
	return resourceID + "\x00" + kind.String()
}
