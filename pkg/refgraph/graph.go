package refgraph

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/loomkb/loom/pkg/eventstream"
)

// Graph exposes reference edge operations over a Store, enforcing the
// target, type, and ownership invariants at the boundary.
type Graph struct {
	store   Store
	owners  OwnerChecker
	events  eventstream.Publisher
	logger  *zap.Logger
	nowFunc func() time.Time
}

// NewGraph creates a Graph over the given store. The owner checker guards
// edge creation; the publisher receives best-effort mutation events.
func NewGraph(store Store, owners OwnerChecker, events eventstream.Publisher, logger *zap.Logger) *Graph {
	return &Graph{
		store:   store,
		owners:  owners,
		events:  events,
		logger:  logger,
		nowFunc: time.Now,
	}
}

// Create validates and persists a new edge from sourceID to target.
func (g *Graph) Create(ctx context.Context, ownerID, sourceID string, target Target, typ Type, linkContext, snippet string) (Edge, error) {
	if target.IsZero() {
		return Edge{}, fmt.Errorf("%w: no target arm set", ErrInvalidTarget)
	}
	if !target.Kind().Valid() {
		return Edge{}, fmt.Errorf("%w: unknown target kind %q", ErrInvalidTarget, target.Kind())
	}
	if !typ.Valid() {
		return Edge{}, fmt.Errorf("%w: %q", ErrInvalidType, typ)
	}
	if target.Kind() == TargetResource && target.ID() == sourceID {
		return Edge{}, fmt.Errorf("%w: %s", ErrSelfReference, sourceID)
	}

	owns, err := g.owners.OwnsResource(ctx, ownerID, sourceID)
	if err != nil {
		return Edge{}, fmt.Errorf("checking source ownership: %w", err)
	}
	if !owns {
		return Edge{}, fmt.Errorf("%w: source resource %s", ErrNotFound, sourceID)
	}

	edge := Edge{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		SourceID:  sourceID,
		Target:    target,
		Type:      typ,
		Context:   linkContext,
		Snippet:   snippet,
		CreatedAt: g.nowFunc().UTC(),
	}

	if err := g.store.Insert(ctx, edge); err != nil {
		return Edge{}, fmt.Errorf("inserting edge: %w", err)
	}

	g.publish(ctx, eventstream.EventTypeEdgeCreated, ownerID, edge.ID, map[string]string{
		"source_id": sourceID,
		"target":    target.String(),
		"type":      string(typ),
	})

	g.logger.Debug("created reference edge",
		zap.String("owner_id", ownerID),
		zap.String("edge_id", edge.ID),
		zap.String("source_id", sourceID),
		zap.String("target", target.String()),
	)

	return edge, nil
}

// List returns edges touching resourceID according to opts, newest first.
// With neither direction selected it returns an empty set without error.
func (g *Graph) List(ctx context.Context, ownerID, resourceID string, opts ListOptions) ([]Edge, error) {
	if !opts.IncludeOutgoing && !opts.IncludeIncoming {
		return nil, nil
	}

	limit := opts.Limit
	if limit == 0 {
		limit = DefaultListLimit
	}

	var edges []Edge

	if opts.IncludeOutgoing {
		outgoing, err := g.store.Outgoing(ctx, ownerID, resourceID)
		if err != nil {
			return nil, fmt.Errorf("listing outgoing edges: %w", err)
		}
		edges = append(edges, outgoing...)
	}

	if opts.IncludeIncoming {
		incoming, err := g.store.Incoming(ctx, ownerID, resourceID)
		if err != nil {
			return nil, fmt.Errorf("listing incoming edges: %w", err)
		}
		edges = append(edges, incoming...)
	}

	if opts.Type != "" {
		filtered := edges[:0]
		for _, e := range edges {
			if e.Type == opts.Type {
				filtered = append(filtered, e)
			}
		}
		edges = filtered
	}

	sort.Slice(edges, func(i, j int) bool {
		return edges[i].CreatedAt.After(edges[j].CreatedAt)
	})

	if limit > 0 && len(edges) > limit {
		edges = edges[:limit]
	}

	return edges, nil
}

// Update mutates an edge's type, context, and snippet fields. Endpoints are
// immutable and not part of EdgeUpdate.
func (g *Graph) Update(ctx context.Context, ownerID, edgeID string, upd EdgeUpdate) (Edge, error) {
	edge, err := g.store.Get(ctx, ownerID, edgeID)
	if err != nil {
		return Edge{}, err
	}

	if upd.Type != nil {
		if !upd.Type.Valid() {
			return Edge{}, fmt.Errorf("%w: %q", ErrInvalidType, *upd.Type)
		}
		edge.Type = *upd.Type
	}
	if upd.Context != nil {
		edge.Context = *upd.Context
	}
	if upd.Snippet != nil {
		edge.Snippet = *upd.Snippet
	}

	if err := g.store.Update(ctx, edge); err != nil {
		return Edge{}, fmt.Errorf("updating edge: %w", err)
	}

	g.publish(ctx, eventstream.EventTypeEdgeUpdated, ownerID, edge.ID, map[string]string{
		"type": string(edge.Type),
	})

	return edge, nil
}

// Delete removes an edge. Deleting an absent edge returns ErrNotFound.
func (g *Graph) Delete(ctx context.Context, ownerID, edgeID string) error {
	if err := g.store.Delete(ctx, ownerID, edgeID); err != nil {
		return err
	}

	g.publish(ctx, eventstream.EventTypeEdgeDeleted, ownerID, edgeID, nil)
	return nil
}

// CascadeDelete removes every edge touching target, used when the
// underlying content item is deleted.
func (g *Graph) CascadeDelete(ctx context.Context, ownerID string, target Target) (int, error) {
	if target.IsZero() {
		return 0, fmt.Errorf("%w: no target arm set", ErrInvalidTarget)
	}

	removed, err := g.store.DeleteEndpoint(ctx, ownerID, target)
	if err != nil {
		return 0, fmt.Errorf("cascading edge deletion: %w", err)
	}

	if removed > 0 {
		g.logger.Debug("cascaded edge deletion",
			zap.String("owner_id", ownerID),
			zap.String("target", target.String()),
			zap.Int("removed", removed),
		)
	}

	return removed, nil
}

func (g *Graph) publish(ctx context.Context, eventType, ownerID, subjectID string, detail map[string]string) {
	event := &eventstream.LinkEvent{
		SchemaVersion: eventstream.SchemaVersionV1,
		EventType:     eventType,
		EventID:       uuid.NewString(),
		EmittedAt:     g.nowFunc().UTC(),
		OwnerID:       ownerID,
		SubjectID:     subjectID,
		Detail:        detail,
	}

	if err := g.events.PublishLink(ctx, event); err != nil {
		g.logger.Warn("failed to publish link event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}
