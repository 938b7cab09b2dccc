package refgraph

import "context"

// Store persists reference edges. Implementations must scope every
// operation by owner id: an edge belonging to another owner is
// indistinguishable from an absent one.
type Store interface {
	// Insert persists a new edge.
	Insert(ctx context.Context, edge Edge) error

	// Get retrieves an edge by id. Returns ErrNotFound when absent or
	// owned by someone else.
	Get(ctx context.Context, ownerID, edgeID string) (Edge, error)

	// Update replaces an edge's mutable fields (type, context, snippet).
	// Returns ErrNotFound when absent or owned by someone else.
	Update(ctx context.Context, edge Edge) error

	// Delete removes an edge by id. Returns ErrNotFound when absent or
	// owned by someone else.
	Delete(ctx context.Context, ownerID, edgeID string) error

	// Outgoing returns edges whose source is the given resource,
	// newest first.
	Outgoing(ctx context.Context, ownerID, sourceID string) ([]Edge, error)

	// Incoming returns edges whose resource-typed target is the given
	// resource, newest first.
	Incoming(ctx context.Context, ownerID, resourceID string) ([]Edge, error)

	// DeleteEndpoint removes every edge that touches the given target as
	// an endpoint: edges targeting it, and, for resource targets, edges
	// sourced from it. Returns the number of edges removed. Used to
	// cascade when a content item is deleted.
	DeleteEndpoint(ctx context.Context, ownerID string, target Target) (int, error)

	// Close releases any resources held by the store.
	Close() error
}

// OwnerChecker verifies resource ownership. The surrounding application
// supplies an implementation backed by its resource records; edge creation
// uses it to reject sources the caller does not own.
type OwnerChecker interface {
	OwnsResource(ctx context.Context, ownerID, resourceID string) (bool, error)
}
