// Package summary manages versioned, regenerable content summaries.
//
// Each (resource, kind) group forms a singly-linked version chain: every
// version optionally points at the version it superseded, terminating at a
// root with no predecessor. The "current" version of a group is tracked by
// an external latest pointer maintained by the store, not by chain
// traversal.
package summary

import (
	"context"
	"time"
)

// Kind identifies a summary variant as a type and length composite,
// e.g. {Type: "overview", Length: "brief"}.
type Kind struct {
	Type   string `json:"type"`
	Length string `json:"length"`
}

// String renders the kind as type:length for logs and store keys.
func (k Kind) String() string { return k.Type + ":" + k.Length }

// Version is a single generated summary in a (resource, kind) chain.
type Version struct {
	ID          string    `json:"id"`
	ResourceID  string    `json:"resource_id"`
	OwnerID     string    `json:"owner_id"`
	Kind        Kind      `json:"kind"`
	Content     string    `json:"content"`
	GeneratedAt time.Time `json:"generated_at"`

	// PredecessorID points at the version this one superseded.
	// Empty for the chain root.
	PredecessorID string `json:"predecessor_id,omitempty"`
}

// Store persists summary versions and the per-group latest pointer.
// Implementations must scope every operation by owner id.
type Store interface {
	// Insert persists a new version.
	Insert(ctx context.Context, v Version) error

	// Get retrieves a version by id. Returns ErrNotFound when absent or
	// owned by someone else.
	Get(ctx context.Context, ownerID, versionID string) (Version, error)

	// UpdateContent overwrites a version's content and generation time in
	// place. Returns ErrNotFound when absent or owned by someone else.
	UpdateContent(ctx context.Context, ownerID, versionID, content string, generatedAt time.Time) error

	// Latest returns the current version of a (resource, kind) group.
	// Returns ErrNotFound when the group has no versions.
	Latest(ctx context.Context, ownerID, resourceID string, kind Kind) (Version, error)

	// SetLatest moves the group's latest pointer to versionID.
	SetLatest(ctx context.Context, ownerID, resourceID string, kind Kind, versionID string) error

	// Close releases any resources held by the store.
	Close() error
}
