// Package refgraph maintains the typed, bidirectional reference graph
// between resources, projects, areas, and notes.
//
// Edges are directed: the source is always a resource, the target is any
// content item expressed as a one-armed [Target] union. Edge endpoints are
// immutable after creation; only the type, context, and snippet fields may
// be updated. Edges are independent rows — no cross-edge locking is needed
// for mutations.
package refgraph

import (
	"time"
)

// Type classifies how a reference edge came to exist.
type Type string

const (
	TypeManual        Type = "MANUAL"
	TypeAISuggested   Type = "AI_SUGGESTED"
	TypeAutoGenerated Type = "AUTO_GENERATED"
	TypeCitation      Type = "CITATION"
	TypeMention       Type = "MENTION"
	TypeRelated       Type = "RELATED"
)

// Valid reports whether t is a known reference type.
func (t Type) Valid() bool {
	switch t {
	case TypeManual, TypeAISuggested, TypeAutoGenerated, TypeCitation, TypeMention, TypeRelated:
		return true
	}
	return false
}

// Edge is a typed, directed link from a source resource to a target item.
type Edge struct {
	ID       string `json:"id"`
	OwnerID  string `json:"owner_id"`
	SourceID string `json:"source_id"`
	Target   Target `json:"target"`
	Type     Type   `json:"type"`

	// Context optionally records why the link exists.
	Context string `json:"context,omitempty"`

	// Snippet optionally quotes the text the link was derived from.
	Snippet string `json:"snippet,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// EdgeUpdate describes a partial update of an edge's mutable fields.
// Nil fields are left unchanged. Endpoints cannot be updated.
type EdgeUpdate struct {
	Type    *Type
	Context *string
	Snippet *string
}

// ListOptions controls which edges List returns.
type ListOptions struct {
	// IncludeOutgoing selects edges whose source is the given resource.
	IncludeOutgoing bool

	// IncludeIncoming selects edges whose resource-typed target is the
	// given resource.
	IncludeIncoming bool

	// Type filters edges to a single reference type when non-empty.
	Type Type

	// Limit caps the result count. Zero uses DefaultListLimit; a negative
	// value disables the cap and returns every matching edge.
	Limit int
}

// DefaultListLimit caps List results when the caller does not set a limit.
const DefaultListLimit = 50
