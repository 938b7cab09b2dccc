package eventstream

import "time"

const (
	// SchemaVersionV1 is the first version of the event payload schema.
	SchemaVersionV1 = 1

	// EventTypeEdgeCreated is emitted after a reference edge is persisted.
	EventTypeEdgeCreated = "loom.edge.created"

	// EventTypeEdgeUpdated is emitted after an edge's mutable fields change.
	EventTypeEdgeUpdated = "loom.edge.updated"

	// EventTypeEdgeDeleted is emitted after a reference edge is removed.
	EventTypeEdgeDeleted = "loom.edge.deleted"

	// EventTypeSummaryRegenerated is emitted after a summary version is
	// created or overwritten.
	EventTypeSummaryRegenerated = "loom.summary.regenerated"

	// EventTypeItemIndexed is emitted after an item's embedding is
	// created or replaced.
	EventTypeItemIndexed = "loom.item.indexed"
)

// LinkEvent is a transport-neutral event payload for linking-engine
// mutations. Events are best-effort: publish failures are logged by the
// emitting component and never abort the operation that produced them.
type LinkEvent struct {
	SchemaVersion int               `json:"schema_version"`
	EventType     string            `json:"event_type"`
	EventID       string            `json:"event_id"`
	EmittedAt     time.Time         `json:"emitted_at"`
	OwnerID       string            `json:"owner_id"`
	SubjectID     string            `json:"subject_id"`
	Detail        map[string]string `json:"detail,omitempty"`
}
