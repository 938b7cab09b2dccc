package refgraph

import "fmt"

// TargetKind identifies which arm of the target union is populated.
type TargetKind string

const (
	TargetResource TargetKind = "resource"
	TargetProject  TargetKind = "project"
	TargetArea     TargetKind = "area"
	TargetNote     TargetKind = "note"
)

// Valid reports whether k is a known target kind.
func (k TargetKind) Valid() bool {
	switch k {
	case TargetResource, TargetProject, TargetArea, TargetNote:
		return true
	}
	return false
}

// Target is a one-armed union identifying an edge's destination. The zero
// value is invalid; construct targets via ResourceTarget, ProjectTarget,
// AreaTarget, or NoteTarget, which make the "exactly one arm" invariant
// structural rather than checked.
type Target struct {
	kind TargetKind
	id   string
}

// ResourceTarget points an edge at another resource.
func ResourceTarget(id string) Target { return Target{kind: TargetResource, id: id} }

// ProjectTarget points an edge at a project.
func ProjectTarget(id string) Target { return Target{kind: TargetProject, id: id} }

// AreaTarget points an edge at an area.
func AreaTarget(id string) Target { return Target{kind: TargetArea, id: id} }

// NoteTarget points an edge at a note.
func NoteTarget(id string) Target { return Target{kind: TargetNote, id: id} }

// NewTarget constructs a target from stored kind and id values. It is
// intended for stores rehydrating persisted edges.
func NewTarget(kind TargetKind, id string) (Target, error) {
	if !kind.Valid() {
		return Target{}, fmt.Errorf("%w: unknown target kind %q", ErrInvalidTarget, kind)
	}
	if id == "" {
		return Target{}, fmt.Errorf("%w: empty target id", ErrInvalidTarget)
	}
	return Target{kind: kind, id: id}, nil
}

// Kind returns which arm of the union is populated.
func (t Target) Kind() TargetKind { return t.kind }

// ID returns the target item's id.
func (t Target) ID() string { return t.id }

// IsZero reports whether no arm is populated.
func (t Target) IsZero() bool { return t.kind == "" || t.id == "" }

// String renders the target as kind:id for logs.
func (t Target) String() string { return string(t.kind) + ":" + t.id }

// MarshalJSON encodes the union as {"kind": ..., "id": ...}.
func (t Target) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("{%q:%q,%q:%q}", "kind", t.kind, "id", t.id)), nil
}
