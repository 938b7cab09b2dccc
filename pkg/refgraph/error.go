package refgraph

import "errors"

var (
	// ErrNotFound is returned when an edge or source resource is absent or
	// not owned by the caller.
	ErrNotFound = errors.New("reference not found")

	// ErrInvalidTarget is returned when an edge target has zero or an
	// unknown populated arm.
	ErrInvalidTarget = errors.New("invalid reference target")

	// ErrInvalidType is returned when a reference type is not one of the
	// known values.
	ErrInvalidType = errors.New("invalid reference type")

	// ErrSelfReference is returned when a resource-typed target equals the
	// source resource.
	ErrSelfReference = errors.New("resource cannot reference itself")
)
