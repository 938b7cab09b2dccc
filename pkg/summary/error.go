package summary

import "errors"

var (
	// ErrNotFound is returned when a summary version is absent, not owned
	// by the caller, or does not belong to the named resource.
	ErrNotFound = errors.New("summary version not found")

	// ErrConcurrentRegeneration is returned when a destructive
	// regeneration races another regeneration of the same version.
	// Callers may retry after backoff.
	ErrConcurrentRegeneration = errors.New("concurrent summary regeneration")
)
