package vector

import "errors"

var (
	// ErrNotFound is returned when an item is not found in the vector store.
	ErrNotFound = errors.New("vector item not found")

	// ErrDimensionMismatch is returned when a vector's length does not match
	// the store's configured dimensionality. It indicates a provider or
	// configuration defect and is never retried.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrConnection is returned when the vector store connection fails.
	ErrConnection = errors.New("vector store connection failed")
)
