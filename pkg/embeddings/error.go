package embeddings

import "errors"

// ErrUnavailable is returned when the embedding provider fails.
// Advisory callers (duplicate detection, suggestions) should degrade to
// empty results on this error; primary similarity search surfaces it.
var ErrUnavailable = errors.New("embedding provider unavailable")
