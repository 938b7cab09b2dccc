package search

import (
	"context"

	"go.uber.org/zap"
)

const (
	// DefaultDuplicateLimit is the maximum number of duplicate candidates
	// returned per check.
	DefaultDuplicateLimit = 5

	// DefaultDuplicateThreshold is the minimum similarity score for a
	// candidate to count as a near-duplicate.
	DefaultDuplicateThreshold = 0.8

	// duplicateOverfetch widens the underlying search so the query item's
	// own vector, which usually matches itself at the top of the list,
	// does not consume a result slot before self-exclusion.
	duplicateOverfetch = 2
)

// Detector flags near-duplicate content by similarity score. Duplicate
// detection is advisory: any internal failure degrades to an empty result
// instead of propagating to the caller.
type Detector struct {
	searcher  *Searcher
	limit     int
	threshold float32
	logger    *zap.Logger
}

// DetectorOption configures a Detector.
type DetectorOption func(*Detector)

// WithDuplicateLimit overrides the result cap.
func WithDuplicateLimit(limit int) DetectorOption {
	return func(d *Detector) {
		if limit > 0 {
			d.limit = limit
		}
	}
}

// WithDuplicateThreshold overrides the similarity threshold.
func WithDuplicateThreshold(threshold float32) DetectorOption {
	return func(d *Detector) {
		if threshold > 0 {
			d.threshold = threshold
		}
	}
}

// NewDetector creates a duplicate detector on top of the given searcher.
func NewDetector(searcher *Searcher, logger *zap.Logger, opts ...DetectorOption) *Detector {
	d := &Detector{
		searcher:  searcher,
		limit:     DefaultDuplicateLimit,
		threshold: DefaultDuplicateThreshold,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// FindDuplicates returns up to the configured limit of items whose
// similarity to text meets the duplicate threshold, excluding
// excludeItemID. A failed search yields an empty list.
func (d *Detector) FindDuplicates(ctx context.Context, ownerID, excludeItemID, text string) []Result {
	hits, err := d.searcher.FindSimilar(ctx, ownerID, text, d.limit*duplicateOverfetch, d.threshold)
	if err != nil {
		d.logger.Warn("duplicate detection degraded to empty result",
			zap.String("owner_id", ownerID),
			zap.Error(err),
		)
		return nil
	}

	duplicates := make([]Result, 0, d.limit)
	for _, hit := range hits {
		if hit.ItemID == excludeItemID {
			continue
		}
		hit.Rank = len(duplicates) + 1
		duplicates = append(duplicates, hit)
		if len(duplicates) == d.limit {
			break
		}
	}

	return duplicates
}
