// Package search provides semantic similarity search over a tenant's
// embedded content. It is used by duplicate detection, reference
// suggestions, and the search CLI.
package search

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/loomkb/loom/pkg/embeddings"
	"github.com/loomkb/loom/pkg/vector"
)

// DefaultLimit is the result cap applied when a caller passes limit <= 0.
const DefaultLimit = 10

// Result represents a single similarity hit.
type Result struct {
	OwnerID string      `json:"owner_id"`
	ItemID  string      `json:"item_id"`
	Kind    vector.Kind `json:"kind"`
	Score   float32     `json:"score"`
	Rank    int         `json:"rank"`
}

// Searcher performs semantic similarity search: it embeds query text via the
// configured embedder and ranks the owner's indexed items by cosine
// similarity.
type Searcher struct {
	embedder embeddings.Embedder
	vectors  vector.Driver
	logger   *zap.Logger
}

// NewSearcher creates a Searcher over the given embedder and vector driver.
func NewSearcher(embedder embeddings.Embedder, vectors vector.Driver, logger *zap.Logger) *Searcher {
	return &Searcher{
		embedder: embedder,
		vectors:  vectors,
		logger:   logger,
	}
}

// FindSimilar returns the owner's items most similar to text, ranked by
// score descending. An empty result list is valid, not an error. Results
// only ever contain items belonging to ownerID.
//
// Embedding failures wrap embeddings.ErrUnavailable; callers running an
// advisory operation should degrade to empty results on that error instead
// of aborting their primary operation.
func (s *Searcher) FindSimilar(ctx context.Context, ownerID, text string, limit int, minScore float32) ([]Result, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	s.logger.Debug("similarity search",
		zap.String("owner_id", ownerID),
		zap.Int("limit", limit),
		zap.Float32("min_score", minScore),
	)

	queryEmbedding, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embedding query text: %w", err)
	}

	hits, err := s.vectors.Query(ctx, ownerID, queryEmbedding, limit, minScore)
	if err != nil {
		return nil, fmt.Errorf("querying vector store: %w", err)
	}

	results := make([]Result, 0, len(hits))
	for i, hit := range hits {
		results = append(results, Result{
			OwnerID: ownerID,
			ItemID:  hit.ItemID,
			Kind:    hit.Kind,
			Score:   hit.Score,
			Rank:    i + 1,
		})
	}

	return results, nil
}
