// Package suggest proposes new reference edges from similarity search
// results. Suggestions are read-only: proposed edges are never persisted
// here — accepting one is the caller's decision, made through refgraph.
package suggest

import (
	"context"

	"go.uber.org/zap"

	"github.com/loomkb/loom/pkg/refgraph"
	"github.com/loomkb/loom/pkg/search"
	"github.com/loomkb/loom/pkg/vector"
)

const (
	// DefaultLimit is the maximum number of suggestions returned.
	DefaultLimit = 5

	// DefaultMinScore is the similarity floor for a suggestion.
	DefaultMinScore = 0.7

	// overfetch widens the similarity search so self-matches and
	// already-linked targets do not starve the suggestion list.
	overfetch = 2
)

// Suggestion is a proposed, unpersisted reference edge with the similarity
// score that motivated it.
type Suggestion struct {
	// Edge is the proposed edge, typed AI_SUGGESTED. Its ID is empty;
	// one is assigned if the caller commits it via refgraph.
	Edge refgraph.Edge `json:"edge"`

	// Score is the cosine similarity between the source resource's text
	// and the target.
	Score float32 `json:"score"`
}

// Suggester combines similarity search with reference graph state.
// It is advisory: internal failures degrade to an empty suggestion list.
type Suggester struct {
	searcher *search.Searcher
	graph    *refgraph.Graph
	limit    int
	minScore float32
	logger   *zap.Logger
}

// SuggesterOption configures a Suggester.
type SuggesterOption func(*Suggester)

// WithLimit overrides the suggestion cap.
func WithLimit(limit int) SuggesterOption {
	return func(s *Suggester) {
		if limit > 0 {
			s.limit = limit
		}
	}
}

// WithMinScore overrides the similarity floor.
func WithMinScore(minScore float32) SuggesterOption {
	return func(s *Suggester) {
		if minScore > 0 {
			s.minScore = minScore
		}
	}
}

// NewSuggester creates a Suggester over the given searcher and graph.
func NewSuggester(searcher *search.Searcher, graph *refgraph.Graph, logger *zap.Logger, opts ...SuggesterOption) *Suggester {
	s := &Suggester{
		searcher: searcher,
		graph:    graph,
		limit:    DefaultLimit,
		minScore: DefaultMinScore,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Suggest proposes edges from resourceID to similar items that are not
// already linked by an existing outgoing edge of any type. The resource
// itself is never proposed.
func (s *Suggester) Suggest(ctx context.Context, ownerID, resourceID, text string) []Suggestion {
	hits, err := s.searcher.FindSimilar(ctx, ownerID, text, s.limit*overfetch, s.minScore)
	if err != nil {
		s.logger.Warn("suggestion search degraded to empty result",
			zap.String("owner_id", ownerID),
			zap.String("resource_id", resourceID),
			zap.Error(err),
		)
		return nil
	}

	// The duplicate filter needs every outgoing edge, not a page of them:
	// a target linked long ago must still suppress its suggestion.
	existing, err := s.graph.List(ctx, ownerID, resourceID, refgraph.ListOptions{
		IncludeOutgoing: true,
		Limit:           -1,
	})
	if err != nil {
		s.logger.Warn("suggestion edge lookup degraded to empty result",
			zap.String("owner_id", ownerID),
			zap.String("resource_id", resourceID),
			zap.Error(err),
		)
		return nil
	}

	// Keyed by kind:id so a note and a resource sharing an id do not
	// suppress each other.
	linked := make(map[string]struct{}, len(existing))
	for _, edge := range existing {
		linked[edge.Target.String()] = struct{}{}
	}

	suggestions := make([]Suggestion, 0, s.limit)
	for _, hit := range hits {
		if hit.ItemID == resourceID {
			continue
		}
		target := targetFor(hit)
		if _, ok := linked[target.String()]; ok {
			continue
		}

		suggestions = append(suggestions, Suggestion{
			Edge: refgraph.Edge{
				OwnerID:  ownerID,
				SourceID: resourceID,
				Target:   target,
				Type:     refgraph.TypeAISuggested,
			},
			Score: hit.Score,
		})
		if len(suggestions) == s.limit {
			break
		}
	}

	return suggestions
}

// targetFor maps a similarity hit's item kind onto a target union arm.
func targetFor(hit search.Result) refgraph.Target {
	if hit.Kind == vector.KindNote {
		return refgraph.NoteTarget(hit.ItemID)
	}
	return refgraph.ResourceTarget(hit.ItemID)
}
