// Package inmemory provides an in-process refgraph store for tests and
// local development.
package inmemory

import (
	"context"
	"sort"
	"sync"

	"github.com/loomkb/loom/pkg/refgraph"
)

// Store implements refgraph.Store using an in-process map.
// It is safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	edges map[string]refgraph.Edge
}

// NewStore creates an empty in-memory edge store.
func NewStore() *Store {
	return &Store{
		edges: make(map[string]refgraph.Edge),
	}
}

// Insert persists a new edge.
func (s *Store) Insert(_ context.Context, edge refgraph.Edge) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.edges[edge.ID] = edge
	return nil
}

// Get retrieves an edge by id.
func (s *Store) Get(_ context.Context, ownerID, edgeID string) (refgraph.Edge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	edge, ok := s.edges[edgeID]
	if !ok || edge.OwnerID != ownerID {
		return refgraph.Edge{}, refgraph.ErrNotFound
	}
	return edge, nil
}

// Update replaces an edge's stored record.
func (s *Store) Update(_ context.Context, edge refgraph.Edge) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.edges[edge.ID]
	if !ok || existing.OwnerID != edge.OwnerID {
		return refgraph.ErrNotFound
	}
	s.edges[edge.ID] = edge
	return nil
}

// Delete removes an edge by id.
func (s *Store) Delete(_ context.Context, ownerID, edgeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	edge, ok := s.edges[edgeID]
	if !ok || edge.OwnerID != ownerID {
		return refgraph.ErrNotFound
	}
	delete(s.edges, edgeID)
	return nil
}

// Outgoing returns edges whose source is the given resource, newest first.
func (s *Store) Outgoing(_ context.Context, ownerID, sourceID string) ([]refgraph.Edge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []refgraph.Edge
	for _, edge := range s.edges {
		if edge.OwnerID == ownerID && edge.SourceID == sourceID {
			out = append(out, edge)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

// Incoming returns edges whose resource-typed target is the given resource,
// newest first.
func (s *Store) Incoming(_ context.Context, ownerID, resourceID string) ([]refgraph.Edge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var in []refgraph.Edge
	for _, edge := range s.edges {
		if edge.OwnerID == ownerID &&
			edge.Target.Kind() == refgraph.TargetResource &&
			edge.Target.ID() == resourceID {
			in = append(in, edge)
		}
	}
	sortNewestFirst(in)
	return in, nil
}

// DeleteEndpoint removes every edge touching the given target.
func (s *Store) DeleteEndpoint(_ context.Context, ownerID string, target refgraph.Target) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, edge := range s.edges {
		if edge.OwnerID != ownerID {
			continue
		}
		touches := edge.Target == target ||
			(target.Kind() == refgraph.TargetResource && edge.SourceID == target.ID())
		if touches {
			delete(s.edges, id)
			removed++
		}
	}
	return removed, nil
}

// Close releases store resources.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.edges = make(map[string]refgraph.Edge)
	return nil
}

func sortNewestFirst(edges []refgraph.Edge) {
	sort.Slice(edges, func(i, j int) bool {
		return edges[i].CreatedAt.After(edges[j].CreatedAt)
	})
}

// Ensure Store implements refgraph.Store
var _ refgraph.Store = (*Store)(nil)
