// Package inmemory provides an in-process summary store for tests and
// local development.
package inmemory

import (
	"context"
	"sync"
	"time"

	"github.com/loomkb/loom/pkg/summary"
)

type groupKey struct {
	ownerID    string
	resourceID string
	kind       summary.Kind
}

// Store implements summary.Store using in-process maps.
// It is safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	versions map[string]summary.Version
	latest   map[groupKey]string
}

// NewStore creates an empty in-memory summary store.
func NewStore() *Store {
	return &Store{
		versions: make(map[string]summary.Version),
		latest:   make(map[groupKey]string),
	}
}

// Insert persists a new version.
func (s *Store) Insert(_ context.Context, v summary.Version) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.versions[v.ID] = v
	return nil
}

// Get retrieves a version by id.
func (s *Store) Get(_ context.Context, ownerID, versionID string) (summary.Version, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.versions[versionID]
	if !ok || v.OwnerID != ownerID {
		return summary.Version{}, summary.ErrNotFound
	}
	return v, nil
}

// UpdateContent overwrites a version's content in place.
func (s *Store) UpdateContent(_ context.Context, ownerID, versionID, content string, generatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.versions[versionID]
	if !ok || v.OwnerID != ownerID {
		return summary.ErrNotFound
	}
	v.Content = content
	v.GeneratedAt = generatedAt
	s.versions[versionID] = v
	return nil
}

// Latest returns the current version of a (resource, kind) group.
func (s *Store) Latest(_ context.Context, ownerID, resourceID string, kind summary.Kind) (summary.Version, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.latest[groupKey{ownerID: ownerID, resourceID: resourceID, kind: kind}]
	if !ok {
		return summary.Version{}, summary.ErrNotFound
	}
	v, ok := s.versions[id]
	if !ok {
		return summary.Version{}, summary.ErrNotFound
	}
	return v, nil
}

// SetLatest moves the group's latest pointer.
func (s *Store) SetLatest(_ context.Context, ownerID, resourceID string, kind summary.Kind, versionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.latest[groupKey{ownerID: ownerID, resourceID: resourceID, kind: kind}] = versionID
	return nil
}

// Close releases store resources.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.versions = make(map[string]summary.Version)
	s.latest = make(map[groupKey]string)
	return nil
}

// Ensure Store implements summary.Store
var _ summary.Store = (*Store)(nil)
