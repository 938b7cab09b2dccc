package testutils

import (
	"context"
	"errors"
	"fmt"

	"github.com/loomkb/loom/pkg/vector"
)

// MockVectorDriver is a test vector driver that records upserts and returns
// configurable query results.
type MockVectorDriver struct {
	// Items accumulates everything passed to Upsert, keyed by
	// owner/item/kind so Lookup behaves like a real driver.
	Items map[string]vector.Item

	// Results is returned by Query for any owner and embedding.
	Results []vector.QueryResult

	// FailQuery causes Query to return an error.
	FailQuery bool

	// FailUpsert causes Upsert to return an error.
	FailUpsert bool
}

// NewMockVectorDriver creates a new mock vector driver.
func NewMockVectorDriver() *MockVectorDriver {
	return &MockVectorDriver{
		Items:   make(map[string]vector.Item),
		Results: make([]vector.QueryResult, 0),
	}
}

func itemKey(ownerID, itemID string, kind vector.Kind) string {
	return fmt.Sprintf("%s/%s/%s", ownerID, itemID, kind)
}

func (m *MockVectorDriver) Upsert(_ context.Context, item vector.Item) error {
	if m.FailUpsert {
		return errors.New("mock upsert failure")
	}
	m.Items[itemKey(item.OwnerID, item.ItemID, item.Kind)] = item
	return nil
}

func (m *MockVectorDriver) Lookup(_ context.Context, ownerID, itemID string, kind vector.Kind) (vector.Item, error) {
	item, ok := m.Items[itemKey(ownerID, itemID, kind)]
	if !ok {
		return vector.Item{}, vector.ErrNotFound
	}
	return item, nil
}

func (m *MockVectorDriver) Remove(_ context.Context, ownerID, itemID string, kind vector.Kind) error {
	delete(m.Items, itemKey(ownerID, itemID, kind))
	return nil
}

func (m *MockVectorDriver) Query(_ context.Context, _ string, _ []float32, limit int, minScore float32) ([]vector.QueryResult, error) {
	if m.FailQuery {
		return nil, errors.New("mock query failure")
	}

	results := make([]vector.QueryResult, 0, len(m.Results))
	for _, r := range m.Results {
		if r.Score >= minScore {
			results = append(results, r)
		}
	}

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	return results, nil
}

func (m *MockVectorDriver) Close() error {
	return nil
}
