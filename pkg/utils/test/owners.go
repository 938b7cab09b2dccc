package testutils

import (
	"context"
	"errors"
)

// MockOwnerChecker is a test ownership checker driven by an explicit
// owner -> resources map.
type MockOwnerChecker struct {
	// Owned maps ownerID to the set of resource IDs they own.
	Owned map[string]map[string]bool

	// FailCheck causes OwnsResource to return an error.
	FailCheck bool
}

// NewMockOwnerChecker creates a checker with no owned resources.
func NewMockOwnerChecker() *MockOwnerChecker {
	return &MockOwnerChecker{
		Owned: make(map[string]map[string]bool),
	}
}

// Grant records that ownerID owns resourceID.
func (m *MockOwnerChecker) Grant(ownerID, resourceID string) {
	if m.Owned[ownerID] == nil {
		m.Owned[ownerID] = make(map[string]bool)
	}
	m.Owned[ownerID][resourceID] = true
}

func (m *MockOwnerChecker) OwnsResource(_ context.Context, ownerID, resourceID string) (bool, error) {
	if m.FailCheck {
		return false, errors.New("mock ownership check failure")
	}
	return m.Owned[ownerID][resourceID], nil
}
