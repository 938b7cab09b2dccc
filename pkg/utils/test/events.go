package testutils

import (
	"context"
	"errors"
	"sync"

	"github.com/loomkb/loom/pkg/eventstream"
)

// MockPublisher records published link events for assertions.
type MockPublisher struct {
	mu sync.Mutex

	// Published accumulates all events passed to PublishLink.
	Published []*eventstream.LinkEvent

	// FailPublish causes PublishLink to return an error.
	FailPublish bool
}

// NewMockPublisher creates an empty mock publisher.
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{
		Published: make([]*eventstream.LinkEvent, 0),
	}
}

func (m *MockPublisher) PublishLink(_ context.Context, event *eventstream.LinkEvent) error {
	if m.FailPublish {
		return errors.New("mock publish failure")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.Published = append(m.Published, event)
	return nil
}

// Events returns a snapshot of the published events.
func (m *MockPublisher) Events() []*eventstream.LinkEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*eventstream.LinkEvent, len(m.Published))
	copy(out, m.Published)
	return out
}

func (m *MockPublisher) Close() error {
	return nil
}
