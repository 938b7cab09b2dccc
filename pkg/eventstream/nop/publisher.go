package nop

import (
	"context"

	"github.com/loomkb/loom/pkg/eventstream"
)

// Publisher is a no-op eventstream publisher used for tests and disabled mode.
type Publisher struct{}

// NewPublisher creates a new no-op eventstream publisher.
func NewPublisher() *Publisher {
	return &Publisher{}
}

// PublishLink validates input and otherwise does nothing.
func (p *Publisher) PublishLink(_ context.Context, event *eventstream.LinkEvent) error {
	if event == nil {
		return eventstream.ErrNilLinkEvent
	}

	return nil
}

// Close is a no-op.
func (p *Publisher) Close() error {
	return nil
}
