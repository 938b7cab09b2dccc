// Package kafka provides a Kafka-backed eventstream publisher.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/loomkb/loom/pkg/eventstream"
)

// DefaultTopic is the topic link events are published to when none is
// configured.
const DefaultTopic = "loom.link-events"

// Publisher publishes link events to a Kafka topic. Messages are keyed by
// owner id so a tenant's events stay ordered within a partition.
type Publisher struct {
	writer *kafkago.Writer
	logger *zap.Logger
}

// Config holds configuration for the Kafka publisher.
type Config struct {
	// Brokers is the list of Kafka broker addresses.
	Brokers []string

	// Topic is the topic to publish to. Defaults to DefaultTopic if empty.
	Topic string
}

// NewPublisher creates a Kafka eventstream publisher.
func NewPublisher(c Config, logger *zap.Logger) (*Publisher, error) {
	if len(c.Brokers) == 0 {
		return nil, fmt.Errorf("at least one kafka broker is required")
	}

	topic := c.Topic
	if topic == "" {
		topic = DefaultTopic
	}

	writer := &kafkago.Writer{
		Addr:     kafkago.TCP(c.Brokers...),
		Topic:    topic,
		Balancer: &kafkago.Hash{},
	}

	logger.Info("kafka eventstream publisher initialized",
		zap.Strings("brokers", c.Brokers),
		zap.String("topic", topic),
	)

	return &Publisher{
		writer: writer,
		logger: logger,
	}, nil
}

// PublishLink publishes a link event as a JSON message.
func (p *Publisher) PublishLink(ctx context.Context, event *eventstream.LinkEvent) error {
	if event == nil {
		return eventstream.ErrNilLinkEvent
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshaling link event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafkago.Message{
		Key:   []byte(event.OwnerID),
		Value: payload,
	})
	if err != nil {
		return fmt.Errorf("writing link event: %w", err)
	}

	p.logger.Debug("published link event",
		zap.String("event_type", event.EventType),
		zap.String("owner_id", event.OwnerID),
	)

	return nil
}

// Close flushes and closes the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}

// Ensure Publisher implements eventstream.Publisher
var _ eventstream.Publisher = (*Publisher)(nil)
