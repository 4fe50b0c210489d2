package queue

import (
	"context"
)

// MessageInterface defines the interface for consumed event messages
// This enables better testability by allowing mock implementations
type MessageInterface interface {
	Ack() error
	Nack(requeue bool) error
	GetEvent() *Event
}

// EventPublisher publishes todo change events
type EventPublisher interface {
	// Publish sends an event to the broker
	Publish(ctx context.Context, event *Event) error

	// Close closes the broker connection
	Close() error

	// HealthCheck verifies the broker connection is healthy
	HealthCheck(ctx context.Context) error
}

// EventSubscriber delivers published events to a consumer
type EventSubscriber interface {
	// Subscribe returns a channel of messages from the audit queue
	// The caller is responsible for acknowledging each message
	// Returns a channel that will be closed when the context is cancelled or an error occurs
	Subscribe(ctx context.Context, prefetchCount int) (<-chan *Message, <-chan error, error)
}

// Ensure concrete types implement the interfaces
var (
	_ EventPublisher   = (*RabbitMQPublisher)(nil)
	_ EventSubscriber  = (*RabbitMQPublisher)(nil)
	_ EventPublisher   = NoopPublisher{}
	_ MessageInterface = (*Message)(nil)
)
