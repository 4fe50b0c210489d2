package queue

import "context"

// NoopPublisher discards events. It is used when no broker is configured.
type NoopPublisher struct{}

// Publish discards the event
func (NoopPublisher) Publish(context.Context, *Event) error { return nil }

// Close does nothing
func (NoopPublisher) Close() error { return nil }

// HealthCheck always reports healthy
func (NoopPublisher) HealthCheck(context.Context) error { return nil }
