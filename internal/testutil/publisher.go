package testutil

import (
	"context"
	"sync"

	"github.com/benvon/todo-everyday/internal/queue"
)

// RecordingPublisher captures published events. Set Err to fail every Publish.
type RecordingPublisher struct {
	mu     sync.Mutex
	events []*queue.Event
	Err    error
}

var _ queue.EventPublisher = (*RecordingPublisher)(nil)

func (p *RecordingPublisher) Publish(_ context.Context, event *queue.Event) error {
	if p.Err != nil {
		return p.Err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *RecordingPublisher) Close() error { return nil }

func (p *RecordingPublisher) HealthCheck(context.Context) error { return p.Err }

// Events returns a copy of the events published so far
func (p *RecordingPublisher) Events() []*queue.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*queue.Event(nil), p.events...)
}
