package queue

import (
	"time"

	"github.com/google/uuid"
)

// EventType identifies what happened to a todo
type EventType string

const (
	// EventTodoCreated is emitted after a todo is inserted
	EventTodoCreated EventType = "todo.created"
	// EventTodoUpdated is emitted after a partial update
	EventTodoUpdated EventType = "todo.updated"
	// EventTodoToggled is emitted after the completion flag flips
	EventTodoToggled EventType = "todo.toggled"
	// EventTodoDeleted is emitted after a single todo is removed
	EventTodoDeleted EventType = "todo.deleted"
	// EventTodosBatch is emitted after a batch action
	EventTodosBatch EventType = "todos.batch"
)

// Event describes a completed mutation of the todo store
type Event struct {
	ID         uuid.UUID `json:"id"`
	Type       EventType `json:"type"`
	TodoID     *int64    `json:"todoId,omitempty"`
	Action     string    `json:"action,omitempty"` // batch action name
	Count      int64     `json:"count,omitempty"`  // rows affected by a batch action
	OccurredAt time.Time `json:"occurredAt"`
}

// NewTodoEvent creates an event for a single todo
func NewTodoEvent(eventType EventType, todoID int64, at time.Time) *Event {
	return &Event{
		ID:         uuid.New(),
		Type:       eventType,
		TodoID:     &todoID,
		OccurredAt: at,
	}
}

// NewBatchEvent creates an event for a batch action that affected count rows
func NewBatchEvent(action string, count int64, at time.Time) *Event {
	return &Event{
		ID:         uuid.New(),
		Type:       EventTodosBatch,
		Action:     action,
		Count:      count,
		OccurredAt: at,
	}
}

// RoutingKey is the topic key the event is published under
func (e *Event) RoutingKey() string {
	if e.Type == EventTodosBatch && e.Action != "" {
		return string(e.Type) + "." + e.Action
	}
	return string(e.Type)
}
