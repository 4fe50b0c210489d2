package models

import (
	"strings"
	"time"
)

const (
	// MinPriority is the lowest allowed priority
	MinPriority = 1
	// MaxPriority is the highest allowed priority
	MaxPriority = 5
	// DefaultPriority is applied when a create request omits priority
	DefaultPriority = 1
)

// FilterStatus selects which todos a list query returns
type FilterStatus string

const (
	FilterAll       FilterStatus = "all"
	FilterCompleted FilterStatus = "completed"
	FilterPending   FilterStatus = "pending"
)

// ParseFilterStatus maps a query value onto a FilterStatus.
// Matching is case-insensitive and anything unrecognized falls back to FilterAll.
func ParseFilterStatus(value string) FilterStatus {
	switch FilterStatus(strings.ToLower(strings.TrimSpace(value))) {
	case FilterCompleted:
		return FilterCompleted
	case FilterPending:
		return FilterPending
	default:
		return FilterAll
	}
}

// Completed returns the is_completed value the filter restricts to, or nil for FilterAll.
func (f FilterStatus) Completed() *bool {
	var v bool
	switch f {
	case FilterCompleted:
		v = true
	case FilterPending:
		v = false
	default:
		return nil
	}
	return &v
}

// BatchAction is a bulk operation applied to every matching todo
type BatchAction string

const (
	BatchDeleteCompleted BatchAction = "delete_completed"
	BatchDeleteAll       BatchAction = "delete_all"
	BatchCompleteAll     BatchAction = "complete_all"
)

// Valid reports whether a is a known batch action
func (a BatchAction) Valid() bool {
	switch a {
	case BatchDeleteCompleted, BatchDeleteAll, BatchCompleteAll:
		return true
	default:
		return false
	}
}

// Todo represents a todo item
type Todo struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	IsCompleted bool       `json:"isCompleted"`
	Priority    int        `json:"priority"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
}

// SetCompleted changes the completion flag and keeps CompletedAt consistent with it.
// CompletedAt is only stamped on an actual transition to completed.
func (t *Todo) SetCompleted(completed bool, now time.Time) {
	if completed && !t.IsCompleted {
		t.CompletedAt = &now
	}
	if !completed {
		t.CompletedAt = nil
	}
	t.IsCompleted = completed
}

// IsOverdue reports whether the todo is incomplete and past its due date
func (t *Todo) IsOverdue(now time.Time) bool {
	return !t.IsCompleted && t.DueDate != nil && t.DueDate.Before(now)
}

// Stats holds aggregate todo counts
type Stats struct {
	Total     int64 `json:"total"`
	Completed int64 `json:"completed"`
	Pending   int64 `json:"pending"`
	Overdue   int64 `json:"overdue"`
}
