package models

import (
	"testing"
	"time"
)

func TestParseFilterStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value string
		want  FilterStatus
	}{
		{"all", "all", FilterAll},
		{"completed", "completed", FilterCompleted},
		{"pending", "pending", FilterPending},
		{"mixed case", "Completed", FilterCompleted},
		{"padded", " pending ", FilterPending},
		{"empty", "", FilterAll},
		{"unknown", "archived", FilterAll},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ParseFilterStatus(tt.value); got != tt.want {
				t.Errorf("ParseFilterStatus(%q) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestFilterStatus_Completed(t *testing.T) {
	t.Parallel()

	if FilterAll.Completed() != nil {
		t.Error("Expected nil for FilterAll")
	}
	if c := FilterCompleted.Completed(); c == nil || !*c {
		t.Errorf("Expected true for FilterCompleted, got %v", c)
	}
	if c := FilterPending.Completed(); c == nil || *c {
		t.Errorf("Expected false for FilterPending, got %v", c)
	}
}

func TestBatchAction_Valid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		action BatchAction
		valid  bool
	}{
		{BatchDeleteCompleted, true},
		{BatchDeleteAll, true},
		{BatchCompleteAll, true},
		{BatchAction("archive_all"), false},
		{BatchAction(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.action), func(t *testing.T) {
			t.Parallel()
			if got := tt.action.Valid(); got != tt.valid {
				t.Errorf("Valid() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestTodo_SetCompleted(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	later := now.Add(time.Hour)

	todo := &Todo{}
	todo.SetCompleted(true, now)
	if !todo.IsCompleted || todo.CompletedAt == nil || !todo.CompletedAt.Equal(now) {
		t.Fatalf("Expected completed at %v, got %+v", now, todo)
	}

	// Completing again keeps the original timestamp
	todo.SetCompleted(true, later)
	if !todo.CompletedAt.Equal(now) {
		t.Errorf("Expected CompletedAt to stay %v, got %v", now, todo.CompletedAt)
	}

	todo.SetCompleted(false, later)
	if todo.IsCompleted || todo.CompletedAt != nil {
		t.Errorf("Expected pending with nil CompletedAt, got %+v", todo)
	}
}

func TestTodo_IsOverdue(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name string
		todo Todo
		want bool
	}{
		{"no due date", Todo{}, false},
		{"past due pending", Todo{DueDate: &past}, true},
		{"past due completed", Todo{DueDate: &past, IsCompleted: true}, false},
		{"future due", Todo{DueDate: &future}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.todo.IsOverdue(now); got != tt.want {
				t.Errorf("IsOverdue() = %v, want %v", got, tt.want)
			}
		})
	}
}
