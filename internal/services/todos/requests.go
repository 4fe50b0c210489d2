package todos

import (
	"github.com/benvon/todo-everyday/internal/models"
)

// CreateRequest is the body of a create call
type CreateRequest struct {
	Title       string          `json:"title" validate:"notblank_trimmed,max=255"`
	Description *string         `json:"description,omitempty"`
	Priority    *int            `json:"priority,omitempty" validate:"omitempty,priority"`
	DueDate     *models.DueDate `json:"dueDate,omitempty"`
}

// UpdateRequest is the body of a partial update. Nil fields are left untouched.
type UpdateRequest struct {
	Title       *string         `json:"title,omitempty" validate:"omitempty,notblank_trimmed,max=255"`
	Description *string         `json:"description,omitempty"`
	IsCompleted *bool           `json:"isCompleted,omitempty"`
	Priority    *int            `json:"priority,omitempty" validate:"omitempty,priority"`
	DueDate     *models.DueDate `json:"dueDate,omitempty"`
}

// BatchRequest is the body of a batch call
type BatchRequest struct {
	Action  models.BatchAction `json:"action" validate:"required"`
	TodoIDs []int64            `json:"todoIds,omitempty" validate:"omitempty,dive,gt=0"`
}

// ListResult is one page of todos
type ListResult struct {
	Items []*models.Todo
	Total int64
	Page  int
	Limit int
}
