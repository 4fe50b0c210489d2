package database

import (
	"context"
	"errors"
	"time"

	"github.com/benvon/todo-everyday/internal/models"
)

// ErrNotFound is returned when a row addressed by id does not exist
var ErrNotFound = errors.New("not found")

// TodoRepositoryInterface defines the interface for todo repository operations
// This interface enables better testability by allowing mock implementations
type TodoRepositoryInterface interface {
	Create(ctx context.Context, todo *models.Todo) error
	GetByID(ctx context.Context, id int64) (*models.Todo, error)
	FindByIDs(ctx context.Context, ids []int64) ([]*models.Todo, error)
	List(ctx context.Context, filter models.FilterStatus, offset, limit int) ([]*models.Todo, int64, error)
	Update(ctx context.Context, todo *models.Todo) error
	Toggle(ctx context.Context, id int64, now time.Time) (*models.Todo, error)
	Delete(ctx context.Context, id int64) (bool, error)
	DeleteCompleted(ctx context.Context, ids []int64) (int64, error)
	DeleteAll(ctx context.Context, ids []int64) (int64, error)
	CompleteAll(ctx context.Context, ids []int64, now time.Time) (int64, error)
	Count(ctx context.Context) (int64, error)
	CountByCompleted(ctx context.Context, completed bool) (int64, error)
	CountOverdue(ctx context.Context, now time.Time) (int64, error)
}

// Pinger is satisfied by anything that can report connectivity
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Ensure concrete types implement the interfaces
var (
	_ TodoRepositoryInterface = (*TodoRepository)(nil)
	_ Pinger                  = (*DB)(nil)
)
