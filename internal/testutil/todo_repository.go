// Package testutil provides in-memory fakes shared by package tests.
package testutil

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/benvon/todo-everyday/internal/database"
	"github.com/benvon/todo-everyday/internal/models"
)

// FakeTodoRepository is an in-memory database.TodoRepositoryInterface.
// Set Err to make every call fail with it.
type FakeTodoRepository struct {
	mu     sync.Mutex
	todos  map[int64]*models.Todo
	nextID int64
	Now    func() time.Time
	Err    error
}

var _ database.TodoRepositoryInterface = (*FakeTodoRepository)(nil)

// NewFakeTodoRepository returns an empty fake repository
func NewFakeTodoRepository() *FakeTodoRepository {
	return &FakeTodoRepository{
		todos:  make(map[int64]*models.Todo),
		nextID: 1,
		Now:    time.Now,
	}
}

func clone(t *models.Todo) *models.Todo {
	c := *t
	return &c
}

func notFound(id int64) error {
	return fmt.Errorf("todo %d: %w", id, database.ErrNotFound)
}

// Seed inserts todo as-is, assigning an id when it has none
func (r *FakeTodoRepository) Seed(todo *models.Todo) *models.Todo {
	r.mu.Lock()
	defer r.mu.Unlock()

	if todo.ID == 0 {
		todo.ID = r.nextID
	}
	if todo.ID >= r.nextID {
		r.nextID = todo.ID + 1
	}
	if todo.CreatedAt.IsZero() {
		todo.CreatedAt = r.Now().UTC()
		todo.UpdatedAt = todo.CreatedAt
	}
	r.todos[todo.ID] = clone(todo)
	return clone(todo)
}

// Len returns the number of stored todos
func (r *FakeTodoRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.todos)
}

// sorted returns stored todos newest first, matching the SQL ordering
func (r *FakeTodoRepository) sorted(keep func(*models.Todo) bool) []*models.Todo {
	out := make([]*models.Todo, 0, len(r.todos))
	for _, t := range r.todos {
		if keep == nil || keep(t) {
			out = append(out, t)
		}
	}
	slices.SortFunc(out, func(a, b *models.Todo) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		switch {
		case a.ID > b.ID:
			return -1
		case a.ID < b.ID:
			return 1
		default:
			return 0
		}
	})
	return out
}

func (r *FakeTodoRepository) Create(_ context.Context, todo *models.Todo) error {
	if r.Err != nil {
		return r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.Now().UTC()
	todo.ID = r.nextID
	r.nextID++
	todo.CreatedAt = now
	todo.UpdatedAt = now
	r.todos[todo.ID] = clone(todo)
	return nil
}

func (r *FakeTodoRepository) GetByID(_ context.Context, id int64) (*models.Todo, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.todos[id]
	if !ok {
		return nil, notFound(id)
	}
	return clone(t), nil
}

func (r *FakeTodoRepository) FindByIDs(_ context.Context, ids []int64) ([]*models.Todo, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []*models.Todo{}
	for _, t := range r.sorted(func(t *models.Todo) bool { return slices.Contains(ids, t.ID) }) {
		out = append(out, clone(t))
	}
	return out, nil
}

func (r *FakeTodoRepository) List(_ context.Context, filter models.FilterStatus, offset, limit int) ([]*models.Todo, int64, error) {
	if r.Err != nil {
		return nil, 0, r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	completed := filter.Completed()
	all := r.sorted(func(t *models.Todo) bool {
		return completed == nil || t.IsCompleted == *completed
	})

	page := []*models.Todo{}
	for i := offset; i < len(all) && i < offset+limit; i++ {
		page = append(page, clone(all[i]))
	}
	return page, int64(len(all)), nil
}

func (r *FakeTodoRepository) Update(_ context.Context, todo *models.Todo) error {
	if r.Err != nil {
		return r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.todos[todo.ID]
	if !ok {
		return notFound(todo.ID)
	}
	todo.CreatedAt = existing.CreatedAt
	todo.UpdatedAt = r.Now().UTC()
	r.todos[todo.ID] = clone(todo)
	return nil
}

func (r *FakeTodoRepository) Toggle(_ context.Context, id int64, now time.Time) (*models.Todo, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.todos[id]
	if !ok {
		return nil, notFound(id)
	}
	t.SetCompleted(!t.IsCompleted, now)
	t.UpdatedAt = now
	return clone(t), nil
}

func (r *FakeTodoRepository) Delete(_ context.Context, id int64) (bool, error) {
	if r.Err != nil {
		return false, r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.todos[id]; !ok {
		return false, nil
	}
	delete(r.todos, id)
	return true, nil
}

func inScope(ids []int64, id int64) bool {
	return len(ids) == 0 || slices.Contains(ids, id)
}

func (r *FakeTodoRepository) DeleteCompleted(_ context.Context, ids []int64) (int64, error) {
	if r.Err != nil {
		return 0, r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for id, t := range r.todos {
		if t.IsCompleted && inScope(ids, id) {
			delete(r.todos, id)
			n++
		}
	}
	return n, nil
}

func (r *FakeTodoRepository) DeleteAll(_ context.Context, ids []int64) (int64, error) {
	if r.Err != nil {
		return 0, r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for id := range r.todos {
		if inScope(ids, id) {
			delete(r.todos, id)
			n++
		}
	}
	return n, nil
}

func (r *FakeTodoRepository) CompleteAll(_ context.Context, ids []int64, now time.Time) (int64, error) {
	if r.Err != nil {
		return 0, r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for id, t := range r.todos {
		if !t.IsCompleted && inScope(ids, id) {
			t.SetCompleted(true, now)
			t.UpdatedAt = now
			n++
		}
	}
	return n, nil
}

func (r *FakeTodoRepository) Count(_ context.Context) (int64, error) {
	if r.Err != nil {
		return 0, r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.todos)), nil
}

func (r *FakeTodoRepository) CountByCompleted(_ context.Context, completed bool) (int64, error) {
	if r.Err != nil {
		return 0, r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for _, t := range r.todos {
		if t.IsCompleted == completed {
			n++
		}
	}
	return n, nil
}

func (r *FakeTodoRepository) CountOverdue(_ context.Context, now time.Time) (int64, error) {
	if r.Err != nil {
		return 0, r.Err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for _, t := range r.todos {
		if t.IsOverdue(now) {
			n++
		}
	}
	return n, nil
}
