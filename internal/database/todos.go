package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/benvon/todo-everyday/internal/models"
	"github.com/lib/pq"
)

const todoColumns = `id, title, description, is_completed, priority, created_at, updated_at, completed_at, due_date`

// TodoRepository handles todo database operations
type TodoRepository struct {
	db *DB
}

// NewTodoRepository creates a new todo repository
func NewTodoRepository(db *DB) *TodoRepository {
	return &TodoRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTodo(s rowScanner) (*models.Todo, error) {
	todo := &models.Todo{}
	var description sql.NullString
	var completedAt, dueDate sql.NullTime

	err := s.Scan(
		&todo.ID,
		&todo.Title,
		&description,
		&todo.IsCompleted,
		&todo.Priority,
		&todo.CreatedAt,
		&todo.UpdatedAt,
		&completedAt,
		&dueDate,
	)
	if err != nil {
		return nil, err
	}

	if description.Valid {
		todo.Description = &description.String
	}
	if completedAt.Valid {
		todo.CompletedAt = &completedAt.Time
	}
	if dueDate.Valid {
		todo.DueDate = &dueDate.Time
	}

	return todo, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// Create inserts a new todo and fills in the generated id and timestamps
func (r *TodoRepository) Create(ctx context.Context, todo *models.Todo) error {
	query := `
		INSERT INTO todos (title, description, is_completed, priority, created_at, updated_at, completed_at, due_date)
		VALUES ($1, $2, $3, $4, $5, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	now := time.Now().UTC()
	err := r.db.QueryRowContext(ctx, query,
		todo.Title,
		nullString(todo.Description),
		todo.IsCompleted,
		todo.Priority,
		now,
		nullTime(todo.CompletedAt),
		nullTime(todo.DueDate),
	).Scan(&todo.ID, &todo.CreatedAt, &todo.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create todo: %w", err)
	}

	return nil
}

// GetByID retrieves a todo by ID
func (r *TodoRepository) GetByID(ctx context.Context, id int64) (*models.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos WHERE id = $1`

	todo, err := scanTodo(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("todo %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get todo: %w", err)
	}

	return todo, nil
}

// FindByIDs retrieves every todo whose id is in ids, newest first
func (r *TodoRepository) FindByIDs(ctx context.Context, ids []int64) ([]*models.Todo, error) {
	if len(ids) == 0 {
		return []*models.Todo{}, nil
	}

	query := `SELECT ` + todoColumns + ` FROM todos WHERE id = ANY($1) ORDER BY created_at DESC, id DESC`

	return r.queryTodos(ctx, query, pq.Array(ids))
}

// List returns one page of todos matching filter, ordered by creation time descending,
// together with the total number of matching rows
func (r *TodoRepository) List(ctx context.Context, filter models.FilterStatus, offset, limit int) ([]*models.Todo, int64, error) {
	where := ""
	args := []any{}
	argIndex := 1

	if completed := filter.Completed(); completed != nil {
		where = " WHERE is_completed = $" + strconv.Itoa(argIndex)
		args = append(args, *completed)
		argIndex++
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM todos` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count todos: %w", err)
	}

	query := `SELECT ` + todoColumns + ` FROM todos` + where +
		fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, limit, offset)

	todos, err := r.queryTodos(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}

	return todos, total, nil
}

func (r *TodoRepository) queryTodos(ctx context.Context, query string, args ...any) ([]*models.Todo, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query todos: %w", err)
	}
	defer rows.Close()

	todos := []*models.Todo{}
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan todo: %w", err)
		}
		todos = append(todos, todo)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating todos: %w", err)
	}

	return todos, nil
}

// Update writes every mutable column of an existing todo and refreshes updated_at
func (r *TodoRepository) Update(ctx context.Context, todo *models.Todo) error {
	query := `
		UPDATE todos
		SET title = $2, description = $3, is_completed = $4, priority = $5,
			completed_at = $6, due_date = $7, updated_at = $8
		WHERE id = $1
		RETURNING updated_at
	`

	now := time.Now().UTC()
	err := r.db.QueryRowContext(ctx, query,
		todo.ID,
		todo.Title,
		nullString(todo.Description),
		todo.IsCompleted,
		todo.Priority,
		nullTime(todo.CompletedAt),
		nullTime(todo.DueDate),
		now,
	).Scan(&todo.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("todo %d: %w", todo.ID, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to update todo: %w", err)
	}

	return nil
}

// Toggle flips is_completed in a single statement, stamping completed_at on
// completion and clearing it otherwise
func (r *TodoRepository) Toggle(ctx context.Context, id int64, now time.Time) (*models.Todo, error) {
	// Column references on the right-hand side see the pre-update row.
	query := `
		UPDATE todos
		SET is_completed = NOT is_completed,
			completed_at = CASE WHEN is_completed THEN NULL ELSE $2::timestamptz END,
			updated_at = $2
		WHERE id = $1
		RETURNING ` + todoColumns

	todo, err := scanTodo(r.db.QueryRowContext(ctx, query, id, now))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("todo %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to toggle todo: %w", err)
	}

	return todo, nil
}

// Delete deletes a todo by ID and reports whether it existed
func (r *TodoRepository) Delete(ctx context.Context, id int64) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM todos WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete todo: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// scoped appends an id restriction when ids is non-empty. An empty slice leaves
// the statement applying to every row.
func scoped(query string, hasWhere bool, args []any, ids []int64) (string, []any) {
	if len(ids) == 0 {
		return query, args
	}
	keyword := " WHERE "
	if hasWhere {
		keyword = " AND "
	}
	args = append(args, pq.Array(ids))
	return query + keyword + "id = ANY($" + strconv.Itoa(len(args)) + ")", args
}

func (r *TodoRepository) execCount(ctx context.Context, op, query string, args ...any) (int64, error) {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to %s: %w", op, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return n, nil
}

// DeleteCompleted removes every completed todo, optionally restricted to ids
func (r *TodoRepository) DeleteCompleted(ctx context.Context, ids []int64) (int64, error) {
	query, args := scoped(`DELETE FROM todos WHERE is_completed = TRUE`, true, nil, ids)
	return r.execCount(ctx, "delete completed todos", query, args...)
}

// DeleteAll removes every todo, optionally restricted to ids
func (r *TodoRepository) DeleteAll(ctx context.Context, ids []int64) (int64, error) {
	query, args := scoped(`DELETE FROM todos`, false, nil, ids)
	return r.execCount(ctx, "delete todos", query, args...)
}

// CompleteAll marks every incomplete todo as completed at now, optionally restricted to ids
func (r *TodoRepository) CompleteAll(ctx context.Context, ids []int64, now time.Time) (int64, error) {
	query, args := scoped(
		`UPDATE todos SET is_completed = TRUE, completed_at = $1, updated_at = $1 WHERE is_completed = FALSE`,
		true, []any{now}, ids,
	)
	return r.execCount(ctx, "complete todos", query, args...)
}

func (r *TodoRepository) count(ctx context.Context, query string, args ...any) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count todos: %w", err)
	}
	return n, nil
}

// Count returns the number of todos
func (r *TodoRepository) Count(ctx context.Context) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM todos`)
}

// CountByCompleted returns the number of todos with the given completion state
func (r *TodoRepository) CountByCompleted(ctx context.Context, completed bool) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM todos WHERE is_completed = $1`, completed)
}

// CountOverdue returns the number of incomplete todos whose due date is before now
func (r *TodoRepository) CountOverdue(ctx context.Context, now time.Time) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM todos WHERE is_completed = FALSE AND due_date < $1`, now)
}
