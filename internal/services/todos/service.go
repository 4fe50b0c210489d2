package todos

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/benvon/todo-everyday/internal/database"
	logpkg "github.com/benvon/todo-everyday/internal/logger"
	"github.com/benvon/todo-everyday/internal/models"
	"github.com/benvon/todo-everyday/internal/queue"
	"github.com/benvon/todo-everyday/internal/telemetry"
	"github.com/benvon/todo-everyday/internal/validation"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// Service implements the todo business rules on top of the repository
type Service struct {
	repo      database.TodoRepositoryInterface
	publisher queue.EventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

// Option configures a Service
type Option func(*Service)

// WithPublisher sets the publisher that receives change events
func WithPublisher(p queue.EventPublisher) Option {
	return func(s *Service) {
		if p != nil {
			s.publisher = p
		}
	}
}

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates a new todo service
func NewService(repo database.TodoRepositoryInterface, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		repo:      repo,
		publisher: queue.NoopPublisher{},
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) clock() time.Time {
	return s.now().UTC()
}

func mapNotFound(err error) error {
	if errors.Is(err, database.ErrNotFound) {
		return ErrTodoNotFound
	}
	return err
}

// pageOffset converts a 1-based page into a row offset. Offsets past
// math.MaxInt saturate so far pages come back empty.
func pageOffset(page, limit int) int {
	if page <= 1 || limit <= 0 {
		return 0
	}
	if page-1 > math.MaxInt/limit {
		return math.MaxInt
	}
	return (page - 1) * limit
}

// List returns one page of todos. page is 1-based.
func (s *Service) List(ctx context.Context, filter models.FilterStatus, page, limit int) (*ListResult, error) {
	offset := pageOffset(page, limit)
	items, total, err := s.repo.List(ctx, filter, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}

	return &ListResult{
		Items: items,
		Total: total,
		Page:  page,
		Limit: limit,
	}, nil
}

// Create persists a new todo, applying the default priority when none is given
func (s *Service) Create(ctx context.Context, req *CreateRequest) (*models.Todo, error) {
	todo := &models.Todo{
		Title:       validation.SanitizeText(req.Title),
		Description: sanitizeOptional(req.Description),
		Priority:    models.DefaultPriority,
		DueDate:     req.DueDate.TimePtr(),
	}
	if req.Priority != nil {
		todo.Priority = *req.Priority
	}

	if err := s.repo.Create(ctx, todo); err != nil {
		return nil, fmt.Errorf("create todo: %w", err)
	}

	logpkg.FromContext(ctx, s.logger).Info("todo_created",
		zap.Int64("todo_id", todo.ID),
		zap.String("title", logpkg.SanitizeTitle(todo.Title)),
		zap.Int("priority", todo.Priority),
	)
	s.publish(ctx, queue.NewTodoEvent(queue.EventTodoCreated, todo.ID, todo.CreatedAt))

	return todo, nil
}

// Get returns a single todo
func (s *Service) Get(ctx context.Context, id int64) (*models.Todo, error) {
	todo, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return todo, nil
}

// GetMany returns the todos whose ids are listed. Unknown ids are skipped.
func (s *Service) GetMany(ctx context.Context, ids []int64) ([]*models.Todo, error) {
	items, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("find todos: %w", err)
	}
	return items, nil
}

// Update applies every non-nil field of req to the todo
func (s *Service) Update(ctx context.Context, id int64, req *UpdateRequest) (*models.Todo, error) {
	todo, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}

	if req.Title != nil {
		todo.Title = validation.SanitizeText(*req.Title)
	}
	if req.Description != nil {
		todo.Description = sanitizeOptional(req.Description)
	}
	if req.IsCompleted != nil {
		todo.SetCompleted(*req.IsCompleted, s.clock())
	}
	if req.Priority != nil {
		todo.Priority = *req.Priority
	}
	if req.DueDate != nil {
		todo.DueDate = req.DueDate.TimePtr()
	}

	if err := s.repo.Update(ctx, todo); err != nil {
		return nil, mapNotFound(err)
	}

	logpkg.FromContext(ctx, s.logger).Info("todo_updated", zap.Int64("todo_id", todo.ID))
	s.publish(ctx, queue.NewTodoEvent(queue.EventTodoUpdated, todo.ID, todo.UpdatedAt))

	return todo, nil
}

// Toggle flips the completion flag of a todo
func (s *Service) Toggle(ctx context.Context, id int64) (*models.Todo, error) {
	todo, err := s.repo.Toggle(ctx, id, s.clock())
	if err != nil {
		return nil, mapNotFound(err)
	}

	logpkg.FromContext(ctx, s.logger).Info("todo_toggled",
		zap.Int64("todo_id", todo.ID),
		zap.Bool("is_completed", todo.IsCompleted),
	)
	s.publish(ctx, queue.NewTodoEvent(queue.EventTodoToggled, todo.ID, todo.UpdatedAt))

	return todo, nil
}

// Delete removes a todo
func (s *Service) Delete(ctx context.Context, id int64) error {
	found, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	if !found {
		return ErrTodoNotFound
	}

	logpkg.FromContext(ctx, s.logger).Info("todo_deleted", zap.Int64("todo_id", id))
	s.publish(ctx, queue.NewTodoEvent(queue.EventTodoDeleted, id, s.clock()))

	return nil
}

// Batch applies action to every matching todo, or only to ids when given,
// and returns the number of rows affected.
func (s *Service) Batch(ctx context.Context, action models.BatchAction, ids []int64) (int64, error) {
	ctx, span := telemetry.StartSpan(ctx, "todos.batch")
	defer span.End()
	span.SetAttributes(
		attribute.String("todo.batch.action", string(action)),
		attribute.Int("todo.batch.scoped_ids", len(ids)),
	)

	var (
		n   int64
		err error
	)

	now := s.clock()
	switch action {
	case models.BatchDeleteCompleted:
		n, err = s.repo.DeleteCompleted(ctx, ids)
	case models.BatchDeleteAll:
		n, err = s.repo.DeleteAll(ctx, ids)
	case models.BatchCompleteAll:
		n, err = s.repo.CompleteAll(ctx, ids, now)
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidBatchAction, action)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "batch failed")
		return 0, fmt.Errorf("batch %s: %w", action, err)
	}
	span.SetAttributes(attribute.Int64("todo.batch.affected", n))

	logpkg.FromContext(ctx, s.logger).Info("todos_batch",
		zap.String("action", string(action)),
		zap.Int("scoped_ids", len(ids)),
		zap.Int64("affected", n),
	)
	s.publish(ctx, queue.NewBatchEvent(string(action), n, now))

	return n, nil
}

// BatchMessage renders the user-facing summary of a batch action
func BatchMessage(action models.BatchAction, n int64) string {
	switch action {
	case models.BatchDeleteCompleted:
		return fmt.Sprintf("Deleted %d completed todos", n)
	case models.BatchDeleteAll:
		return fmt.Sprintf("Deleted %d todos", n)
	case models.BatchCompleteAll:
		return fmt.Sprintf("Completed %d todos", n)
	default:
		return ""
	}
}

// Stats returns aggregate counts. Pending is derived from total and completed.
func (s *Service) Stats(ctx context.Context) (*models.Stats, error) {
	ctx, span := telemetry.StartSpan(ctx, "todos.stats")
	defer span.End()

	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count todos: %w", err)
	}

	completed, err := s.repo.CountByCompleted(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("count completed todos: %w", err)
	}

	overdue, err := s.repo.CountOverdue(ctx, s.clock())
	if err != nil {
		return nil, fmt.Errorf("count overdue todos: %w", err)
	}

	return &models.Stats{
		Total:     total,
		Completed: completed,
		Pending:   total - completed,
		Overdue:   overdue,
	}, nil
}

func (s *Service) publish(ctx context.Context, event *queue.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		logpkg.FromContext(ctx, s.logger).Warn("event_publish_failed",
			zap.String("event_type", string(event.Type)),
			zap.String("event_id", event.ID.String()),
			zap.String("error", logpkg.SanitizeError(err)),
		)
	}
}

// sanitizeOptional cleans an optional text field; blank values become nil
func sanitizeOptional(s *string) *string {
	if s == nil {
		return nil
	}
	clean := validation.SanitizeText(*s)
	if clean == "" {
		return nil
	}
	return &clean
}
