package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/benvon/todo-everyday/internal/models"
	"github.com/benvon/todo-everyday/internal/services/todos"
	"github.com/benvon/todo-everyday/internal/validation"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const (
	// DefaultPage is the page returned when none is requested
	DefaultPage = 1
	// DefaultLimit is the page size used when none is requested
	DefaultLimit = 10
	// MaxLimit is the largest accepted page size
	MaxLimit = 100
)

// TodoService is the business layer the todo handlers depend on
type TodoService interface {
	List(ctx context.Context, filter models.FilterStatus, page, limit int) (*todos.ListResult, error)
	Create(ctx context.Context, req *todos.CreateRequest) (*models.Todo, error)
	Get(ctx context.Context, id int64) (*models.Todo, error)
	Update(ctx context.Context, id int64, req *todos.UpdateRequest) (*models.Todo, error)
	Toggle(ctx context.Context, id int64) (*models.Todo, error)
	Delete(ctx context.Context, id int64) error
	Batch(ctx context.Context, action models.BatchAction, ids []int64) (int64, error)
	Stats(ctx context.Context) (*models.Stats, error)
}

var _ TodoService = (*todos.Service)(nil)

// TodoHandler handles todo-related requests
type TodoHandler struct {
	service TodoService
	logger  *zap.Logger
}

// NewTodoHandler creates a new todo handler
func NewTodoHandler(service TodoService, logger *zap.Logger) *TodoHandler {
	return &TodoHandler{service: service, logger: logger}
}

// RegisterRoutes registers todo routes on the given router
// The router should already have the /todos prefix (e.g., from apiRouter.PathPrefix("/todos"))
func (h *TodoHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.ListTodos).Methods(http.MethodGet)
	r.HandleFunc("", h.CreateTodo).Methods(http.MethodPost)
	r.HandleFunc("/stats", h.GetStats).Methods(http.MethodGet)
	r.HandleFunc("/batch", h.BatchOperation).Methods(http.MethodPost)
	r.HandleFunc("/{id}", h.GetTodo).Methods(http.MethodGet)
	r.HandleFunc("/{id}", h.UpdateTodo).Methods(http.MethodPut)
	r.HandleFunc("/{id}", h.DeleteTodo).Methods(http.MethodDelete)
	r.HandleFunc("/{id}/toggle", h.ToggleTodo).Methods(http.MethodPatch)
}

// intParam reads an optional integer query parameter bounded by [lo, hi]
func intParam(q url.Values, name string, def, lo, hi int) (int, error) {
	raw := q.Get(name)
	if raw == "" {
		return def, nil
	}

	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, &ParamError{Name: name, Value: raw}
	}

	label := strings.ToUpper(name[:1]) + name[1:]
	if v < lo {
		if hi <= 0 {
			return 0, &rangeError{Name: name, Message: fmt.Sprintf("%s must be at least %d", label, lo)}
		}
		return 0, &rangeError{Name: name, Message: fmt.Sprintf("%s must be between %d and %d", label, lo, hi)}
	}
	if hi > 0 && v > hi {
		return 0, &rangeError{Name: name, Message: fmt.Sprintf("%s must be between %d and %d", label, lo, hi)}
	}
	return v, nil
}

// todoID parses the {id} path variable
func todoID(r *http.Request) (int64, error) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, &ParamError{Name: "id", Value: raw}
	}
	return id, nil
}

// ListTodos lists todos with status filtering and pagination
func (h *TodoHandler) ListTodos(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	page, err := intParam(q, "page", DefaultPage, 1, 0)
	if err != nil {
		writeError(w, r, h.logger, err, msgUnexpected)
		return
	}

	limit, err := intParam(q, "limit", DefaultLimit, 1, MaxLimit)
	if err != nil {
		writeError(w, r, h.logger, err, msgUnexpected)
		return
	}

	filter := models.ParseFilterStatus(q.Get("status"))

	result, err := h.service.List(r.Context(), filter, page, limit)
	if err != nil {
		writeError(w, r, h.logger, err, msgUnexpected)
		return
	}

	respondJSON(w, http.StatusOK, ListEnvelope{
		Success: true,
		Data:    result.Items,
		Total:   result.Total,
		Page:    result.Page,
		Limit:   result.Limit,
	})
}

// CreateTodo creates a new todo
func (h *TodoHandler) CreateTodo(w http.ResponseWriter, r *http.Request) {
	var req todos.CreateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err, msgUnexpected)
		return
	}

	if err := validation.Validate.Struct(req); err != nil {
		writeError(w, r, h.logger, err, msgUnexpected)
		return
	}

	todo, err := h.service.Create(r.Context(), &req)
	if err != nil {
		writeError(w, r, h.logger, err, msgUnexpected)
		return
	}

	respondSuccess(w, http.StatusCreated, "", todo)
}

// GetTodo returns a single todo
func (h *TodoHandler) GetTodo(w http.ResponseWriter, r *http.Request) {
	id, err := todoID(r)
	if err != nil {
		writeError(w, r, h.logger, err, msgUnexpected)
		return
	}

	todo, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err, msgUnexpected)
		return
	}

	respondSuccess(w, http.StatusOK, "", todo)
}

// UpdateTodo applies a partial update to a todo
func (h *TodoHandler) UpdateTodo(w http.ResponseWriter, r *http.Request) {
	id, err := todoID(r)
	if err != nil {
		writeError(w, r, h.logger, err, msgUnexpected)
		return
	}

	var req todos.UpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err, msgUnexpected)
		return
	}

	if err := validation.Validate.Struct(req); err != nil {
		writeError(w, r, h.logger, err, msgUnexpected)
		return
	}

	todo, err := h.service.Update(r.Context(), id, &req)
	if err != nil {
		writeError(w, r, h.logger, err, msgUnexpected)
		return
	}

	respondSuccess(w, http.StatusOK, "", todo)
}

// ToggleTodo flips the completion flag of a todo
func (h *TodoHandler) ToggleTodo(w http.ResponseWriter, r *http.Request) {
	id, err := todoID(r)
	if err != nil {
		writeError(w, r, h.logger, err, msgUnexpected)
		return
	}

	todo, err := h.service.Toggle(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err, msgUnexpected)
		return
	}

	respondSuccess(w, http.StatusOK, "", todo)
}

// DeleteTodo deletes a todo
func (h *TodoHandler) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	id, err := todoID(r)
	if err != nil {
		writeError(w, r, h.logger, err, msgUnexpected)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeError(w, r, h.logger, err, msgUnexpected)
		return
	}

	respondSuccess(w, http.StatusOK, "Todo deleted successfully", nil)
}

// BatchOperation applies a bulk action
func (h *TodoHandler) BatchOperation(w http.ResponseWriter, r *http.Request) {
	var req todos.BatchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, h.logger, err, msgBatchFailed)
		return
	}

	if err := validation.Validate.Struct(req); err != nil {
		writeError(w, r, h.logger, err, msgBatchFailed)
		return
	}

	action := models.BatchAction(strings.ToLower(strings.TrimSpace(string(req.Action))))

	n, err := h.service.Batch(r.Context(), action, req.TodoIDs)
	if err != nil {
		writeError(w, r, h.logger, err, msgBatchFailed)
		return
	}

	respondSuccess(w, http.StatusOK, todos.BatchMessage(action, n), nil)
}

// GetStats returns aggregate counts
func (h *TodoHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err, msgUnexpected)
		return
	}

	respondSuccess(w, http.StatusOK, "", stats)
}
