package handlers

import (
	"errors"
	"fmt"
	"net/http"

	logpkg "github.com/benvon/todo-everyday/internal/logger"
	"github.com/benvon/todo-everyday/internal/services/todos"
	"github.com/benvon/todo-everyday/internal/validation"
	"go.uber.org/zap"
)

const (
	msgValidationFailed = "Validation failed"
	msgInvalidBody      = "Invalid request body"
	msgBodyTooLarge     = "Request body too large"
	msgNotFound         = "Todo not found"
	msgInvalidAction    = "Invalid action"
	msgUnexpected       = "An unexpected error occurred"
	msgBatchFailed      = "Error performing batch operation"
)

// ParamError reports a path or query parameter that could not be converted
type ParamError struct {
	Name  string
	Value string
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("Invalid value '%s' for parameter '%s'", e.Value, e.Name)
}

// rangeError reports a parameter that parsed but lies outside its allowed range
type rangeError struct {
	Name    string
	Message string
}

func (e *rangeError) Error() string {
	return e.Message
}

// writeError translates err into the failure envelope. internalMessage is
// returned to the client for unexpected errors, whose details are only logged.
func writeError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error, internalMessage string) {
	var paramErr *ParamError
	var rangeErr *rangeError

	switch {
	case errors.As(err, &paramErr):
		respondJSONError(w, http.StatusBadRequest, paramErr.Error(), nil)
	case errors.As(err, &rangeErr):
		respondJSONError(w, http.StatusBadRequest, msgValidationFailed, map[string]string{rangeErr.Name: rangeErr.Message})
	case validation.FieldErrors(err) != nil:
		respondJSONError(w, http.StatusBadRequest, msgValidationFailed, validation.FieldErrors(err))
	case errors.Is(err, errBodyTooLarge):
		respondJSONError(w, http.StatusRequestEntityTooLarge, msgBodyTooLarge, nil)
	case errors.Is(err, errInvalidBody):
		respondJSONError(w, http.StatusBadRequest, msgInvalidBody, nil)
	case errors.Is(err, todos.ErrTodoNotFound):
		respondJSONError(w, http.StatusNotFound, msgNotFound, nil)
	case errors.Is(err, todos.ErrInvalidBatchAction):
		respondJSONError(w, http.StatusBadRequest, msgInvalidAction, nil)
	default:
		logpkg.FromContext(r.Context(), logger).Error("request_failed",
			zap.String("method", r.Method),
			zap.String("path", logpkg.SanitizePath(r.URL.Path)),
			zap.String("error", logpkg.SanitizeError(err)),
		)
		respondJSONError(w, http.StatusInternalServerError, internalMessage, nil)
	}
}
