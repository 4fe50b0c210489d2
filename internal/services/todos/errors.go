package todos

import "errors"

var (
	// ErrTodoNotFound is returned when the addressed todo does not exist
	ErrTodoNotFound = errors.New("todo not found")
	// ErrInvalidBatchAction is returned for an unrecognized batch action
	ErrInvalidBatchAction = errors.New("invalid batch action")
)
