package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrValidation     = errors.New("validation error")
	ErrLimitExceeded  = errors.New("limit exceeded")
	ErrDuplicateEmail = errors.New("duplicate email")
)

type AppError struct {
	Err     error  // sentinel error kind
	Message string // Human-readable error message
	Field   string // Optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// LimitExceeded reports a selection list over the configured cap.
// The message names the limit so the client can display it.
func LimitExceeded(field string, limit int, what string) *AppError {
	return &AppError{
		Err:     ErrLimitExceeded,
		Message: fmt.Sprintf("you can select at most %d %s", limit, what),
		Field:   field,
	}
}

// DuplicateEmail reports an email already bound to an assigned participant
// of the same trip.
func DuplicateEmail() *AppError {
	return &AppError{
		Err:     ErrDuplicateEmail,
		Message: "this email is already associated with a participant in this trip",
		Field:   "email",
	}
}
