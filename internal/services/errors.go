package services

import (
	"errors"
	"fmt"
)

var (
	ErrJobNotFound = errors.New("job not found")
	ErrNotAuthor   = errors.New("caller is not the job author")
)

// ValidationError is a client mistake: missing field, bad type, value out of
// range. Handlers turn it into a 400 with the message as-is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func validationf(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ConflictError is a business-rule rejection: duplicate job, duplicate
// application, unapply without an application. Also a 400, kept separate so
// callers can tell the two apart.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

func conflictf(format string, args ...interface{}) error {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}
