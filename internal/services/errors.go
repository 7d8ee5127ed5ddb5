package services

import (
	"errors"
	"strings"

	"bloghub/dto"
)

// Error kinds. Handlers map them onto HTTP statuses with errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
	ErrConflict     = errors.New("conflict")
	ErrBadRequest   = errors.New("bad request")
)

// Error is a kind plus the message shown to the client.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }
func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, msg string) error {
	return &Error{Kind: kind, Message: msg}
}

var (
	errPostNotFound = newError(ErrNotFound, "Blog post not found")
	errUserNotFound = newError(ErrNotFound, "User not found")
	errNoUser       = newError(ErrUnauthorized, "Not authorized, no token")
)

// ValidationError lists every failing field.
type ValidationError struct {
	Errors []dto.FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		msgs = append(msgs, fe.Field+": "+fe.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func fieldError(field, msg string) *ValidationError {
	return &ValidationError{Errors: []dto.FieldError{{Field: field, Message: msg}}}
}
