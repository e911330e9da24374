// Package apperr defines the error kinds shared across services and handlers:
// ValidationError, ErrNotFound, ErrConflict and PersistenceError. Services
// return these unmodified; handlers translate them to HTTP statuses.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)

// ValidationError reports one or more input constraint violations. It is
// always produced before any write is attempted.
type ValidationError struct {
	Details []string
}

func (e *ValidationError) Error() string {
	return "validation error: " + strings.Join(e.Details, "; ")
}

// Validation builds a ValidationError with "field: message" details.
func Validation(details ...string) *ValidationError {
	return &ValidationError{Details: details}
}

// PersistenceError wraps a datastore failure that was surfaced after rollback.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence error: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func Persistence(op string, err error) *PersistenceError {
	return &PersistenceError{Op: op, Err: err}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
