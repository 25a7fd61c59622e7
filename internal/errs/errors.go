// Package errs defines the error taxonomy shared across handlers, services
// and repositories.
package errs

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates the requested record does not exist.
var ErrNotFound = errors.New("not found")

// ErrAlreadyExists indicates a unique constraint rejected the insert.
var ErrAlreadyExists = errors.New("already exists")

// ErrNoPayment indicates a settlement attempt where the combined cash and
// normalized transfer amount is zero or less. No stored state may be mutated
// when this error is returned.
var ErrNoPayment = errors.New("no payment provided")

// ValidationError indicates a request field is missing or out of range.
// It is raised before any remote call is made.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// RemoteOperationError wraps a failed read or write against the data store.
// The settlement write sequence is not transactional: a remote failure on a
// later step leaves earlier steps committed, and Step records how far the
// sequence got before failing.
type RemoteOperationError struct {
	Op   string
	Step int
	Err  error
}

func (e *RemoteOperationError) Error() string {
	return fmt.Sprintf("remote operation %s failed at step %d: %v", e.Op, e.Step, e.Err)
}

func (e *RemoteOperationError) Unwrap() error {
	return e.Err
}
