// Package errs defines the error taxonomy for tracker operations.
// Validation errors are rejected before any write; not-found errors are
// surfaced but never fatal; storage errors wrap driver failures and are the
// only class eligible for retry.
package errs

import "fmt"

// ValidationError indicates the caller supplied bad input (score out of
// range, unknown or cyclic prerequisite). Nothing was written.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation: " + e.Reason
}

// Validationf builds a ValidationError from a format string.
func Validationf(format string, args ...any) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// NotFoundError indicates a referenced entity does not exist.
type NotFoundError struct {
	Kind string
	ID   int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Kind, e.ID)
}

// NotFound builds a NotFoundError for the given entity kind and id.
func NotFound(kind string, id int64) *NotFoundError {
	return &NotFoundError{Kind: kind, ID: id}
}

// StorageError wraps a failure from the record store after retries are
// exhausted. The current operation halts; callers must not retry blindly.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
