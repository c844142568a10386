// Package domain defines core types, interfaces, and errors for the booking system.
package domain

import "fmt"

// NotFoundError indicates a referenced entity was not found.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

// AccessDeniedError indicates insufficient permissions.
type AccessDeniedError struct {
	Message string
}

func (e *AccessDeniedError) Error() string { return e.Message }

// ValidationError indicates invalid input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ConflictError indicates a conflict: a duplicate unique key, or a booking
// window that collides with the existing conflict set of a resource.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// InvalidTransitionError indicates a booking status change that is not
// reachable from the booking's current status.
type InvalidTransitionError struct {
	From    BookingStatus
	To      BookingStatus
	Message string
}

func (e *InvalidTransitionError) Error() string { return e.Message }

// ContentionError indicates the resource lock could not be acquired in time.
// The operation left no partial writes and is safe to retry.
type ContentionError struct {
	Message string
}

func (e *ContentionError) Error() string { return e.Message }

// StorageError indicates the entity store failed mid-transaction. The
// transaction was rolled back and no partial state was committed.
type StorageError struct {
	Message string
}

func (e *StorageError) Error() string { return e.Message }

// ErrNotFound creates a NotFoundError with a formatted message.
func ErrNotFound(format string, args ...interface{}) *NotFoundError {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

// ErrAccessDenied creates an AccessDeniedError with a formatted message.
func ErrAccessDenied(format string, args ...interface{}) *AccessDeniedError {
	return &AccessDeniedError{Message: fmt.Sprintf(format, args...)}
}

// ErrValidation creates a ValidationError with a formatted message.
func ErrValidation(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ErrConflict creates a ConflictError with a formatted message.
func ErrConflict(format string, args ...interface{}) *ConflictError {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}

// ErrInvalidTransition creates an InvalidTransitionError for the given statuses.
func ErrInvalidTransition(from, to BookingStatus) *InvalidTransitionError {
	return &InvalidTransitionError{
		From:    from,
		To:      to,
		Message: fmt.Sprintf("booking status cannot change from %q to %q", from, to),
	}
}

// ErrContention creates a ContentionError with a formatted message.
func ErrContention(format string, args ...interface{}) *ContentionError {
	return &ContentionError{Message: fmt.Sprintf(format, args...)}
}

// ErrStorage creates a StorageError with a formatted message.
func ErrStorage(format string, args ...interface{}) *StorageError {
	return &StorageError{Message: fmt.Sprintf(format, args...)}
}
