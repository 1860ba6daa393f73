// Package errors provides centralized error definitions and error handling
// utilities for Harmony. It defines domain sentinel errors, semantic error
// types, and classification helpers used by the store, simulator and TUI.
//
// Creating errors:
//
//	err := errors.NewValidationError("dimensions", "inner dimensions must match")
//	err := errors.NewNotFoundError("task", "abc123")
//
// Checking errors:
//
//	if errors.Is(err, errors.ErrTaskNotFound) { ... }
//
//	var verr *errors.ValidationError
//	if errors.As(err, &verr) { ... }
//
//	if errors.IsUserFacing(err) { ... }
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions. Use errors.Is to test for them.
var (
	// ErrTaskNotFound indicates a task ID that is not present in the store.
	ErrTaskNotFound = errors.New("task not found")

	// ErrClientNotFound indicates a client ID that is not present in the store.
	ErrClientNotFound = errors.New("client not found")

	// ErrInvalidTransition indicates a task or client status transition
	// that the state machine does not allow.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrServerRunning is returned when starting an already running server.
	ErrServerRunning = errors.New("server already running")

	// ErrServerStopped is returned when stopping a server that is not running.
	ErrServerStopped = errors.New("server not running")

	// ErrNoIdleClients indicates that assignment found no idle client.
	ErrNoIdleClients = errors.New("no idle clients available")
)

// ValidationError indicates invalid input, such as incompatible matrix
// dimensions at task creation. Validation errors are always user-facing.
type ValidationError struct {
	Field  string // which input was invalid
	Reason string // human-readable explanation
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation failed: %s", e.Reason)
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NotFoundError indicates a missing resource with its identifier attached.
type NotFoundError struct {
	Resource string // e.g. "task", "client"
	ID       string
}

// NewNotFoundError creates a NotFoundError for the given resource and ID.
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.ID)
}

// Unwrap maps NotFoundError to the matching sentinel so callers can use
// errors.Is without knowing the concrete type.
func (e *NotFoundError) Unwrap() error {
	switch e.Resource {
	case "task":
		return ErrTaskNotFound
	case "client":
		return ErrClientNotFound
	}
	return nil
}

// TransitionError indicates an illegal state machine transition.
type TransitionError struct {
	Entity string // "task" or "client"
	ID     string
	From   string
	To     string
}

// NewTransitionError creates a TransitionError.
func NewTransitionError(entity, id, from, to string) *TransitionError {
	return &TransitionError{Entity: entity, ID: id, From: from, To: to}
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s %s: cannot transition from %s to %s", e.Entity, e.ID, e.From, e.To)
}

// Unwrap returns ErrInvalidTransition for errors.Is compatibility.
func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// IsUserFacing reports whether an error is safe and useful to surface
// directly in the UI. Validation failures and not-found conditions are
// user-facing; everything else is treated as internal.
func IsUserFacing(err error) bool {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return true
	}
	var nferr *NotFoundError
	if errors.As(err, &nferr) {
		return true
	}
	return errors.Is(err, ErrServerRunning) || errors.Is(err, ErrServerStopped)
}

// Re-exports so callers don't need to import both this package and the
// standard errors package.

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// New creates a new error with the given message.
func New(text string) error {
	return errors.New(text)
}

// Wrap wraps an error with additional context.
// Returns nil if err is nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
