// Package apperr defines the error kinds surfaced to admin users.
package apperr

import (
	"errors"
	"fmt"
)

// ErrBusy is returned while another mutating operation of the same entity
// kind is still in flight.
var ErrBusy = errors.New("another operation is in progress")

// ValidationError reports a missing or malformed value at submit time.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// PolicyError reports a disallowed state transition.
type PolicyError struct {
	Message string
}

func (e *PolicyError) Error() string { return e.Message }

// NotFoundError reports an id that no longer exists in the remote store.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// RemoteError wraps a failure of the remote store.
type RemoteError struct {
	Op  string
	Err error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error { return e.Err }

func Validation(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

func Policy(message string) error {
	return &PolicyError{Message: message}
}

func NotFound(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

func Remote(op string, err error) error {
	return &RemoteError{Op: op, Err: err}
}

// Kind names the category of err for logs and API responses.
func Kind(err error) string {
	var (
		v *ValidationError
		p *PolicyError
		n *NotFoundError
		r *RemoteError
	)
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrBusy):
		return "busy"
	case errors.As(err, &v):
		return "validation"
	case errors.As(err, &p):
		return "policy"
	case errors.As(err, &n):
		return "not_found"
	case errors.As(err, &r):
		return "remote"
	default:
		return "internal"
	}
}
