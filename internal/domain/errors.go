package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates that no contact with the requested id exists
	// within the caller's ownership scope. It is deliberately identical for
	// a truly absent row and a row owned by another user.
	ErrNotFound = errors.New("contact not found")
	// ErrConflict indicates that a write would violate a uniqueness
	// constraint, such as a duplicate email for the same owner.
	ErrConflict = errors.New("contact already exists")
	// ErrBackend indicates that the persistence backend failed or was
	// unreachable during an operation.
	ErrBackend = errors.New("storage backend failure")
)

// ValidationError reports a domain-rule violation on an input field. Shape
// validation belongs to the HTTP layer; this is the defensive backstop.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
