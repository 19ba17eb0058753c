// Package apperr carries typed error kinds between services and the
// transport layer. The HTTP surface flattens every client-facing kind to
// a single 422 response; the kinds exist so callers inside the process
// can still tell failures apart without parsing message text.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a client-facing failure
type Kind int

const (
	// Validation covers missing or malformed input fields
	Validation Kind = iota + 1
	// Auth covers missing, malformed, or expired credentials
	Auth
	// Forbidden covers an actor operating on a resource it does not own
	Forbidden
	// NotFound covers unknown slugs, usernames, and comment ids
	NotFound
	// Conflict covers duplicate usernames and emails
	Conflict
)

// Error is a client-facing failure with a kind and a human-readable message
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// New creates an Error with the given kind and message
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates an Error with a formatted message
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the kind carried by err, or 0 for unclassified errors
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsClient reports whether err is a client-facing failure rather than an
// internal one (store errors and the like)
func IsClient(err error) bool {
	return KindOf(err) != 0
}
