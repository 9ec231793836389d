// Package apperror defines the closed set of error kinds that auth flows
// produce. Every user-facing failure is an *Error carrying a kind, a
// human-readable message and a machine-readable code; infrastructure
// failures wrap their cause under the Internal kind.
package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies an error with an HTTP-status-equivalent severity.
type Kind int

const (
	BadRequest Kind = iota
	Unauthorized
	Forbidden
	NotFound
	Conflict
	Internal
)

func (k Kind) String() string {
	switch k {
	case BadRequest:
		return "bad_request"
	case Unauthorized:
		return "unauthorized"
	case Forbidden:
		return "forbidden"
	case NotFound:
		return "not_found"
	case Conflict:
		return "conflict"
	default:
		return "internal"
	}
}

// Error is a flow-level error. Fields is only set for validation errors and
// maps field names to what is wrong with them.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Fields  map[string]string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an error of the given kind.
func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// Wrap marks err as an internal failure with a caller-facing message.
func Wrap(err error, message string) *Error {
	return &Error{Kind: Internal, Code: "internal_error", Message: message, Err: err}
}

// WithField attaches a field-keyed validation detail and returns the error.
func (e *Error) WithField(field, detail string) *Error {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	e.Fields[field] = detail
	return e
}

// KindOf reports the kind of err. Errors that are not *Error are treated as
// internal failures.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return Internal
}

// From returns err as *Error, wrapping unknown errors under Internal.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, "internal server error")
}
