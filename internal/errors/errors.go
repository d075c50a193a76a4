// Package errors provides the closed error taxonomy surfaced by the Folio API.
//
// Every failure a caller can see is one of three codes: NOT_FOUND,
// UNAVAILABLE, or GENERIC. Services are the single place that narrows
// low-level errors into this taxonomy; handlers only ever switch on it.
//
//	if errors.Is(err, errors.ErrNotFound) {
//	    response.NotFound(w, err.Error(), logger)
//	}
package errors

import (
	"errors"
	"fmt"
)

// Re-export standard library functions so callers need a single import.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	Join   = errors.Join
)

// Code is a machine-readable error code.
type Code string

const (
	// CodeNotFound means the lookup succeeded but the record does not exist.
	CodeNotFound Code = "NOT_FOUND"
	// CodeUnavailable means the store was reachable but a call failed for a
	// connectivity or permission reason.
	CodeUnavailable Code = "UNAVAILABLE"
	// CodeGeneric covers everything else: validation failures, missing
	// caller identity, and unrecognized errors.
	CodeGeneric Code = "GENERIC"
)

// HTTPStatus maps an error code onto an HTTP status.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeNotFound:
		return 404
	case CodeUnavailable:
		return 503
	default:
		return 400
	}
}

// Error is a taxonomy error with an optional cause and details payload.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error { return e.cause }

// Is matches any *Error with the same Code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// HTTPStatus returns the HTTP status for this error.
func (e *Error) HTTPStatus() int { return e.Code.HTTPStatus() }

// WithCause wraps an underlying error.
func (e *Error) WithCause(err error) *Error {
	return &Error{Code: e.Code, Message: e.Message, Details: e.Details, cause: err}
}

// WithDetails attaches a details payload.
func (e *Error) WithDetails(details any) *Error {
	return &Error{Code: e.Code, Message: e.Message, Details: details, cause: e.cause}
}

// Sentinel errors for use with errors.Is().
var (
	ErrNotFound    = &Error{Code: CodeNotFound, Message: "not found"}
	ErrUnavailable = &Error{Code: CodeUnavailable, Message: "unavailable"}
	ErrGeneric     = &Error{Code: CodeGeneric, Message: "request failed"}
)

// NotFound creates a not-found error.
func NotFound(msg string) *Error {
	return &Error{Code: CodeNotFound, Message: msg}
}

// NotFoundf creates a not-found error with a formatted message.
func NotFoundf(format string, args ...any) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

// Unavailable creates an unavailable error.
func Unavailable(msg string) *Error {
	return &Error{Code: CodeUnavailable, Message: msg}
}

// Generic creates a generic error.
func Generic(msg string) *Error {
	return &Error{Code: CodeGeneric, Message: msg}
}

// Genericf creates a generic error with a formatted message.
func Genericf(format string, args ...any) *Error {
	return &Error{Code: CodeGeneric, Message: fmt.Sprintf(format, args...)}
}

// GenericWithDetails creates a generic error carrying a details payload,
// used for per-field validation results.
func GenericWithDetails(msg string, details any) *Error {
	return &Error{Code: CodeGeneric, Message: msg, Details: details}
}

// Wrap wraps an error with a code and message.
func Wrap(err error, code Code, msg string) *Error {
	return &Error{Code: code, Message: msg, cause: err}
}
