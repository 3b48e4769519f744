// Package domainerrors defines the coded error type returned by all services.
//
// Stores return pkg/platform/sentinel errors (infrastructure facts); services
// translate those into coded domain errors. The transport layer maps codes to
// HTTP statuses and never inspects raw store errors.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies a domain error for callers and the transport layer.
type Code string

const (
	// CodeInvalidInput marks malformed or missing input (validation failures).
	CodeInvalidInput Code = "invalid_input"
	// CodeNotFound marks an unknown entity id.
	CodeNotFound Code = "not_found"
	// CodeConflict marks a transition not permitted from the current state.
	CodeConflict Code = "conflict"
	// CodeExpired marks a donation past its expiry instant. Reported distinctly
	// from CodeConflict so callers can give accurate feedback.
	CodeExpired Code = "expired"
	// CodeForbidden marks an actor not authorized for the transition.
	CodeForbidden Code = "forbidden"
	// CodeUnauthorized marks a missing or invalid credential.
	CodeUnauthorized Code = "unauthorized"
	// CodeUnavailable marks an underlying store or lock failure. This is the
	// only code a caller may reasonably retry.
	CodeUnavailable Code = "unavailable"
	// CodeInvariantViolation marks a broken aggregate invariant. Model
	// constructors and transition validators return it; services usually
	// re-code it before it reaches a caller.
	CodeInvariantViolation Code = "invariant_violation"
	// CodeInternal marks an unexpected failure with no better classification.
	CodeInternal Code = "internal"
)

// Error is a coded domain error. It wraps an optional cause.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New creates a coded error without a cause.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Newf creates a coded error with a formatted message.
func Newf(code Code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error. A nil err yields nil.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, cause: err}
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// Is is an alias for HasCode kept for readability at call sites.
func Is(err error, code Code) bool { return HasCode(err, code) }

// CodeOf extracts the code from err, defaulting to CodeInternal.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// ToHTTPStatus maps a domain error code to an HTTP status.
// CodeExpired maps to 410 Gone: the resource existed but is no longer claimable.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeInvalidInput:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeExpired:
		return http.StatusGone
	case CodeForbidden:
		return http.StatusForbidden
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeUnavailable:
		return http.StatusServiceUnavailable
	case CodeInvariantViolation, CodeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
