// Package apperr defines the error taxonomy shared by every workflow.
//
// Workflow code never lets a raw store error escape: each failure path goes
// through Fail, which logs the message at error severity and returns an
// *Error tagged with one of the Kind values. The HTTP layer maps Kind to a
// status code 1:1 via Status.
package apperr

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
)

// Kind classifies a failure for the caller.
type Kind int

const (
	// Internal is the default for unexpected store or logic failures.
	Internal Kind = iota
	// Validation marks input that failed shape or constraint checks.
	Validation
	// Unauthenticated marks a missing or invalid identity.
	Unauthenticated
	// Forbidden marks an identity lacking the required role.
	Forbidden
	// NotFound marks a referenced entity that does not exist.
	NotFound
	// Conflict marks a uniqueness or integrity violation.
	Conflict
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation"
	case Unauthenticated:
		return "unauthenticated"
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

// Status returns the HTTP status code implied by the kind.
func (k Kind) Status() int {
	switch k {
	case Validation:
		return http.StatusBadRequest
	case Unauthenticated:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case Conflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Error is a caller-visible, kind-tagged error.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// New returns a tagged error without logging. Use Fail on workflow failure
// paths so logging stays consistent.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Newf is New with formatting.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Fail logs msg at error severity and returns the tagged error. cause may be
// nil; when set it is wrapped so errors.Is/As keep working, but it is never
// shown to callers by the HTTP layer.
func Fail(log *slog.Logger, kind Kind, msg string, cause error) *Error {
	if log != nil {
		if cause != nil {
			log.Error(msg, "kind", kind.String(), "error", cause)
		} else {
			log.Error(msg, "kind", kind.String())
		}
	}
	return &Error{Kind: kind, Message: msg, cause: cause}
}

// KindOf extracts the Kind from err, defaulting to Internal for errors that
// did not come out of the taxonomy.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// StatusOf returns the HTTP status implied by err.
func StatusOf(err error) int {
	return KindOf(err).Status()
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
