package apperrors

import (
	"net/http"

	"github.com/pkg/errors"
)

// Kind classifies an error for HTTP surfacing. Handlers map kinds to
// status codes and keep the underlying cause server-side.
type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidArgument
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindUnavailable
)

// Error carries a kind, a caller-safe message and an optional cause.
type Error struct {
	kind Kind
	msg  string
	err  error
}

// New creates an error of the given kind
func New(kind Kind, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

// Wrap attaches a kind and caller-safe message to an underlying error
func Wrap(err error, kind Kind, msg string) *Error {
	return &Error{kind: kind, msg: msg, err: errors.Wrap(err, msg)}
}

func (e *Error) Error() string {
	if e.err != nil {
		return e.err.Error()
	}
	return e.msg
}

// Message returns the caller-safe message
func (e *Error) Message() string {
	return e.msg
}

// Kind returns the error's kind
func (e *Error) Kind() Kind {
	return e.kind
}

func (e *Error) Unwrap() error {
	return e.err
}

// KindOf extracts the kind from an error chain, KindUnknown if none
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.kind
	}
	return KindUnknown
}

// MessageOf returns the caller-safe message for an error chain. Errors
// without a kind surface a generic message so store internals never
// leak to clients.
func MessageOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.msg
	}
	return "internal server error"
}

// HTTPStatus maps an error chain to an HTTP status code
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindInvalidArgument:
		return http.StatusBadRequest
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindUnavailable:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
