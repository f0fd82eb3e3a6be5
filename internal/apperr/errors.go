// Package apperr classifies failures so handlers can map them onto HTTP statuses.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is the class of a failure.
type Kind int

const (
	KindUnexpected Kind = iota
	KindInput
	KindNotFound
	KindAuth
	KindForbidden
	KindConflict
	KindUpstream
)

func (k Kind) String() string {
	switch k {
	case KindInput:
		return "input"
	case KindNotFound:
		return "not_found"
	case KindAuth:
		return "auth"
	case KindForbidden:
		return "forbidden"
	case KindConflict:
		return "conflict"
	case KindUpstream:
		return "upstream"
	default:
		return "unexpected"
	}
}

// Error is a classified error. Message is safe to show to clients.
type Error struct {
	Kind    Kind
	Message string
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

func newError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func Input(msg string) *Error     { return newError(KindInput, msg) }
func NotFound(msg string) *Error  { return newError(KindNotFound, msg) }
func Auth(msg string) *Error      { return newError(KindAuth, msg) }
func Forbidden(msg string) *Error { return newError(KindForbidden, msg) }
func Conflict(msg string) *Error  { return newError(KindConflict, msg) }

// Upstream wraps a failure of an external collaborator.
func Upstream(msg string, err error) *Error {
	return &Error{Kind: KindUpstream, Message: msg, Err: err}
}

// Unexpected wraps anything that does not fit another kind.
func Unexpected(err error) *Error {
	return &Error{Kind: KindUnexpected, Message: err.Error(), Err: err}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnexpected
}

// Is reports whether err is classified as kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// HTTPStatus maps err onto a response status code.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindInput:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindAuth:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindConflict:
		return http.StatusConflict
	case KindUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the client-facing text for err. Unexpected errors echo
// the underlying message.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
