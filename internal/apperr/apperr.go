// Package apperr defines the error kinds services return and how they map
// onto HTTP status codes
package apperr

import (
	"errors"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindUnauthorized
	KindInvalidToken
	KindExpired
	KindForbidden
	KindNotFound
	KindInvalidCode
	KindInvalidOrExpired
	KindUpstream
)

var statusByKind = map[Kind]int{
	KindInternal:         http.StatusInternalServerError,
	KindValidation:       http.StatusBadRequest,
	KindConflict:         http.StatusConflict,
	KindUnauthorized:     http.StatusUnauthorized,
	KindInvalidToken:     http.StatusUnauthorized,
	KindExpired:          http.StatusUnauthorized,
	KindForbidden:        http.StatusForbidden,
	KindNotFound:         http.StatusNotFound,
	KindInvalidCode:      http.StatusBadRequest,
	KindInvalidOrExpired: http.StatusNotFound,
	KindUpstream:         http.StatusBadGateway,
}

// Error carries a kind, a message that is safe to show to the client and
// optionally the underlying cause
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// Sentinels for errors.Is. A sentinel matches any *Error of the same kind.
var (
	ErrInternal         = &Error{Kind: KindInternal}
	ErrValidation       = &Error{Kind: KindValidation}
	ErrConflict         = &Error{Kind: KindConflict}
	ErrUnauthorized     = &Error{Kind: KindUnauthorized}
	ErrInvalidToken     = &Error{Kind: KindInvalidToken}
	ErrExpired          = &Error{Kind: KindExpired}
	ErrForbidden        = &Error{Kind: KindForbidden}
	ErrNotFound         = &Error{Kind: KindNotFound}
	ErrInvalidCode      = &Error{Kind: KindInvalidCode}
	ErrInvalidOrExpired = &Error{Kind: KindInvalidOrExpired}
	ErrUpstream         = &Error{Kind: KindUpstream}
)

func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return e.Message + ": " + e.Err.Error()
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	}

	return http.StatusText(statusByKind[e.Kind])
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return t.Message == "" && t.Err == nil && t.Kind == e.Kind
}

func New(k Kind, msg string) error {
	return &Error{Kind: k, Message: msg}
}

func Wrap(k Kind, msg string, err error) error {
	return &Error{Kind: k, Message: msg, Err: err}
}

func Validation(msg string) error       { return New(KindValidation, msg) }
func Conflict(msg string) error         { return New(KindConflict, msg) }
func Unauthorized(msg string) error     { return New(KindUnauthorized, msg) }
func Forbidden(msg string) error        { return New(KindForbidden, msg) }
func NotFound(msg string) error         { return New(KindNotFound, msg) }
func InvalidCode(msg string) error      { return New(KindInvalidCode, msg) }
func InvalidOrExpired(msg string) error { return New(KindInvalidOrExpired, msg) }

// Internal wraps an unexpected failure. The cause is kept for logging but
// never shown to clients.
func Internal(err error) error {
	return &Error{Kind: KindInternal, Err: err}
}

func Upstream(err error) error {
	return &Error{Kind: KindUpstream, Err: err}
}

// KindOf returns the kind of err, KindInternal for anything that isn't an
// *Error
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return KindInternal
}

func Status(err error) int {
	return statusByKind[KindOf(err)]
}

// PublicMessage returns the message that may be sent to a client
func PublicMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return "Internal server error"
	}

	switch e.Kind {
	case KindInternal:
		return "Internal server error"
	case KindUpstream:
		return "Upstream service failure"
	}

	if e.Message != "" {
		return e.Message
	}

	return http.StatusText(statusByKind[e.Kind])
}
