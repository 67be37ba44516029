// Package errs defines the error taxonomy shared by the credential store,
// the request signer, and the API client. Every failure surfaced to a
// command carries exactly one Kind so callers (and tests) can branch on the
// category instead of matching message text.
package errs

import (
	"errors"
	"fmt"
)

// Kind classifies a failure.
type Kind string

const (
	// KindPrecondition indicates a missing local prerequisite (no key pair,
	// no session token) detected before any network call is attempted.
	KindPrecondition Kind = "precondition"

	// KindTransport indicates the request never produced an HTTP response
	// (connection refused, timeout, DNS failure).
	KindTransport Kind = "transport"

	// KindServer indicates the server answered with a non-2xx status; the
	// status and the server's message are attached.
	KindServer Kind = "server"

	// KindPersistence indicates local credential state could not be read or
	// written.
	KindPersistence Kind = "persistence"
)

// Error is the discriminated error type used across the client. Status is
// only set for KindServer.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.Kind == KindServer && e.Cause != nil:
		return fmt.Sprintf("server error (%d): %s: %v", e.Status, e.Message, e.Cause)
	case e.Kind == KindServer:
		return fmt.Sprintf("server error (%d): %s", e.Status, e.Message)
	case e.Cause != nil:
		return fmt.Sprintf("%s error: %s: %v", e.Kind, e.Message, e.Cause)
	default:
		return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
	}
}

// Unwrap returns the underlying cause for errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches on Kind so errors.Is(err, errs.ErrTransport) holds for any
// transport failure regardless of message.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Kind == t.Kind
	}
	return false
}

// Sentinels for category checks with errors.Is.
var (
	ErrPrecondition = &Error{Kind: KindPrecondition}
	ErrTransport    = &Error{Kind: KindTransport}
	ErrServer       = &Error{Kind: KindServer}
	ErrPersistence  = &Error{Kind: KindPersistence}
)

// Precondition reports a missing local prerequisite.
func Precondition(format string, args ...any) *Error {
	return &Error{Kind: KindPrecondition, Message: fmt.Sprintf(format, args...)}
}

// Transport wraps a failure to reach the server at all.
func Transport(cause error, format string, args ...any) *Error {
	return &Error{Kind: KindTransport, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Server reports a non-2xx response with the server's status and message.
func Server(status int, message string) *Error {
	return &Error{Kind: KindServer, Status: status, Message: message}
}

// Persistence wraps a local state read/write failure.
func Persistence(cause error, format string, args ...any) *Error {
	return &Error{Kind: KindPersistence, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// As extracts an *Error from err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf returns the Kind of err, or the empty Kind for foreign errors.
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return Kind("")
}
