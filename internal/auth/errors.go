package auth

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an authentication failure.
// Keep these stable; they are logged and asserted on by callers.
type Kind string

const (
	KindExpired             Kind = "expired"
	KindMalformed           Kind = "malformed"
	KindMissingIdentifier   Kind = "missing_identifier"
	KindMalformedIdentifier Kind = "malformed_identifier"
	KindInternal            Kind = "internal"
)

// Error is the only error type returned by Verifier, ExtractAccountID and Authenticator.
// Detail carries the underlying reason for KindMalformed and KindInternal.
type Error struct {
	Kind   Kind
	Detail string
	Err    error
}

func (e *Error) Error() string {
	return e.Message()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Message is the human-readable text returned to the client.
func (e *Error) Message() string {
	switch e.Kind {
	case KindExpired:
		return "Token has expired"
	case KindMalformed:
		return "Invalid token: " + e.Detail
	case KindMissingIdentifier:
		return "Invalid token: missing account_id"
	case KindMalformedIdentifier:
		return "Invalid token: malformed account_id"
	default:
		return "Authentication error: " + e.Detail
	}
}

// Status maps the failure onto an HTTP status code.
// Untrusted-input failures are 401; everything else is a system fault.
func (e *Error) Status() int {
	switch e.Kind {
	case KindExpired, KindMalformed, KindMissingIdentifier, KindMalformedIdentifier:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func newError(kind Kind, err error) *Error {
	e := &Error{Kind: kind, Err: err}
	if err != nil {
		e.Detail = err.Error()
	}
	return e
}

func internalf(format string, args ...any) *Error {
	return newError(KindInternal, fmt.Errorf(format, args...))
}

// KindOf returns the classification of err, or KindInternal for foreign errors.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

// AsError converts any error into an *Error, wrapping unknown failures as internal.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return newError(KindInternal, err)
}
