// Package apierror defines the normalized error taxonomy for platform calls.
// Local pre-flight failures and remote failures map onto the same kinds so
// callers can branch programmatically without caring where a failure arose.
package apierror

import (
	"errors"
	"fmt"
	"time"
)

// Kind categorizes a gateway failure.
type Kind string

const (
	// KindConfiguration means the client was constructed without valid
	// credentials. Raised at construction, never per call.
	KindConfiguration Kind = "CONFIGURATION"
	// KindRateLimited covers both the local quota rejecting a call before
	// dispatch and the platform returning 429. ResetAt is set when known.
	KindRateLimited Kind = "RATE_LIMITED"
	// KindRemoteClient is any other 4xx from the platform.
	KindRemoteClient Kind = "REMOTE_CLIENT"
	// KindRemoteServer is a 5xx from the platform.
	KindRemoteServer Kind = "REMOTE_SERVER"
	// KindNetwork is a transport failure (DNS, connect, timeout,
	// cancellation) before any HTTP status was obtained.
	KindNetwork Kind = "NETWORK"
	// KindMalformedResponse means a 2xx body could not be decoded.
	KindMalformedResponse Kind = "MALFORMED_RESPONSE"
)

// Error is the uniform error value returned by the gateway.
type Error struct {
	Kind    Kind
	Status  int       // HTTP status when one was obtained, else 0
	Message string
	ResetAt time.Time // set for rate-limit errors when known
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Err)
	case e.Status != 0:
		return fmt.Sprintf("[%s] %d %s", e.Kind, e.Status, e.Message)
	default:
		return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an Error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates an Error of the given kind around an underlying cause.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// IsKind reports whether err is (or wraps) a gateway Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind == kind
	}
	return false
}

// IsRateLimited reports whether err represents throttling, local or remote.
func IsRateLimited(err error) bool {
	return IsKind(err, KindRateLimited)
}

// StatusOf returns the HTTP status carried by err, or 0 if none.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// ResetAtOf returns the throttle reset time carried by err, if any.
func ResetAtOf(err error) (time.Time, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) && !apiErr.ResetAt.IsZero() {
		return apiErr.ResetAt, true
	}
	return time.Time{}, false
}
