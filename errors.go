package goCTM

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthenticationFailed matches any [AuthenticationError] via errors.Is.
	ErrAuthenticationFailed = errors.New("authentication failed")
	// ErrMalformedSession is returned when a session exists but carries no
	// expiry metadata. This signals state corruption and is never silently
	// treated as authenticated or unauthenticated.
	ErrMalformedSession = errors.New("session missing expiry metadata")
	// ErrTransport matches any [TransportError] via errors.Is.
	ErrTransport = errors.New("transport failure")
	// ErrDecode matches any [DecodeError] via errors.Is.
	ErrDecode = errors.New("response decode failure")
	// ErrCredentialsRequired is returned by Authenticate when no credentials
	// have been supplied.
	ErrCredentialsRequired = errors.New("credentials required")
	// ErrClientNotReady is returned when a Client method is invoked on a
	// client that was not built through [Builder.Build].
	ErrClientNotReady = errors.New("client not initialized")
	// ErrBuilderReused is returned by [Builder.Build] on a second invocation.
	ErrBuilderReused = errors.New("builder already used")
)

// AuthenticationError reports that the remote service rejected the stored
// credentials. Message carries the server-provided reason when present.
type AuthenticationError struct {
	Message string
}

func (e *AuthenticationError) Error() string {
	return "authentication failed: " + e.Message
}

// Is reports a match for [ErrAuthenticationFailed].
func (e *AuthenticationError) Is(target error) bool {
	return target == ErrAuthenticationFailed
}

// Transport failure classification codes carried by [TransportError].
// Go network errors carry no stable numeric identity, so the dispatcher
// classifies the common failure families into small fixed codes.
const (
	// TransportCodeUnknown is the catch-all classification.
	TransportCodeUnknown = 0
	// TransportCodeTimeout covers connect, TLS, and read deadline expiry.
	TransportCodeTimeout = 1
	// TransportCodeDNS covers name resolution failures.
	TransportCodeDNS = 2
	// TransportCodeRefused covers connection-refused failures.
	TransportCodeRefused = 3
)

// TransportError reports a network-level failure reaching the remote
// service. It is fatal to the call; the client never retries it.
type TransportError struct {
	Code    int
	Message string
	Err     error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport failure (code %d): %s", e.Code, e.Message)
}

// Unwrap exposes the underlying network error.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is reports a match for [ErrTransport].
func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

// DecodeError reports a response body that could not be parsed as JSON.
// An empty body is not a decode failure; it decodes to nil.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return "response decode failure: " + e.Err.Error()
}

// Unwrap exposes the underlying decode error.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Is reports a match for [ErrDecode].
func (e *DecodeError) Is(target error) bool {
	return target == ErrDecode
}
