// Package goCTM is a client engine for the CallTrackingMetrics HTTP/JSON API.
// It owns the session lifecycle: a login exchange obtains a time-limited
// token, the token is attached to subsequent requests, and the client
// re-authenticates transparently when no valid token is held.
//
// The package is designed for concurrent callers: Client methods are safe to
// call from multiple goroutines after initialization through [Builder.Build].
// Exactly one authentication exchange is in flight at a time for a given
// client; state mutations (Authenticate, SetCredentials, ClearSession) are
// serialized internally.
//
// # Architecture boundaries
//
// goCTM is the public surface. It exposes [Client], [Builder], [Config], and
// value types (Credentials, SessionInfo, MetricsSnapshot). The HTTP transport
// is an injected [HTTPExecutor] capability; the optional shared session store
// lives in the session subpackage; metrics exporters live under
// metrics/export.
//
// # What this package must NOT do
//
//   - Retry failed requests or failed authentication exchanges. The only
//     local recovery is the auth-failure circuit breaker, which stops
//     repeated authentication attempts after a rejection until the caller
//     resets state.
//   - Enumerate remote endpoints. Call and AccountCall are the whole
//     request surface; resource paths belong to the caller.
//   - Perform I/O outside of Client methods (construction via Builder is
//     allocation-only until the first call).
package goCTM
