package goCTM

import "time"

// Credentials is the login/password pair used by the authentication
// exchange. It is replaced wholesale through [Client.SetCredentials]; the
// replacement also clears any held session.
type Credentials struct {
	Login    string
	Password string
}

func (c Credentials) empty() bool {
	return c.Login == "" && c.Password == ""
}

// SessionInfo is a read-only snapshot of the client's session state,
// returned by [Client.SessionInfo].
//
// Valid reports whether the token is usable right now: a session exists,
// carries expiry metadata, and has not expired (net of the configured
// expiry skew).
type SessionInfo struct {
	Token     string
	ExpiresAt time.Time
	Valid     bool
}

// AuthState pairs the session snapshot with the auth-failure flag so
// callers can distinguish "no session yet" from "authentication was
// rejected and the circuit breaker is open".
type AuthState struct {
	Session    SessionInfo
	AuthFailed bool
}
