package goCTM

import (
	"sync"
	"time"
)

// sessionState is the token+expiry pair created by a successful
// authentication exchange. hasExpiry guards against records adopted from
// external state (shared store, tests) that lost their expiry metadata.
type sessionState struct {
	token     string
	expiresAt time.Time
	hasExpiry bool
}

// sessionManager owns credentials, the current session, and the
// auth-failure circuit breaker. All access goes through the mutex; the
// exchange itself is serialized separately by Client.authMu so a slow
// network call never blocks state reads.
type sessionManager struct {
	mu         sync.Mutex
	creds      Credentials
	session    *sessionState
	authFailed bool
	skew       time.Duration
}

func newSessionManager(creds Credentials, skew time.Duration) *sessionManager {
	return &sessionManager{
		creds: creds,
		skew:  skew,
	}
}

// setCredentials replaces the credential pair and resets session and
// failure flag to initial state. No network effect.
func (m *sessionManager) setCredentials(login, password string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.creds = Credentials{Login: login, Password: password}
	m.session = nil
	m.authFailed = false
}

func (m *sessionManager) credentials() Credentials {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.creds
}

// isAuthenticated reports whether a usable session is held at now.
// A session without expiry metadata is corruption, not a boolean answer.
// Expired sessions count as not authenticated, so the next call that
// requires auth re-triggers the exchange.
func (m *sessionManager) isAuthenticated(now time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session == nil {
		return false, nil
	}
	if !m.session.hasExpiry {
		return false, ErrMalformedSession
	}
	return now.Add(m.skew).Before(m.session.expiresAt), nil
}

// token returns the current token when a session exists. Expiry is not
// consulted here: token attachment for dispatch is decided by the caller
// through isAuthenticated.
func (m *sessionManager) token() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session == nil {
		return "", false
	}
	return m.session.token, true
}

// adopt installs a session obtained from a successful exchange or from the
// shared store, clearing the failure flag.
func (m *sessionManager) adopt(token string, expiresAt time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.session = &sessionState{
		token:     token,
		expiresAt: expiresAt,
		hasExpiry: !expiresAt.IsZero(),
	}
	m.authFailed = false
}

// markAuthFailed opens the circuit breaker: no autonomous
// re-authentication until credentials are replaced or the session cleared.
// Any held session is dropped with it, so dispatches made while the flag
// is set never carry a stale token.
func (m *sessionManager) markAuthFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.authFailed = true
	m.session = nil
}

func (m *sessionManager) failed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.authFailed
}

// clear resets session and failure flag to initial state. Credentials are
// kept; use setCredentials to rotate them.
func (m *sessionManager) clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.session = nil
	m.authFailed = false
}

func (m *sessionManager) snapshot(now time.Time) AuthState {
	m.mu.Lock()
	defer m.mu.Unlock()

	state := AuthState{AuthFailed: m.authFailed}
	if m.session == nil {
		return state
	}
	state.Session = SessionInfo{
		Token:     m.session.token,
		ExpiresAt: m.session.expiresAt,
		Valid: m.session.hasExpiry &&
			now.Add(m.skew).Before(m.session.expiresAt),
	}
	return state
}
