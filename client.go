package goCTM

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/MrEthical07/goCTM/session"
	"github.com/google/uuid"
)

// Client defines a public type used by goCTM APIs.
//
// Client instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Client struct {
	config     Config
	session    *sessionManager
	dispatcher *dispatcher
	cache      *session.Store
	audit      *auditDispatcher
	metrics    *Metrics

	// authMu serializes the authentication exchange so exactly one is in
	// flight per client, regardless of how many calls race on a cold or
	// expired session.
	authMu sync.Mutex
}

// Close flushes and stops the audit dispatcher. The client must not be
// used after Close.
func (c *Client) Close() {
	if c == nil {
		return
	}
	if c.audit != nil {
		c.audit.Close()
	}
}

// AuditDropped reports how many audit events were shed under backpressure.
func (c *Client) AuditDropped() uint64 {
	if c == nil || c.audit == nil {
		return 0
	}
	return c.audit.Dropped()
}

// MetricsSnapshot returns a point-in-time copy of all client metrics.
func (c *Client) MetricsSnapshot() MetricsSnapshot {
	if c == nil || c.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return c.metrics.Snapshot()
}

func (c *Client) metricInc(id MetricID) {
	if c == nil || c.metrics == nil {
		return
	}
	c.metrics.Inc(id)
}

func (c *Client) emitAudit(ctx context.Context, eventType, requestID, method, path string, success bool, err error) {
	if c == nil || c.audit == nil {
		return
	}

	event := AuditEvent{
		Timestamp: time.Now(),
		EventType: eventType,
		RequestID: requestID,
		Method:    method,
		Path:      path,
		Success:   success,
	}
	if err != nil {
		event.Error = err.Error()
	}
	c.audit.Emit(ctx, event)
}

// SetCredentials replaces the credential pair. Any held session and the
// auth-failure flag are cleared; nothing touches the network.
func (c *Client) SetCredentials(login, password string) {
	if c == nil || c.session == nil {
		return
	}
	c.session.setCredentials(login, password)
	c.emitAudit(context.Background(), auditEventCredentialsRotated, "", "", "", true, nil)
}

// ClearSession resets session and failure flag to initial state. The
// shared session store, when configured, is left untouched; rotate
// credentials to abandon a shared token.
func (c *Client) ClearSession() {
	if c == nil || c.session == nil {
		return
	}
	c.session.clear()
	c.emitAudit(context.Background(), auditEventSessionCleared, "", "", "", true, nil)
}

// IsAuthenticated reports whether a usable session is currently held.
// It returns [ErrMalformedSession] when a session exists without expiry
// metadata; that is corruption, never a silent yes or no.
func (c *Client) IsAuthenticated() (bool, error) {
	if c == nil || c.session == nil {
		return false, ErrClientNotReady
	}
	return c.session.isAuthenticated(time.Now())
}

// Token returns the current token when a session exists. It never errors;
// expiry is not consulted.
func (c *Client) Token() (string, bool) {
	if c == nil || c.session == nil {
		return "", false
	}
	return c.session.token()
}

// SessionInfo returns a read-only snapshot of the session state and the
// auth-failure flag.
func (c *Client) SessionInfo() AuthState {
	if c == nil || c.session == nil {
		return AuthState{}
	}
	return c.session.snapshot(time.Now())
}

// Authenticate performs the authentication exchange with the stored
// credentials. On success the returned token and expiry become the new
// session and the failure flag clears. On rejection the failure flag is
// set and an [*AuthenticationError] carries the server reason. The
// exchange is never retried internally; an explicit call is allowed even
// while the failure flag is set.
func (c *Client) Authenticate(ctx context.Context) error {
	if c == nil || c.dispatcher == nil {
		return ErrClientNotReady
	}
	if ctx == nil {
		ctx = context.Background()
	}

	requestID := requestIDFromContext(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}

	c.authMu.Lock()
	defer c.authMu.Unlock()

	return c.authenticateLocked(ctx, requestID)
}

// authenticateLocked runs the exchange. Callers hold authMu.
//
// Transport and decode failures are connectivity problems, not credential
// rejections: they propagate without opening the circuit breaker, so the
// next call may try again.
func (c *Client) authenticateLocked(ctx context.Context, requestID string) error {
	creds := c.session.credentials()
	if creds.empty() {
		return ErrCredentialsRequired
	}

	params := map[string]string{
		"user[login]":    creds.Login,
		"user[password]": creds.Password,
	}

	decoded, err := c.dispatcher.dispatch(ctx, requestID, c.config.API.AuthPath, params, http.MethodPost, "")
	if err != nil {
		switch {
		case errors.Is(err, ErrTransport):
			c.metricInc(MetricTransportError)
		case errors.Is(err, ErrDecode):
			c.metricInc(MetricDecodeError)
		}
		c.emitAudit(ctx, auditEventAuthFailure, requestID, http.MethodPost, c.config.API.AuthPath, false, err)
		return err
	}

	body, ok := decoded.(map[string]any)
	if !ok {
		decodeErr := &DecodeError{Err: errors.New("authentication response is not a JSON object")}
		c.metricInc(MetricDecodeError)
		c.emitAudit(ctx, auditEventAuthFailure, requestID, http.MethodPost, c.config.API.AuthPath, false, decodeErr)
		return decodeErr
	}

	if success, _ := body["success"].(bool); !success {
		message, _ := body["message"].(string)
		if message == "" {
			message = "no reason provided"
		}
		c.session.markAuthFailed()
		c.metricInc(MetricAuthFailure)
		authErr := &AuthenticationError{Message: message}
		c.emitAudit(ctx, auditEventAuthFailure, requestID, http.MethodPost, c.config.API.AuthPath, false, authErr)
		return authErr
	}

	token, _ := body["token"].(string)
	expiresRaw, _ := body["expires"].(string)
	if token == "" || expiresRaw == "" {
		decodeErr := &DecodeError{Err: errors.New("authentication response missing token or expires")}
		c.metricInc(MetricDecodeError)
		c.emitAudit(ctx, auditEventAuthFailure, requestID, http.MethodPost, c.config.API.AuthPath, false, decodeErr)
		return decodeErr
	}
	expiresAt, err := time.Parse(time.RFC3339, expiresRaw)
	if err != nil {
		decodeErr := &DecodeError{Err: fmt.Errorf("parse expires timestamp: %w", err)}
		c.metricInc(MetricDecodeError)
		c.emitAudit(ctx, auditEventAuthFailure, requestID, http.MethodPost, c.config.API.AuthPath, false, decodeErr)
		return decodeErr
	}

	c.session.adopt(token, expiresAt)
	c.metricInc(MetricAuthSuccess)
	c.emitAudit(ctx, auditEventAuthSuccess, requestID, http.MethodPost, c.config.API.AuthPath, true, nil)

	if c.cache != nil {
		// Best effort: a flaky shared store must not fail a successful exchange.
		_ = c.cache.Save(ctx, creds.Login, session.Record{Token: token, ExpiresAt: expiresAt})
	}

	return nil
}

// ensureAuthenticated brings the session to a dispatchable state for a
// call that requires auth. With the failure flag set it returns nil
// without a token: the dispatch proceeds tokenless and the remote's
// rejection surfaces as a normal decoded response, not as
// AuthenticationError.
func (c *Client) ensureAuthenticated(ctx context.Context, requestID string) error {
	c.authMu.Lock()
	defer c.authMu.Unlock()

	ok, err := c.session.isAuthenticated(time.Now())
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	if c.session.failed() {
		c.metricInc(MetricAuthShortCircuit)
		c.emitAudit(ctx, auditEventAuthShortCircuit, requestID, "", "", false, ErrAuthenticationFailed)
		return nil
	}

	if c.cache != nil {
		creds := c.session.credentials()
		if creds.Login != "" {
			// A cached record inside the expiry skew window is as good as
			// expired: adopting it would fail isAuthenticated immediately.
			rec, err := c.cache.Load(ctx, creds.Login)
			if err == nil && time.Now().Add(c.config.Session.ExpirySkew).Before(rec.ExpiresAt) {
				c.metricInc(MetricSessionCacheHit)
				c.session.adopt(rec.Token, rec.ExpiresAt)
				return nil
			}
			c.metricInc(MetricSessionCacheMiss)
		}
	}

	return c.authenticateLocked(ctx, requestID)
}

// Call dispatches one request against the API. uri is the resource path
// relative to the base endpoint (the ".json" suffix is appended by the
// dispatcher); params travel in the query string for GET and form-encoded
// in the body otherwise. With requiresAuth the client authenticates first
// when no valid session is held, unless the failure flag short-circuits.
// The decoded JSON body is returned as a generic value.
func (c *Client) Call(ctx context.Context, uri string, params map[string]string, method string, requiresAuth bool) (any, error) {
	if c == nil || c.dispatcher == nil {
		return nil, ErrClientNotReady
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if method == "" {
		method = http.MethodGet
	} else {
		method = strings.ToUpper(method)
	}

	requestID := requestIDFromContext(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}

	var token string
	if requiresAuth {
		if err := c.ensureAuthenticated(ctx, requestID); err != nil {
			return nil, err
		}
		token, _ = c.session.token()
	}

	start := time.Now()
	decoded, err := c.dispatcher.dispatch(ctx, requestID, uri, params, method, token)
	c.metrics.Observe(MetricRequestLatency, time.Since(start))

	if err != nil {
		c.metricInc(MetricRequestFailure)
		switch {
		case errors.Is(err, ErrTransport):
			c.metricInc(MetricTransportError)
			c.emitAudit(ctx, auditEventTransportError, requestID, method, uri, false, err)
		case errors.Is(err, ErrDecode):
			c.metricInc(MetricDecodeError)
			c.emitAudit(ctx, auditEventDecodeError, requestID, method, uri, false, err)
		default:
			c.emitAudit(ctx, auditEventRequest, requestID, method, uri, false, err)
		}
		return nil, err
	}

	c.metricInc(MetricRequestSuccess)
	c.emitAudit(ctx, auditEventRequest, requestID, method, uri, true, nil)

	return decoded, nil
}

// AccountCall behaves exactly as [Client.Call] with the uri prefixed by
// the account scope, accounts/<accountID>/.
func (c *Client) AccountCall(ctx context.Context, accountID, uri string, params map[string]string, method string, requiresAuth bool) (any, error) {
	scoped := "accounts/" + accountID + "/" + strings.TrimPrefix(uri, "/")
	return c.Call(ctx, scoped, params, method, requiresAuth)
}
