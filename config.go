package goCTM

import (
	"errors"
	"net/url"
	"strings"
	"time"
)

// Config defines a public type used by goCTM APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	API        APIConfig
	Transport  TransportConfig
	Session    SessionConfig
	TokenCache TokenCacheConfig
	Audit      AuditConfig
	Metrics    MetricsConfig
}

/*
====================================
API CONFIG
====================================
*/

// APIConfig describes the remote API surface: the versioned base endpoint,
// the authentication path, and the User-Agent sent on every request.
type APIConfig struct {
	BaseURL   string
	AuthPath  string
	UserAgent string
}

/*
====================================
TRANSPORT CONFIG
====================================
*/

// TransportConfig holds the timeout defaults applied when no HTTP executor
// is injected, plus the response body cap guarding the JSON decoder. These
// are configuration defaults, not per-call overrides.
type TransportConfig struct {
	ConnectTimeout   time.Duration
	RequestTimeout   time.Duration
	MaxResponseBytes int64
}

/*
====================================
SESSION CONFIG
====================================
*/

// SessionConfig defines a public type used by goCTM APIs.
//
// SessionConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type SessionConfig struct {
	// ExpirySkew treats a token expiring within the skew window as already
	// expired, so a call never departs with a token about to lapse in flight.
	ExpirySkew time.Duration
}

/*
====================================
TOKEN CACHE CONFIG
====================================
*/

// TokenCacheConfig enables the Redis-backed shared session store so
// co-operating processes reuse one token instead of each performing its own
// authentication exchange. Requires a Redis client via [Builder.WithRedis].
type TokenCacheConfig struct {
	Enabled     bool
	RedisPrefix string
}

/*
====================================
AUDIT CONFIG
====================================
*/

// AuditConfig defines a public type used by goCTM APIs.
//
// AuditConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

/*
====================================
METRICS CONFIG
====================================
*/

// MetricsConfig defines a public type used by goCTM APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

/*
====================================
DEFAULT CONFIG
====================================
*/

func defaultConfig() Config {
	return Config{
		API: APIConfig{
			BaseURL:   "https://api.calltrackingmetrics.com/api/v1",
			AuthPath:  "authentication",
			UserAgent: "goCTM/1.0",
		},
		Transport: TransportConfig{
			ConnectTimeout:   10 * time.Second,
			RequestTimeout:   30 * time.Second,
			MaxResponseBytes: 8 << 20,
		},
		Session: SessionConfig{
			ExpirySkew: 5 * time.Second,
		},
		TokenCache: TokenCacheConfig{
			Enabled:     false,
			RedisPrefix: "ctm",
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 false,
			EnableLatencyHistograms: false,
		},
	}
}

// DefaultConfig returns the configuration used by [New] before any
// [Builder.WithConfig] override.
func DefaultConfig() Config {
	return defaultConfig()
}

func cloneConfig(cfg Config) Config {
	// No reference fields today; kept as a seam so future slice/map config
	// additions cannot alias caller state.
	return cfg
}

// Validate describes the validate operation and its observable behavior.
//
// Validate may return an error when input validation, dependency calls, or security checks fail.
func (c *Config) Validate() error {
	// API
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return errors.New("API BaseURL is required")
	}
	u, err := url.Parse(c.API.BaseURL)
	if err != nil {
		return errors.New("API BaseURL is not a valid URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("API BaseURL must be http or https")
	}
	if u.Host == "" {
		return errors.New("API BaseURL must include a host")
	}
	if strings.TrimSpace(c.API.AuthPath) == "" {
		return errors.New("API AuthPath is required")
	}

	// Transport
	if c.Transport.ConnectTimeout <= 0 {
		return errors.New("Transport ConnectTimeout must be > 0")
	}
	if c.Transport.RequestTimeout <= 0 {
		return errors.New("Transport RequestTimeout must be > 0")
	}
	if c.Transport.RequestTimeout < c.Transport.ConnectTimeout {
		return errors.New("Transport RequestTimeout must be >= ConnectTimeout")
	}
	if c.Transport.MaxResponseBytes <= 0 {
		return errors.New("Transport MaxResponseBytes must be > 0")
	}

	// Session
	if c.Session.ExpirySkew < 0 {
		return errors.New("Session ExpirySkew must be >= 0")
	}

	// Token cache
	if c.TokenCache.Enabled && strings.TrimSpace(c.TokenCache.RedisPrefix) == "" {
		return errors.New("TokenCache RedisPrefix is required when token cache is enabled")
	}

	// Audit
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("Audit BufferSize must be > 0 when audit is enabled")
	}

	return nil
}
