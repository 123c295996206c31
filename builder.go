package goCTM

import (
	"errors"

	"github.com/MrEthical07/goCTM/session"
	"github.com/redis/go-redis/v9"
)

// Builder defines a public type used by goCTM APIs.
//
// Builder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Builder struct {
	config Config
	redis  *redis.Client

	creds    Credentials
	executor HTTPExecutor

	auditSink AuditSink

	built bool
}

// New creates a Builder seeded with the default configuration.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the whole configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithBaseURL overrides the API base endpoint, keeping the rest of the
// configuration intact. Useful for sandbox and test targets.
func (b *Builder) WithBaseURL(baseURL string) *Builder {
	b.config.API.BaseURL = baseURL
	return b
}

// WithCredentials supplies the login/password pair used by the
// authentication exchange. Credentials may also be set later through
// [Client.SetCredentials].
func (b *Builder) WithCredentials(login, password string) *Builder {
	b.creds = Credentials{Login: login, Password: password}
	return b
}

// WithHTTPClient injects the HTTP executor. When omitted, Build constructs
// a default *http.Client from the transport configuration.
func (b *Builder) WithHTTPClient(executor HTTPExecutor) *Builder {
	b.executor = executor
	return b
}

// WithRedis supplies the Redis client backing the shared session store.
// Required when TokenCache is enabled.
func (b *Builder) WithRedis(client *redis.Client) *Builder {
	b.redis = client
	return b
}

// WithAuditSink supplies the sink receiving audit events.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithMetricsEnabled toggles metrics collection.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms toggles the request latency histogram.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the configuration and assembles the Client. It performs
// no I/O; the first network exchange happens inside a Client method.
func (b *Builder) Build() (*Client, error) {
	if b.built {
		return nil, ErrBuilderReused
	}

	cfg := cloneConfig(b.config)

	if cfg.TokenCache.Enabled && b.redis == nil {
		return nil, errors.New("TokenCache requires redis client")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	executor := b.executor
	if executor == nil {
		executor = newDefaultExecutor(cfg.Transport)
	}

	d, err := newDispatcher(cfg, executor)
	if err != nil {
		return nil, err
	}

	client := &Client{
		config:     cfg,
		session:    newSessionManager(b.creds, cfg.Session.ExpirySkew),
		dispatcher: d,
	}

	if cfg.TokenCache.Enabled {
		client.cache = session.NewStore(b.redis, cfg.TokenCache.RedisPrefix)
	}

	client.audit = newAuditDispatcher(cfg.Audit, b.auditSink)
	client.metrics = NewMetrics(cfg.Metrics)

	b.built = true

	return client, nil
}
