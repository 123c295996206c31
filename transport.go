package goCTM

import (
	"net"
	"net/http"
)

// HTTPExecutor is the injected capability responsible for performing the
// actual network exchange. *http.Client satisfies it. Implementations must
// be safe for concurrent use; the client shares one executor across calls.
type HTTPExecutor interface {
	Do(req *http.Request) (*http.Response, error)
}

// newDefaultExecutor builds the executor used when none is injected:
// a plain *http.Client carrying the configured connect and overall
// timeouts. Connection pooling and TLS behavior stay stdlib defaults.
func newDefaultExecutor(cfg TransportConfig) *http.Client {
	dialer := &net.Dialer{Timeout: cfg.ConnectTimeout}
	return &http.Client{
		Timeout: cfg.RequestTimeout,
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			DialContext:         dialer.DialContext,
			TLSHandshakeTimeout: cfg.ConnectTimeout,
			ForceAttemptHTTP2:   true,
		},
	}
}
