package goCTM

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"
)

// dispatcher builds and executes HTTP requests against the API base path
// and decodes JSON bodies. It owns no session state; the token arrives per
// call from the session manager.
type dispatcher struct {
	base     *url.URL
	executor HTTPExecutor

	userAgent string
	maxBody   int64
}

func newDispatcher(cfg Config, executor HTTPExecutor) (*dispatcher, error) {
	base, err := url.Parse(cfg.API.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}
	return &dispatcher{
		base:      base,
		executor:  executor,
		userAgent: cfg.API.UserAgent,
		maxBody:   cfg.Transport.MaxResponseBytes,
	}, nil
}

// buildRequest constructs the full request target from base + uri + ".json".
// GET parameters travel in the query string; other methods carry them
// form-encoded in the body. The auth token, when present, is always a query
// parameter regardless of method.
func (d *dispatcher) buildRequest(ctx context.Context, requestID, uri string, params map[string]string, method, token string) (*http.Request, error) {
	target := *d.base
	target.Path = strings.TrimSuffix(target.Path, "/") + "/" + strings.TrimPrefix(uri, "/") + ".json"

	query := url.Values{}
	var body io.Reader

	if method == http.MethodGet {
		for k, v := range params {
			query.Set(k, v)
		}
	} else if len(params) > 0 {
		form := url.Values{}
		for k, v := range params {
			form.Set(k, v)
		}
		body = strings.NewReader(form.Encode())
	}

	if token != "" {
		query.Set("auth_token", token)
	}
	target.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if d.userAgent != "" {
		req.Header.Set("User-Agent", d.userAgent)
	}
	if requestID != "" {
		req.Header.Set("X-Request-Id", requestID)
	}

	return req, nil
}

// dispatch executes one request and decodes the response body into a
// generic JSON value. Transport failures surface as *TransportError,
// undecodable bodies as *DecodeError; neither is retried. An empty body
// decodes to nil without error.
func (d *dispatcher) dispatch(ctx context.Context, requestID, uri string, params map[string]string, method, token string) (any, error) {
	req, err := d.buildRequest(ctx, requestID, uri, params, method, token)
	if err != nil {
		return nil, err
	}

	resp, err := d.executor.Do(req)
	if err != nil {
		return nil, classifyTransport(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, d.maxBody+1))
	if err != nil {
		return nil, classifyTransport(err)
	}
	if int64(len(data)) > d.maxBody {
		return nil, &DecodeError{Err: fmt.Errorf("response body exceeds %d bytes", d.maxBody)}
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}

	var decoded any
	if err := json.Unmarshal(data, &decoded); err != nil {
		return nil, &DecodeError{Err: err}
	}

	return decoded, nil
}

// classifyTransport maps the open-ended Go network error surface onto the
// small stable code set carried by TransportError.
func classifyTransport(err error) *TransportError {
	code := TransportCodeUnknown

	var dnsErr *net.DNSError
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		code = TransportCodeTimeout
	case errors.As(err, &netErr) && netErr.Timeout():
		code = TransportCodeTimeout
	case errors.As(err, &dnsErr):
		code = TransportCodeDNS
	case errors.Is(err, syscall.ECONNREFUSED):
		code = TransportCodeRefused
	}

	return &TransportError{
		Code:    code,
		Message: err.Error(),
		Err:     err,
	}
}
