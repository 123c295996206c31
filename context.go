package goCTM

import "context"

type requestIDContextKey struct{}

// WithRequestID attaches a caller-chosen request ID to ctx. The Client
// stamps it on the outgoing X-Request-Id header and on audit events; when
// absent, a UUID is generated per dispatch.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDContextKey{}, id)
}

func requestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	id, _ := ctx.Value(requestIDContextKey{}).(string)
	return id
}
