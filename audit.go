package goCTM

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"
)

const (
	auditEventAuthSuccess        = "auth_success"
	auditEventAuthFailure        = "auth_failure"
	auditEventAuthShortCircuit   = "auth_short_circuit"
	auditEventRequest            = "request"
	auditEventTransportError     = "transport_error"
	auditEventDecodeError        = "decode_error"
	auditEventSessionCleared     = "session_cleared"
	auditEventCredentialsRotated = "credentials_rotated"
)

// AuditEvent is a structured record of one step in the request or session
// lifecycle. Credentials and tokens are never included.
type AuditEvent struct {
	Timestamp time.Time         `json:"timestamp"`
	EventType string            `json:"event_type"`
	RequestID string            `json:"request_id,omitempty"`
	Method    string            `json:"method,omitempty"`
	Path      string            `json:"path,omitempty"`
	Success   bool              `json:"success"`
	Error     string            `json:"error,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// AuditSink receives [AuditEvent] values from the client's audit
// dispatcher. Emit must not block indefinitely; the dispatcher honors ctx.
type AuditSink interface {
	Emit(ctx context.Context, event AuditEvent)
}

// NoOpSink is an [AuditSink] that silently discards all events.
type NoOpSink struct{}

// Emit discards the event.
func (NoOpSink) Emit(context.Context, AuditEvent) {}

// ChannelSink is a buffered channel-based [AuditSink], convenient for tests
// and for callers that drain events on their own goroutine.
type ChannelSink struct {
	events chan AuditEvent
}

// NewChannelSink creates a [ChannelSink] with the given buffer capacity.
func NewChannelSink(buffer int) *ChannelSink {
	if buffer <= 0 {
		buffer = 1
	}
	return &ChannelSink{
		events: make(chan AuditEvent, buffer),
	}
}

// Emit delivers the event or gives up when ctx is done.
func (s *ChannelSink) Emit(ctx context.Context, event AuditEvent) {
	select {
	case s.events <- event:
	case <-ctx.Done():
	}
}

// Events exposes the receive side of the sink.
func (s *ChannelSink) Events() <-chan AuditEvent {
	return s.events
}

// JSONWriterSink is an [AuditSink] that writes JSON-encoded events, one per
// line, to an [io.Writer].
type JSONWriterSink struct {
	writer io.Writer
	mu     sync.Mutex
}

// NewJSONWriterSink creates a [JSONWriterSink] that writes to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return &JSONWriterSink{
		writer: w,
	}
}

// Emit marshals and writes the event. Marshal or write failures are
// dropped; audit is best-effort by contract.
func (s *JSONWriterSink) Emit(_ context.Context, event AuditEvent) {
	if s == nil || s.writer == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, _ = s.writer.Write(data)
	_, _ = s.writer.Write([]byte("\n"))
}
