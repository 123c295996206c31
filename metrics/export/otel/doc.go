// Package otel bridges goCTM client metric snapshots into OpenTelemetry
// observable instruments. Collection is pull-based: a registered callback
// reads a snapshot on every meter collection cycle.
package otel
