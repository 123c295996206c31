// Package prometheus renders goCTM client metrics in Prometheus text
// exposition format without pulling in a metrics client dependency.
package prometheus
