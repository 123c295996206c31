// Package internaldefs holds the metric name and help-text definitions
// shared by the Prometheus and OTel exporters. It exists so the two
// exporters cannot drift apart; it is not a public API.
package internaldefs
