package internaldefs

import (
	goCTM "github.com/MrEthical07/goCTM"
)

// CounterDef binds a metric ID to its exported name and help text.
type CounterDef struct {
	ID   goCTM.MetricID
	Name string
	Help string
}

// HistogramDef binds a histogram metric ID to its exported name and help text.
type HistogramDef struct {
	ID   goCTM.MetricID
	Name string
	Help string
}

// CounterDefs lists every exported counter.
var CounterDefs = []CounterDef{
	{ID: goCTM.MetricAuthSuccess, Name: "goctm_auth_success_total", Help: "Successful authentication exchanges."},
	{ID: goCTM.MetricAuthFailure, Name: "goctm_auth_failure_total", Help: "Authentication exchanges rejected by the remote service."},
	{ID: goCTM.MetricAuthShortCircuit, Name: "goctm_auth_short_circuit_total", Help: "Calls that skipped authentication because the failure flag was set."},
	{ID: goCTM.MetricRequestSuccess, Name: "goctm_request_success_total", Help: "Dispatched requests that decoded cleanly."},
	{ID: goCTM.MetricRequestFailure, Name: "goctm_request_failure_total", Help: "Dispatched requests that returned an error."},
	{ID: goCTM.MetricTransportError, Name: "goctm_transport_error_total", Help: "Network-level failures reaching the remote service."},
	{ID: goCTM.MetricDecodeError, Name: "goctm_decode_error_total", Help: "Response bodies that could not be parsed as JSON."},
	{ID: goCTM.MetricSessionCacheHit, Name: "goctm_session_cache_hit_total", Help: "Sessions adopted from the shared session store."},
	{ID: goCTM.MetricSessionCacheMiss, Name: "goctm_session_cache_miss_total", Help: "Shared session store lookups that found nothing usable."},
}

// HistogramDefs lists every exported histogram.
var HistogramDefs = []HistogramDef{
	{ID: goCTM.MetricRequestLatency, Name: "goctm_request_latency_seconds", Help: "Request latency histogram."},
}

// HistogramBounds are the upper bucket bounds in seconds, Prometheus style.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix mirrors HistogramBounds with identifiers usable in
// OTel instrument names.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets pads or truncates a raw bucket slice to the fixed width.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets converts per-bucket counts to the cumulative form both
// exporters emit.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
