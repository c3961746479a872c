// Package metrics provides Prometheus-compatible metrics for the gateway.
//
// It writes the Prometheus text exposition format (text/plain; version=0.0.4)
// directly, supporting counters, gauges and histograms with labels. All
// metrics are safe for concurrent use.
//
// # Validation Metrics
//
// NewValidation registers the gateway metrics:
//
//   - reqguard_requests_total: requests checked (labels: route, outcome)
//   - reqguard_rejections_total: rejections (labels: route, kind)
//   - reqguard_validation_duration_seconds: validation latency (labels: route)
//   - reqguard_routes_loaded: compiled routes
//
// The route label is the matched pattern, never the raw path, so label
// cardinality is bounded by the schema. Unmatched requests use "none".
//
// # Usage
//
//	m := metrics.NewValidation()
//	mux.Handle("/metrics", m.Registry.Handler())
package metrics
