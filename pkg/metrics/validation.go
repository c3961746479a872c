package metrics

import "time"

// Outcome label values.
const (
	OutcomeAccepted  = "accepted"
	OutcomeRejected  = "rejected"
	OutcomeUnmatched = "unmatched"
)

// unmatchedRoute labels requests that matched no route.
const unmatchedRoute = "none"

// Validation holds the gateway's request validation metrics.
type Validation struct {
	Registry *Registry

	// RequestsTotal counts validated requests. Labels: route, outcome
	RequestsTotal *Counter
	// RejectionsTotal counts rejected requests. Labels: route, kind
	RejectionsTotal *Counter
	// Duration tracks time spent validating, body decoding included. Labels: route
	Duration *Histogram
	// RoutesLoaded is the number of compiled routes.
	RoutesLoaded *Gauge
}

// NewValidation registers the validation metrics on a new registry.
func NewValidation() *Validation {
	r := NewRegistry()
	return &Validation{
		Registry: r,
		RequestsTotal: r.NewCounter("reqguard_requests_total",
			"Total number of requests checked by the gateway", "route", "outcome"),
		RejectionsTotal: r.NewCounter("reqguard_rejections_total",
			"Total number of rejected requests by failure kind", "route", "kind"),
		Duration: r.NewHistogram("reqguard_validation_duration_seconds",
			"Time spent validating a request in seconds", DefaultBuckets, "route"),
		RoutesLoaded: r.NewGauge("reqguard_routes_loaded",
			"Number of validation routes compiled from the schema"),
	}
}

// ObserveRequest records one validated request. An empty route means no
// route matched; an empty kind means the request was accepted.
func (v *Validation) ObserveRequest(route, kind string, elapsed time.Duration) {
	outcome := OutcomeAccepted
	switch {
	case route == "":
		route = unmatchedRoute
		outcome = OutcomeUnmatched
	case kind != "":
		outcome = OutcomeRejected
		_ = v.RejectionsTotal.Inc(route, kind)
	}
	_ = v.RequestsTotal.Inc(route, outcome)
	_ = v.Duration.Observe(elapsed.Seconds(), route)
}
