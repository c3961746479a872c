// Package server runs reqguard as a standalone validating gateway.
//
// The router (go-chi) serves /healthz and /metrics directly and sends every other
// request through the validation middleware. Valid requests are proxied to
// the configured upstream, or answered with 204 No Content when no
// upstream is set. Rejected requests get a problem+json 400.
package server
