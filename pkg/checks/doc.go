// Package checks provides the primitive value tests used by reqguard's rule
// compiler: type and format checks (string, email, int, float, alpha,
// alphanumeric, bool, mobile number, date), regex matching, numeric ranges,
// exact lengths, membership and array element kinds.
//
// The compiler only depends on the Provider interface, so callers can swap
// in stricter or locale-specific implementations:
//
//	p := checks.New(checks.WithMobileLocale("en-GB"))
//	p.IsMobileNumber("07700900123", "") // uses en-GB
//
// Values are what a JSON decoder or a query-string parser produces: strings,
// float64 numbers, bools, []any and map[string]any. Numeric checks accept
// numeric strings, since query and path parameters always arrive as text.
//
// Every check is deterministic and free of side effects, so a Provider can be
// shared by any number of goroutines.
package checks
