// Package matching resolves request paths to validation routes.
//
// Route patterns support:
//
//   - Literal paths: "/api/login"
//   - Named params: "/api/users/:id" or "/api/users/{id}"
//   - Trailing wildcards: "/api/files/*", captured as the "*" param
//   - Glob patterns: "/api/**/export" (doublestar syntax)
//   - Regular expressions: "^/api/v[0-9]+/orders", matched against the whole
//     path; named groups become params
//
// A Registry keeps compiled patterns in registration order and resolves a
// path to the first pattern that matches it.
//
// Key types:
//
//   - Matcher: a compiled route pattern
//   - Registry: ordered, first-match-wins route table
//   - Params: path parameters captured by a match
package matching
