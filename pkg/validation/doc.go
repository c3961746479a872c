// Package validation compiles rule trees into field checks and evaluates
// request input against them, reporting a single failure per request.
//
// Every field of a rule tree becomes a FieldCheck holding an ordered list of
// steps: presence, data type, regex, min/max, length and allowed values.
// Evaluation runs every field, keeps the first failing step per field and
// reports the failure with the lowest ErrorKind. Ties go to the field that
// appears first in the schema.
//
// # Basic Usage
//
// Build an engine from a schema document:
//
//	doc, err := schema.LoadFile("rules.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	engine, err := validation.NewFromDocument(doc)
//	if err != nil {
//	    log.Fatal(err) // *schema.InvalidSchemaError lists every problem
//	}
//
// Check one request:
//
//	input := validation.MergeInput(body, query, params)
//	failure, err := engine.Check("/api/login", input)
//	if errors.Is(err, validation.ErrRouteNotFound) {
//	    // no route governs this path
//	}
//	if failure != nil {
//	    log.Println(failure.Message) // "password should not be empty"
//	}
//
// # Middleware Usage
//
// Wrap an HTTP handler so invalid requests get a 400 problem+json response:
//
//	handler := engine.Middleware(validation.MiddlewareConfig{MountPrefix: "/v1"})(next)
//
// MiddlewareConfig.Observer receives the route, failure kind and latency of
// every checked request; metrics.Validation implements it.
//
// # Custom Checks
//
// Whole-input checks run after the schema checks pass:
//
//	same, _ := validation.NewExprCheck("password != username", "password must differ from username")
//	engine, err := validation.New(s, validation.WithCustomChecks(same))
package validation
