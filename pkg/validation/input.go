package validation

import "net/url"

// Input is the merged request data a route's checks run against.
type Input map[string]any

// MergeInput layers body, query and path params into one Input. Later
// layers win on key collisions, so params override query and query
// overrides body. Any layer may be nil.
func MergeInput(body, query map[string]any, params map[string]string) Input {
	input := make(Input, len(body)+len(query)+len(params))
	for k, v := range body {
		input[k] = v
	}
	for k, v := range query {
		input[k] = v
	}
	for k, v := range params {
		input[k] = v
	}
	return input
}

// QueryValues flattens url.Values: a key with one value maps to that string,
// a repeated key maps to a []any of its values.
func QueryValues(values url.Values) map[string]any {
	if len(values) == 0 {
		return nil
	}
	out := make(map[string]any, len(values))
	for k, vs := range values {
		switch len(vs) {
		case 0:
		case 1:
			out[k] = vs[0]
		default:
			items := make([]any, len(vs))
			for i, v := range vs {
				items[i] = v
			}
			out[k] = items
		}
	}
	return out
}
