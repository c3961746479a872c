// Package schema loads and meta-validates reqguard validation schemas.
//
// A schema document maps route patterns to rule trees:
//
//	/api/login:
//	  username: { required: true, dataType: string }
//	  password: { required: true, dataType: string }
//	/api/users/:id:
//	  age:     { dataType: int, min: 18 }
//	  address:
//	    city:  { required: true, dataType: alpha }
//	  tags:    { dataType: array+string }
//
// JSON and YAML are both accepted. Key order is preserved exactly as written,
// because it decides which route wins when several patterns match a path and
// which field is reported when failures tie.
//
// # Rules versus nested trees
//
// A node is a Rule when it is an object holding at least one rule key
// (required, dataType, regex, min, max, length, allowedValues). Any other
// object is a nested rule tree. IsRuleNode implements that classification and
// is the single source of truth for both Validate and Build.
//
// # Lifecycle
//
// Parse or LoadFile produce an *Object; Validate inspects it and returns every
// problem found; Build refuses invalid documents with an *InvalidSchemaError
// and otherwise returns an immutable, typed Schema ready for compilation.
package schema
