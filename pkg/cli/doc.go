// Package cli implements the reqguard command line.
//
// Commands:
//
//	validate  report every error in one or more schema files
//	routes    list compiled routes and field checks in match order
//	check     validate a single request offline
//	infer     draft a schema route from sample JSON bodies
//	serve     run the validating HTTP gateway
//	version   print build information
//
// Every command accepts --json for machine-readable output.
package cli
