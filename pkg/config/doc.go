// Package config loads reqguard settings from the environment.
//
// Settings are read from REQGUARD_-prefixed variables with caarlos0/env,
// after an optional .env file is loaded with godotenv:
//
//	REQGUARD_SCHEMA=rules/**/*.yaml
//	REQGUARD_ADDR=:8080
//	REQGUARD_UPSTREAM=http://localhost:3000
//
// CLI flags override environment values; Config.Sources records where each
// value came from (default, env or flag).
package config
