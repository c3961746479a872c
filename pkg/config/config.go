package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "REQGUARD_"

// Config source identifiers, recorded per setting in Config.Sources.
const (
	SourceDefault = "default"
	SourceEnv     = "env"
	SourceFlag    = "flag"
)

// Package-specific errors
var (
	// ErrParsingConfig is returned when environment variables cannot be parsed.
	ErrParsingConfig = errors.New("failed to parse environment variables into config")

	// ErrInvalidConfig is wrapped by every Validate error.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// Config holds the gateway settings. Every field can be set from a
// REQGUARD_-prefixed environment variable and overridden by CLI flags.
type Config struct {
	// Schema is a schema file path or a ** glob of schema files.
	Schema string `env:"SCHEMA"`

	Addr        string `env:"ADDR" envDefault:":8080"`
	MountPrefix string `env:"MOUNT_PREFIX"`

	// Upstream is the URL valid requests are proxied to. Empty means valid
	// requests get 204 No Content.
	Upstream       string `env:"UPSTREAM"`
	AllowUnmatched bool   `env:"ALLOW_UNMATCHED"`
	MaxBodyBytes   int64  `env:"MAX_BODY_BYTES" envDefault:"1048576"`

	// MetricsPath serves Prometheus metrics; empty disables the endpoint.
	MetricsPath string `env:"METRICS_PATH" envDefault:"/metrics"`

	// MobileLocale selects the numbering plan of the mobile data type, e.g. "en-IN".
	MobileLocale string `env:"MOBILE_LOCALE" envDefault:"any"`

	// Checks are "expression=>message" custom checks.
	Checks []string `env:"CHECKS" envSeparator:";"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	// AuditLog is a file that receives every log record as JSON lines.
	AuditLog string `env:"AUDIT_LOG"`

	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Sources tracks where each setting came from, keyed by env name
	// without prefix (e.g. "ADDR").
	Sources map[string]string `env:"-"`
}

// Load reads the given .env files (or ./.env when none are given and it
// exists), then parses the environment into a Config. Variables already
// set in the process environment win over .env files.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) > 0 {
		if err := godotenv.Load(envFiles...); err != nil {
			return nil, fmt.Errorf("load env files: %w", err)
		}
	} else if _, err := os.Stat(".env"); err == nil {
		// Ignore errors - a broken default .env should not block startup
		_ = godotenv.Load()
	}

	cfg := &Config{Sources: make(map[string]string)}
	opts := env.Options{
		Prefix: EnvPrefix,
		OnSet: func(tag string, value any, isDefault bool) {
			if s, ok := value.(string); ok && s == "" && !isDefault {
				return
			}
			source := SourceEnv
			if isDefault {
				source = SourceDefault
			}
			cfg.Sources[strings.TrimPrefix(tag, EnvPrefix)] = source
		},
	}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, errors.Join(ErrParsingConfig, err)
	}
	return cfg, nil
}

// SetFromFlag records that key was overridden by a command-line flag.
func (c *Config) SetFromFlag(key string) {
	if c.Sources == nil {
		c.Sources = make(map[string]string)
	}
	c.Sources[key] = SourceFlag
}

// Source returns where the setting key came from, or "" if unset.
func (c *Config) Source(key string) string {
	return c.Sources[key]
}

// Validate checks the settings needed to serve traffic.
func (c *Config) Validate() error {
	var errs []error
	if c.Schema == "" {
		errs = append(errs, fmt.Errorf("%w: schema path is required (%sSCHEMA or --schema)", ErrInvalidConfig, EnvPrefix))
	}
	if c.Addr == "" {
		errs = append(errs, fmt.Errorf("%w: listen address is empty", ErrInvalidConfig))
	}
	if c.MaxBodyBytes <= 0 {
		errs = append(errs, fmt.Errorf("%w: max body bytes must be positive, got %d", ErrInvalidConfig, c.MaxBodyBytes))
	}
	if c.Upstream != "" {
		u, err := url.Parse(c.Upstream)
		if err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("%w: upstream %q must be an absolute URL", ErrInvalidConfig, c.Upstream))
		}
	}
	if c.MetricsPath != "" && !strings.HasPrefix(c.MetricsPath, "/") {
		errs = append(errs, fmt.Errorf("%w: metrics path %q must start with /", ErrInvalidConfig, c.MetricsPath))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Errorf("%w: shutdown timeout must be positive", ErrInvalidConfig))
	}
	return errors.Join(errs...)
}
