package config

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, int64(1<<20), cfg.MaxBodyBytes)
	assert.Equal(t, "any", cfg.MobileLocale)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Empty(t, cfg.Schema)
	assert.Equal(t, SourceDefault, cfg.Source("ADDR"))
	assert.Empty(t, cfg.Source("SCHEMA"))
}

func TestLoad_Environment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("REQGUARD_SCHEMA", "schema.yaml")
	t.Setenv("REQGUARD_ADDR", ":9090")
	t.Setenv("REQGUARD_ALLOW_UNMATCHED", "true")
	t.Setenv("REQGUARD_MAX_BODY_BYTES", "2048")
	t.Setenv("REQGUARD_CHECKS", "a > 1=>bad a;b != nil")
	t.Setenv("REQGUARD_READ_TIMEOUT", "3s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "schema.yaml", cfg.Schema)
	assert.Equal(t, "/metrics", cfg.MetricsPath)
	assert.Equal(t, ":9090", cfg.Addr)
	assert.True(t, cfg.AllowUnmatched)
	assert.Equal(t, int64(2048), cfg.MaxBodyBytes)
	assert.Equal(t, []string{"a > 1=>bad a", "b != nil"}, cfg.Checks)
	assert.Equal(t, 3*time.Second, cfg.ReadTimeout)

	assert.Equal(t, SourceEnv, cfg.Source("SCHEMA"))
	assert.Equal(t, SourceEnv, cfg.Source("ADDR"))
	assert.Equal(t, SourceDefault, cfg.Source("LOG_LEVEL"))
}

func TestLoad_InvalidValue(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("REQGUARD_MAX_BODY_BYTES", "lots")

	_, err := Load()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrParsingConfig))
}

func TestLoad_EnvFile(t *testing.T) {
	for _, key := range []string{"REQGUARD_SCHEMA", "REQGUARD_UPSTREAM", "REQGUARD_CHECKS"} {
		t.Cleanup(func() { _ = os.Unsetenv(key) })
	}
	// Process environment wins over the file
	t.Setenv("REQGUARD_UPSTREAM", "http://upstream:8000")

	cfg, err := Load("testdata/gateway.env")
	require.NoError(t, err)

	assert.Equal(t, "rules/*.yaml", cfg.Schema)
	assert.Equal(t, "http://upstream:8000", cfg.Upstream)
	assert.Equal(t, []string{"age >= 18=>too young", "name != ''=>name required"}, cfg.Checks)
}

func TestLoad_MissingEnvFile(t *testing.T) {
	_, err := Load("testdata/missing.env")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load env files")
}

func TestSetFromFlag(t *testing.T) {
	cfg := &Config{}
	cfg.SetFromFlag("ADDR")
	assert.Equal(t, SourceFlag, cfg.Source("ADDR"))
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Schema:          "schema.yaml",
			Addr:            ":8080",
			MaxBodyBytes:    1024,
			ShutdownTimeout: time.Second,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"valid upstream", func(c *Config) { c.Upstream = "https://api.example.com" }, ""},
		{"missing schema", func(c *Config) { c.Schema = "" }, "schema path is required"},
		{"empty addr", func(c *Config) { c.Addr = "" }, "listen address is empty"},
		{"zero body limit", func(c *Config) { c.MaxBodyBytes = 0 }, "max body bytes must be positive"},
		{"relative upstream", func(c *Config) { c.Upstream = "localhost:3000/api" }, "must be an absolute URL"},
		{"relative metrics path", func(c *Config) { c.MetricsPath = "metrics" }, "must start with /"},
		{"zero shutdown", func(c *Config) { c.ShutdownTimeout = 0 }, "shutdown timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_CollectsAll(t *testing.T) {
	err := (&Config{}).Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema path is required")
	assert.Contains(t, err.Error(), "listen address is empty")
	assert.Contains(t, err.Error(), "shutdown timeout")
}
