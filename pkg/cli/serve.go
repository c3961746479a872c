package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/getmockd/reqguard/pkg/cli/internal/flags"
	"github.com/getmockd/reqguard/pkg/cli/internal/output"
	"github.com/getmockd/reqguard/pkg/config"
	"github.com/getmockd/reqguard/pkg/logging"
	"github.com/getmockd/reqguard/pkg/server"
)

// serveFlags mirrors config.Config; only flags the user sets override it.
type serveFlags struct {
	envFile        string
	schema         string
	addr           string
	mountPrefix    string
	upstream       string
	allowUnmatched bool
	maxBodyBytes   int64
	metricsPath    string
	mobileLocale   string
	checks         flags.StringSlice
	logFormat      string
	auditLog       string
}

// serveFlagVals is the package-level instance bound to cobra flags.
var serveFlagVals serveFlags

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the validating gateway",
	Long: `Start an HTTP gateway that validates every request against the schema.

Valid requests are proxied to --upstream, or answered with 204 No Content
when no upstream is configured. Rejected requests get a 400
application/problem+json response naming the field and failure kind.
GET /healthz and GET /metrics are served without validation.

Settings come from REQGUARD_* environment variables (and a .env file);
flags override them.`,
	Example: `  # Validate in front of a local API
  reqguard serve --schema schema.yaml --upstream http://localhost:3000

  # Only validate requests under /v1 and pass everything else through
  reqguard serve --schema 'rules/**/*.yaml' --mount-prefix /v1 --allow-unmatched

  # Configure from the environment
  REQGUARD_SCHEMA=schema.yaml REQGUARD_ADDR=:9000 reqguard serve`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	f := &serveFlagVals

	var envFiles []string
	if f.envFile != "" {
		envFiles = append(envFiles, f.envFile)
	}
	cfg, err := config.Load(envFiles...)
	if err != nil {
		return err
	}
	applyServeFlags(cmd.Flags(), cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	var audit io.Writer
	if cfg.AuditLog != "" {
		file, err := os.OpenFile(cfg.AuditLog, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open audit log: %w", err)
		}
		defer file.Close()
		audit = file
	}
	logger := logging.New(logging.Config{
		Level:  logging.ParseLevel(cfg.LogLevel),
		Format: logging.ParseFormat(cfg.LogFormat),
		Output: cmd.ErrOrStderr(),
		Audit:  audit,
	})
	for key, source := range cfg.Sources {
		if source != config.SourceDefault {
			logger.Debug("setting applied", "key", key, "source", source)
		}
	}

	engine, err := buildEngine(cfg.Schema, engineOptions{
		mobileLocale: cfg.MobileLocale,
		checks:       cfg.Checks,
		logger:       logger,
	})
	if err != nil {
		return err
	}

	if cfg.Upstream == "" {
		output.Warn(cmd.ErrOrStderr(), "no upstream configured; valid requests get 204 No Content")
	}

	srv, err := server.New(cfg, engine, logger)
	if err != nil {
		return err
	}
	return srv.Run(cmd.Context())
}

// applyServeFlags copies every flag the user set onto cfg and records the
// override in cfg.Sources.
func applyServeFlags(fs *pflag.FlagSet, cfg *config.Config) {
	f := &serveFlagVals
	set := func(name, key string, apply func()) {
		if fs.Changed(name) {
			apply()
			cfg.SetFromFlag(key)
		}
	}
	set("schema", "SCHEMA", func() { cfg.Schema = f.schema })
	set("addr", "ADDR", func() { cfg.Addr = f.addr })
	set("mount-prefix", "MOUNT_PREFIX", func() { cfg.MountPrefix = f.mountPrefix })
	set("upstream", "UPSTREAM", func() { cfg.Upstream = f.upstream })
	set("allow-unmatched", "ALLOW_UNMATCHED", func() { cfg.AllowUnmatched = f.allowUnmatched })
	set("max-body-bytes", "MAX_BODY_BYTES", func() { cfg.MaxBodyBytes = f.maxBodyBytes })
	set("metrics-path", "METRICS_PATH", func() { cfg.MetricsPath = f.metricsPath })
	set("mobile-locale", "MOBILE_LOCALE", func() { cfg.MobileLocale = f.mobileLocale })
	set("check", "CHECKS", func() { cfg.Checks = append(cfg.Checks, f.checks...) })
	set("log-format", "LOG_FORMAT", func() { cfg.LogFormat = f.logFormat })
	set("audit-log", "AUDIT_LOG", func() { cfg.AuditLog = f.auditLog })
	set("log-level", "LOG_LEVEL", func() { cfg.LogLevel = logLevel })
}

func init() {
	rootCmd.AddCommand(serveCmd)

	f := serveCmd.Flags()
	f.StringVar(&serveFlagVals.envFile, "env-file", "", "Load settings from this .env file (default: ./.env if present)")
	f.StringVarP(&serveFlagVals.schema, "schema", "s", "", "Schema file or glob (REQGUARD_SCHEMA)")
	f.StringVar(&serveFlagVals.addr, "addr", ":8080", "Listen address (REQGUARD_ADDR)")
	f.StringVar(&serveFlagVals.mountPrefix, "mount-prefix", "", "Path prefix stripped before route matching (REQGUARD_MOUNT_PREFIX)")
	f.StringVar(&serveFlagVals.upstream, "upstream", "", "URL valid requests are proxied to (REQGUARD_UPSTREAM)")
	f.BoolVar(&serveFlagVals.allowUnmatched, "allow-unmatched", false, "Pass through requests with no matching route (REQGUARD_ALLOW_UNMATCHED)")
	f.Int64Var(&serveFlagVals.maxBodyBytes, "max-body-bytes", 1<<20, "Largest request body decoded (REQGUARD_MAX_BODY_BYTES)")
	f.StringVar(&serveFlagVals.metricsPath, "metrics-path", "/metrics", "Prometheus metrics endpoint, empty to disable (REQGUARD_METRICS_PATH)")
	f.StringVar(&serveFlagVals.mobileLocale, "mobile-locale", "any", "Locale for the mobile data type (REQGUARD_MOBILE_LOCALE)")
	f.Var(&serveFlagVals.checks, "check", "Custom check as 'expression=>message', repeatable (REQGUARD_CHECKS)")
	f.StringVar(&serveFlagVals.logFormat, "log-format", "text", "Log format: text or json (REQGUARD_LOG_FORMAT)")
	f.StringVar(&serveFlagVals.auditLog, "audit-log", "", "Append every log record as JSON lines to this file (REQGUARD_AUDIT_LOG)")
}
