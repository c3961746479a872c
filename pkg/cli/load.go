package cli

import (
	"log/slog"
	"os"
	"strings"

	"github.com/getmockd/reqguard/pkg/checks"
	"github.com/getmockd/reqguard/pkg/logging"
	"github.com/getmockd/reqguard/pkg/schema"
	"github.com/getmockd/reqguard/pkg/validation"
)

// loadDocument reads one schema file, or every file matched by a glob.
func loadDocument(path string) (*schema.Object, error) {
	if strings.ContainsAny(path, "*?[{") {
		return schema.LoadGlob(path)
	}
	return schema.LoadFile(path)
}

type engineOptions struct {
	mobileLocale string
	checks       []string
	logger       *slog.Logger
}

// buildEngine loads, meta-validates and compiles the schema at path.
func buildEngine(path string, opts engineOptions) (*validation.Engine, error) {
	doc, err := loadDocument(path)
	if err != nil {
		return nil, err
	}

	custom := make([]validation.CustomCheck, 0, len(opts.checks))
	for _, c := range opts.checks {
		check, err := validation.ParseExprCheck(c)
		if err != nil {
			return nil, err
		}
		custom = append(custom, check)
	}

	logger := opts.logger
	if logger == nil {
		logger = cliLogger()
	}
	return validation.NewFromDocument(doc,
		validation.WithProvider(checks.New(checks.WithMobileLocale(opts.mobileLocale))),
		validation.WithCustomChecks(custom...),
		validation.WithLogger(logger),
	)
}

// cliLogger returns a stderr logger for the offline commands. It is silent
// unless --log-level is given.
func cliLogger() *slog.Logger {
	if logLevel == "" {
		return logging.Nop()
	}
	return logging.New(logging.Config{
		Level:  logging.ParseLevel(logLevel),
		Format: logging.FormatText,
		Output: os.Stderr,
	})
}
