package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Persistent flags available to all subcommands
	jsonOutput bool
	logLevel   string

	// Version is injected during build
	Version = "dev"
	// Commit is injected during build
	Commit = "none"
	// BuildDate is injected during build
	BuildDate = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "reqguard",
	Short: "reqguard validates HTTP requests against a declarative schema",
	Long: `reqguard checks incoming request data (body, query string and path
parameters) against a JSON or YAML schema of per-route field rules.

Use it offline to lint schemas and try requests, or run it as a gateway in
front of an upstream service. Settings can be provided via flags or
REQGUARD_* environment variables (optionally from a .env file).`,
	SilenceUsage:  true,
	SilenceErrors: true, // We handle errors in Main()
}

// Main runs the command line and returns the process exit code.
func Main() int {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errSilent) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		return 1
	}
	return 0
}

// Execute runs the command line and exits the process on failure.
// This is called by main.main().
func Execute() {
	os.Exit(Main())
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output command results in JSON format")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
}
