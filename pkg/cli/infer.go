package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/getmockd/reqguard/pkg/checks"
	"github.com/getmockd/reqguard/pkg/schema"
)

type inferFlags struct {
	pattern string
	format  string
}

var inferFlagVals inferFlags

var inferCmd = &cobra.Command{
	Use:   "infer <sample.json>...",
	Short: "Draft a schema route from sample request bodies",
	Long: `Infer a starting-point schema for one route from sample JSON bodies.

A field becomes required when every sample carries a non-null value for it.
Data types, numeric bounds and nested objects are derived from the values;
path parameters named in --pattern get a required rule with a regex guessed
from the sample values under the parameter's key (prefix-N ids, UUIDs or
digits). Review the result before using it.`,
	Example: `  reqguard infer --pattern /api/users/:id samples/*.json > users.yaml
  reqguard infer --pattern /api/login login.json --format json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runInfer,
}

func runInfer(cmd *cobra.Command, args []string) error {
	f := &inferFlagVals

	samples := make([]map[string]any, 0, len(args))
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read sample: %w", err)
		}
		var sample map[string]any
		if err := json.Unmarshal(data, &sample); err != nil {
			return fmt.Errorf("sample %s must be a JSON object: %w", path, err)
		}
		samples = append(samples, sample)
	}
	if len(samples) == 0 {
		return ErrNoSamples
	}

	doc := schema.Infer(samples, f.pattern, checks.New(), cliLogger())

	out := cmd.OutOrStdout()
	if jsonOutput || f.format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	}
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}

func init() {
	rootCmd.AddCommand(inferCmd)

	f := inferCmd.Flags()
	f.StringVar(&inferFlagVals.pattern, "pattern", "/", "Route pattern the samples belong to")
	f.StringVar(&inferFlagVals.format, "format", "yaml", "Output format: yaml or json")
}
