package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/getmockd/reqguard/pkg/schema"
)

type validateReport struct {
	File   string   `json:"file"`
	Valid  bool     `json:"valid"`
	Routes int      `json:"routes"`
	Errors []string `json:"errors,omitempty"`
}

var validateCmd = &cobra.Command{
	Use:   "validate <schema>...",
	Short: "Check schema files for errors",
	Long: `Validate one or more schema files without compiling or serving them.

Every problem is reported, not just the first: unknown rule keys, wrong value
types, unsupported data types, invalid regular expressions, min greater than
max, duplicate route patterns and more. A path containing glob characters
(e.g. 'rules/**/*.yaml') is loaded as one merged document.`,
	Example: `  # Validate a single schema
  reqguard validate schema.yaml

  # Validate every schema under rules/
  reqguard validate 'rules/**/*.yaml'`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	reports := make([]validateReport, 0, len(args))
	failed := false
	for _, path := range args {
		report := validateReport{File: path}
		doc, err := loadDocument(path)
		if err != nil {
			report.Errors = []string{err.Error()}
		} else {
			result := schema.Validate(doc)
			report.Valid = result.Valid
			report.Routes = doc.Len()
			report.Errors = result.Errors
		}
		failed = failed || !report.Valid
		reports = append(reports, report)
	}

	printResult(cmd, reports, func() {
		out := cmd.OutOrStdout()
		for _, r := range reports {
			if r.Valid {
				fmt.Fprintf(out, "%s: valid (%d routes)\n", r.File, r.Routes)
				continue
			}
			fmt.Fprintf(out, "%s: %d error(s)\n", r.File, len(r.Errors))
			for _, e := range r.Errors {
				fmt.Fprintf(out, "  - %s\n", e)
			}
		}
	})

	if failed {
		return errSilent
	}
	return nil
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
