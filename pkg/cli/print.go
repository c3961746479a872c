package cli

import (
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/getmockd/reqguard/pkg/cli/internal/output"
)

// printResult outputs a single operation result.
//
// Contract: when --json is active, ONLY the JSON encoding of data is written
// to stdout. Human-readable prose must go to stderr or be omitted entirely.
// textFn is called only in text mode.
func printResult(cmd *cobra.Command, data any, textFn func()) {
	if jsonOutput {
		_ = output.JSON(cmd.OutOrStdout(), data)
		return
	}
	textFn()
}

// outputTable returns an aligned table writer on the command's stdout.
func outputTable(cmd *cobra.Command) *tabwriter.Writer {
	return output.Table(cmd.OutOrStdout())
}
