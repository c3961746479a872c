package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/getmockd/reqguard/pkg/validation"
)

type routeInfo struct {
	Pattern string      `json:"pattern"`
	Fields  []fieldInfo `json:"fields"`
}

type fieldInfo struct {
	Path     string   `json:"path"`
	Required bool     `json:"required"`
	Checks   []string `json:"checks"`
}

var routesCmd = &cobra.Command{
	Use:   "routes <schema>",
	Short: "List routes and their compiled field checks",
	Long: `Compile a schema and list its routes in registration (match) order,
with the dotted path of every field and the checks run against it.`,
	Example: `  reqguard routes schema.yaml
  reqguard routes schema.yaml --json`,
	Args: cobra.ExactArgs(1),
	RunE: runRoutes,
}

func runRoutes(cmd *cobra.Command, args []string) error {
	engine, err := buildEngine(args[0], engineOptions{})
	if err != nil {
		return err
	}

	routes := describeRoutes(engine)
	printResult(cmd, routes, func() {
		tw := outputTable(cmd)
		fmt.Fprintln(tw, "ROUTE\tFIELD\tREQUIRED\tCHECKS")
		for _, r := range routes {
			if len(r.Fields) == 0 {
				fmt.Fprintf(tw, "%s\t-\t-\t-\n", r.Pattern)
			}
			for _, f := range r.Fields {
				fmt.Fprintf(tw, "%s\t%s\t%t\t%s\n", r.Pattern, f.Path, f.Required, strings.Join(f.Checks, ","))
			}
		}
		_ = tw.Flush()
	})
	return nil
}

func describeRoutes(engine *validation.Engine) []routeInfo {
	routes := engine.Routes()
	out := make([]routeInfo, 0, len(routes))
	for _, r := range routes {
		info := routeInfo{Pattern: r.Pattern, Fields: make([]fieldInfo, 0, len(r.Checks))}
		for _, fc := range r.Checks {
			names := make([]string, 0, len(fc.Steps))
			for _, s := range fc.Steps {
				names = append(names, s.Kind.String())
			}
			info.Fields = append(info.Fields, fieldInfo{Path: fc.Path, Required: fc.Required, Checks: names})
		}
		out = append(out, info)
	}
	return out
}

func init() {
	rootCmd.AddCommand(routesCmd)
}
