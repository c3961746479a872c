package cli

import (
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/getmockd/reqguard/pkg/cli/internal/flags"
	"github.com/getmockd/reqguard/pkg/cli/internal/parse"
	"github.com/getmockd/reqguard/pkg/validation"
)

type checkFlags struct {
	path         string
	data         string
	query        flags.StringSlice
	params       flags.StringSlice
	checks       flags.StringSlice
	mobileLocale string
}

var checkFlagVals checkFlags

type checkResult struct {
	Path    string              `json:"path"`
	Route   string              `json:"route"`
	Params  map[string]string   `json:"params,omitempty"`
	Valid   bool                `json:"valid"`
	Failure *validation.Failure `json:"failure,omitempty"`
}

var checkCmd = &cobra.Command{
	Use:   "check <schema>",
	Short: "Validate one request offline",
	Long: `Resolve a request path against the schema and validate the given body,
query values and path parameters, exactly as the gateway would.

Body, query and params are merged in that order (later wins). Path
parameters captured by the matched route are added automatically; --param
overrides them. Exits 1 when the request is rejected.`,
	Example: `  # Body from the command line
  reqguard check schema.yaml --path /api/login --data '{"username":"ana","password":""}'

  # Body from a file, plus a query value and a custom check
  reqguard check schema.yaml --path /api/users/42 --data @user.json \
    --query verbose=true --check 'age >= 18=>too young'`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	f := &checkFlagVals

	engine, err := buildEngine(args[0], engineOptions{
		mobileLocale: f.mobileLocale,
		checks:       f.checks,
	})
	if err != nil {
		return err
	}

	body, err := readData(f.data)
	if err != nil {
		return err
	}
	query, err := parse.Query(f.query)
	if err != nil {
		return err
	}
	explicit, err := parse.Params(f.params)
	if err != nil {
		return err
	}

	route, params, ok := engine.Match(f.path)
	if !ok {
		return fmt.Errorf("%w: %s", validation.ErrRouteNotFound, f.path)
	}
	merged := make(map[string]string, len(params)+len(explicit))
	maps.Copy(merged, params)
	maps.Copy(merged, explicit)

	input := validation.MergeInput(body, validation.QueryValues(query), merged)
	failure := engine.Validate(route, input)

	result := checkResult{
		Path:    f.path,
		Route:   route.Pattern,
		Params:  merged,
		Valid:   failure == nil,
		Failure: failure,
	}
	printResult(cmd, result, func() {
		out := cmd.OutOrStdout()
		if failure == nil {
			fmt.Fprintf(out, "PASS %s (route %s)\n", f.path, route.Pattern)
			return
		}
		fmt.Fprintf(out, "FAIL %s (route %s)\n", f.path, route.Pattern)
		if failure.Field != "" {
			fmt.Fprintf(out, "  field: %s\n", failure.Field)
		}
		fmt.Fprintf(out, "  kind: %s\n", failure.Kind)
		fmt.Fprintf(out, "  message: %s\n", failure.Message)
	})

	if failure != nil {
		return errSilent
	}
	return nil
}

// readData decodes a JSON object given inline or as @file. Empty means no body.
func readData(data string) (map[string]any, error) {
	if strings.TrimSpace(data) == "" {
		return nil, nil
	}
	raw := []byte(data)
	if file, ok := strings.CutPrefix(data, "@"); ok {
		b, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read data file: %w", err)
		}
		raw = b
	}

	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("--data must be a JSON object: %w", err)
	}
	return body, nil
}

func init() {
	rootCmd.AddCommand(checkCmd)

	f := checkCmd.Flags()
	f.StringVarP(&checkFlagVals.path, "path", "p", "", "Request path to resolve (required)")
	f.StringVarP(&checkFlagVals.data, "data", "d", "", "JSON body, or @file to read it from a file")
	f.Var(&checkFlagVals.query, "query", "Query value as key=value (repeatable)")
	f.Var(&checkFlagVals.params, "param", "Path parameter as key=value (repeatable)")
	f.Var(&checkFlagVals.checks, "check", "Custom check as 'expression=>message' (repeatable)")
	f.StringVar(&checkFlagVals.mobileLocale, "mobile-locale", "any", "Locale for the mobile data type, e.g. en-IN")
	_ = checkCmd.MarkFlagRequired("path")
}
