package schema

import (
	_ "embed"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed rule.schema.json
var ruleSchemaJSON string

// ruleSchema type-checks the known keys of a rule object.
var ruleSchema = compileRuleSchema()

func compileRuleSchema() *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("rule.schema.json", strings.NewReader(ruleSchemaJSON)); err != nil {
		panic(fmt.Sprintf("schema: add rule schema: %v", err))
	}
	return compiler.MustCompile("rule.schema.json")
}

// Result contains the outcome of meta-validation.
type Result struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// AddError records a problem and marks the result invalid.
func (r *Result) AddError(msg string) {
	r.Valid = false
	r.Errors = append(r.Errors, msg)
}

// Err returns the result as an *InvalidSchemaError, or nil when valid.
func (r *Result) Err() error {
	if r.Valid {
		return nil
	}
	return &InvalidSchemaError{Errors: r.Errors}
}

// Validate inspects a schema document and reports every problem it finds.
// It never stops at the first error and has no side effects.
func Validate(doc *Object) *Result {
	result := &Result{Valid: true}
	if doc == nil {
		result.AddError("schema document is empty")
		return result
	}

	seen := make(map[string]bool, doc.Len())
	for _, m := range doc.Members {
		if m.Key == "" {
			result.AddError("route pattern must not be empty")
		}
		if seen[m.Key] {
			result.AddError(fmt.Sprintf("route %q: duplicate route pattern", m.Key))
		}
		seen[m.Key] = true

		tree, ok := m.Value.(*Object)
		if !ok {
			result.AddError(fmt.Sprintf("route %q: expected an object of fields, got %s", m.Key, describe(m.Value)))
			continue
		}
		validateTree(m.Key, "", tree, result)
	}
	return result
}

func validateTree(route, prefix string, tree *Object, result *Result) {
	seen := make(map[string]bool, tree.Len())
	for _, m := range tree.Members {
		path := joinPath(prefix, m.Key)
		loc := location(route, path)

		if m.Key == "" {
			result.AddError(location(route, prefix) + ": field name must not be empty")
		}
		if seen[m.Key] {
			result.AddError(loc + ": duplicate field")
		}
		seen[m.Key] = true

		switch v := m.Value.(type) {
		case *Object:
			if IsRuleNode(v) {
				validateRule(loc, v, result)
			} else {
				validateTree(route, path, v, result)
			}
		default:
			result.AddError(fmt.Sprintf("%s: expected a rule or a nested object, got %s", loc, describe(m.Value)))
		}
	}
}

func validateRule(loc string, rule *Object, result *Result) {
	seen := make(map[string]bool, rule.Len())
	for _, m := range rule.Members {
		if !IsRuleKey(m.Key) {
			result.AddError(fmt.Sprintf("%s: unknown rule key %q", loc, m.Key))
			continue
		}
		if seen[m.Key] {
			result.AddError(fmt.Sprintf("%s: duplicate rule key %q", loc, m.Key))
		}
		seen[m.Key] = true
	}

	typeErrs := ruleTypeErrors(rule)
	for _, msg := range typeErrs[""] {
		result.AddError(loc + ": " + msg)
	}
	for _, key := range RuleKeys {
		for _, msg := range typeErrs[key] {
			result.AddError(fmt.Sprintf("%s: %s: %s", loc, key, msg))
		}
	}

	if v, ok := rule.Get(KeyDataType); ok {
		if s, isStr := v.(string); isStr {
			if _, err := ParseDataType(s); err != nil {
				result.AddError(fmt.Sprintf("%s: %s: %v", loc, KeyDataType, err))
			}
		}
	}
	if v, ok := rule.Get(KeyRegex); ok {
		if s, isStr := v.(string); isStr {
			if _, err := regexp.Compile(s); err != nil {
				result.AddError(fmt.Sprintf("%s: %s: invalid pattern %q: %v", loc, KeyRegex, s, err))
			}
		}
	}
	lo, hasMin := rule.Get(KeyMin)
	hi, hasMax := rule.Get(KeyMax)
	if hasMin && hasMax {
		minF, minOK := lo.(float64)
		maxF, maxOK := hi.(float64)
		if minOK && maxOK && minF > maxF {
			result.AddError(fmt.Sprintf("%s: min (%v) must not exceed max (%v)", loc, minF, maxF))
		}
	}
}

// ruleTypeErrors runs the rule JSON Schema and groups leaf errors by key.
func ruleTypeErrors(rule *Object) map[string][]string {
	known := make(map[string]any, rule.Len())
	for _, m := range rule.Members {
		if IsRuleKey(m.Key) {
			known[m.Key] = plainValue(m.Value)
		}
	}

	err := ruleSchema.Validate(known)
	if err == nil {
		return nil
	}

	out := make(map[string][]string)
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		out[""] = append(out[""], err.Error())
		return out
	}
	collectLeaves(verr, out)
	for key := range out {
		sort.Strings(out[key])
	}
	return out
}

func collectLeaves(err *jsonschema.ValidationError, out map[string][]string) {
	if len(err.Causes) == 0 {
		key, _, _ := strings.Cut(strings.TrimPrefix(err.InstanceLocation, "/"), "/")
		out[key] = append(out[key], err.Message)
		return
	}
	for _, cause := range err.Causes {
		collectLeaves(cause, out)
	}
}
