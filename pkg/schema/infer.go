package schema

import (
	"log/slog"
	"regexp"
	"sort"

	"github.com/getmockd/reqguard/pkg/checks"
	"github.com/getmockd/reqguard/pkg/logging"
)

var (
	routeParamPattern = regexp.MustCompile(`:(\w+)|\{(\w+)\}`)
	prefixIDPattern   = regexp.MustCompile(`^([a-z]+)-(\d+)$`)
	uuidPattern       = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)
	numericPattern    = regexp.MustCompile(`^\d+$`)
)

// defaultParamRegex is used for route params without usable samples.
const defaultParamRegex = `^[a-zA-Z0-9_-]+$`

// Infer drafts a schema document with a single route from sample inputs.
// It determines:
//   - required fields (present and non-null in every sample)
//   - data types, including array element kinds, email and date strings
//   - numeric bounds seen across samples
//   - nested objects as nested rule trees
//   - a regex for each route param, from the samples' values for that key
//
// The result is a starting point meant to be reviewed by hand.
func Infer(samples []map[string]any, pattern string, p checks.Provider, logger *slog.Logger) *Object {
	if p == nil {
		p = checks.New()
	}
	if logger == nil {
		logger = logging.Nop()
	}

	tree := inferTree(samples, true, p)
	for _, param := range routeParams(pattern) {
		regex := inferParamRegex(param, samples)
		rule := NewObject(KeyRequired, true, KeyRegex, regex)
		if _, exists := tree.Get(param); exists {
			replaceMember(tree, param, rule)
		} else {
			tree.Set(param, rule)
		}
	}

	logger.Info("inferred schema from samples",
		"route", pattern, "samples", len(samples), "fields", tree.Len())

	return NewObject(pattern, tree)
}

type fieldSamples struct {
	present int
	values  []any
}

// inferTree drafts the rules of one object level. complete reports whether
// every enclosing object was present in every sample; when it is false no
// field at this level can be required.
func inferTree(samples []map[string]any, complete bool, p checks.Provider) *Object {
	fields := make(map[string]*fieldSamples)
	for _, sample := range samples {
		for name, value := range sample {
			if value == nil {
				continue
			}
			info, ok := fields[name]
			if !ok {
				info = &fieldSamples{}
				fields[name] = info
			}
			info.present++
			info.values = append(info.values, value)
		}
	}

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	tree := &Object{}
	for _, name := range names {
		info := fields[name]
		everywhere := complete && info.present == len(samples)
		if nested, ok := allObjects(info.values); ok {
			if child := inferTree(nested, everywhere, p); child.Len() > 0 {
				tree.Set(name, child)
			}
			continue
		}
		tree.Set(name, inferRule(info, everywhere, p))
	}
	return tree
}

func inferRule(info *fieldSamples, required bool, p checks.Provider) *Object {
	rule := NewObject(KeyRequired, required)

	dt := inferDataType(info.values, p)
	if dt.IsZero() {
		return rule
	}
	rule.Set(KeyDataType, dt.String())

	if dt.IsNumeric() {
		lo, hi := numericBounds(info.values)
		rule.Set(KeyMin, lo)
		rule.Set(KeyMax, hi)
	}
	return rule
}

// inferDataType returns the narrowest kind every value satisfies, or the
// zero DataType when the values disagree.
func inferDataType(values []any, p checks.Provider) DataType {
	switch {
	case all(values, isBool):
		return DataType{Kind: checks.KindBool}
	case all(values, isNumber):
		if all(values, p.IsInt) {
			return DataType{Kind: checks.KindInt}
		}
		return DataType{Kind: checks.KindFloat}
	case all(values, isString):
		if all(values, p.IsEmail) {
			return DataType{Kind: checks.KindEmail}
		}
		if all(values, func(v any) bool { return p.IsDate(v, checks.DateFormat) }) {
			return DataType{Kind: checks.KindDate}
		}
		return DataType{Kind: checks.KindString}
	case all(values, isArray):
		return DataType{Kind: checks.KindArray, Elem: inferElemKind(values)}
	default:
		return DataType{}
	}
}

func inferElemKind(arrays []any) checks.Kind {
	var items []any
	for _, a := range arrays {
		items = append(items, a.([]any)...)
	}
	if len(items) == 0 {
		return ""
	}
	switch {
	case all(items, isNumber):
		return checks.KindNumber
	case all(items, isString):
		return checks.KindString
	case all(items, isBool):
		return checks.KindBool
	default:
		return ""
	}
}

func numericBounds(values []any) (float64, float64) {
	lo, hi := values[0].(float64), values[0].(float64)
	for _, v := range values[1:] {
		f := v.(float64)
		if f < lo {
			lo = f
		}
		if f > hi {
			hi = f
		}
	}
	return lo, hi
}

// routeParams extracts param names from a route pattern, e.g.
// "/api/posts/:postId/comments/{id}" -> ["postId", "id"].
func routeParams(pattern string) []string {
	var params []string
	for _, match := range routeParamPattern.FindAllStringSubmatch(pattern, -1) {
		if match[1] != "" {
			params = append(params, match[1])
		} else {
			params = append(params, match[2])
		}
	}
	return params
}

// inferParamRegex picks a regex matching every sample value of the param.
func inferParamRegex(param string, samples []map[string]any) string {
	var values []string
	for _, sample := range samples {
		if s, ok := sample[param].(string); ok {
			values = append(values, s)
		}
	}
	if len(values) == 0 {
		return defaultParamRegex
	}

	prefix := ""
	for _, v := range values {
		m := prefixIDPattern.FindStringSubmatch(v)
		if m == nil || (prefix != "" && prefix != m[1]) {
			prefix = ""
			break
		}
		prefix = m[1]
	}
	if prefix != "" {
		return `^` + prefix + `-\d+$`
	}

	if allStrings(values, uuidPattern.MatchString) {
		return uuidPattern.String()
	}
	if allStrings(values, numericPattern.MatchString) {
		return numericPattern.String()
	}
	return defaultParamRegex
}

func replaceMember(o *Object, key string, value any) {
	for i := range o.Members {
		if o.Members[i].Key == key {
			o.Members[i].Value = value
			return
		}
	}
}

func allObjects(values []any) ([]map[string]any, bool) {
	out := make([]map[string]any, 0, len(values))
	for _, v := range values {
		m, ok := v.(map[string]any)
		if !ok {
			return nil, false
		}
		out = append(out, m)
	}
	return out, len(out) > 0
}

func all(values []any, pred func(any) bool) bool {
	for _, v := range values {
		if !pred(v) {
			return false
		}
	}
	return len(values) > 0
}

func allStrings(values []string, pred func(string) bool) bool {
	for _, v := range values {
		if !pred(v) {
			return false
		}
	}
	return true
}

func isBool(v any) bool {
	_, ok := v.(bool)
	return ok
}

func isNumber(v any) bool {
	_, ok := v.(float64)
	return ok
}

func isString(v any) bool {
	_, ok := v.(string)
	return ok
}

func isArray(v any) bool {
	_, ok := v.([]any)
	return ok
}
