package schema

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/getmockd/reqguard/pkg/checks"
)

// arraySeparator joins an array kind with its element kind, as in array+string.
const arraySeparator = "+"

// scalarKinds are the kinds a dataType may name on its own.
var scalarKinds = []checks.Kind{
	checks.KindInt, checks.KindString, checks.KindArray, checks.KindMobile, checks.KindBool,
	checks.KindFloat, checks.KindDate, checks.KindAlpha, checks.KindAlphanumeric, checks.KindEmail,
}

// elementKinds are the kinds allowed after array+.
var elementKinds = []checks.Kind{
	checks.KindNumber, checks.KindString, checks.KindMobile, checks.KindBool, checks.KindFloat,
}

// DataType is a parsed dataType value. Elem is only set for array+<elem>.
type DataType struct {
	Kind checks.Kind
	Elem checks.Kind
}

// ParseDataType parses "int", "array" or "array+string" style values.
func ParseDataType(s string) (DataType, error) {
	base, elem, hasElem := strings.Cut(s, arraySeparator)
	dt := DataType{Kind: checks.Kind(base)}

	if !containsKind(scalarKinds, dt.Kind) {
		return DataType{}, fmt.Errorf("unsupported dataType %q (valid: %s)", s, SupportedDataTypes())
	}
	if !hasElem {
		return dt, nil
	}
	if dt.Kind != checks.KindArray {
		return DataType{}, fmt.Errorf("unsupported dataType %q: only array takes an element kind", s)
	}
	dt.Elem = checks.Kind(elem)
	if !containsKind(elementKinds, dt.Elem) {
		return DataType{}, fmt.Errorf("unsupported array element kind %q in %q (valid: %s)", elem, s, joinKinds(elementKinds))
	}
	return dt, nil
}

// String renders the dataType the way it is written in schemas.
func (d DataType) String() string {
	if d.Elem != "" {
		return string(d.Kind) + arraySeparator + string(d.Elem)
	}
	return string(d.Kind)
}

// IsZero reports whether no dataType was declared.
func (d DataType) IsZero() bool { return d.Kind == "" }

// IsNumeric reports whether min/max apply to this dataType.
func (d DataType) IsNumeric() bool {
	return d.Kind == checks.KindInt || d.Kind == checks.KindFloat
}

// SupportedDataTypes lists every accepted dataType spelling.
func SupportedDataTypes() string {
	parts := make([]string, 0, len(scalarKinds)+len(elementKinds))
	for _, k := range scalarKinds {
		parts = append(parts, string(k))
	}
	for _, k := range elementKinds {
		parts = append(parts, string(checks.KindArray)+arraySeparator+string(k))
	}
	return strings.Join(parts, ", ")
}

func containsKind(kinds []checks.Kind, k checks.Kind) bool {
	for _, candidate := range kinds {
		if candidate == k {
			return true
		}
	}
	return false
}

func joinKinds(kinds []checks.Kind) string {
	parts := make([]string, len(kinds))
	for i, k := range kinds {
		parts[i] = string(k)
	}
	return strings.Join(parts, ", ")
}

// Rule is the validation spec of a single field.
type Rule struct {
	Required      bool
	DataType      DataType
	Regex         string
	Min           *float64
	Max           *float64
	Length        *int
	AllowedValues []any

	// Pattern is Regex compiled by Build.
	Pattern *regexp.Regexp
}

// Field is one entry of a RuleTree. Exactly one of Rule and Tree is set.
type Field struct {
	Name string
	Rule *Rule
	Tree RuleTree
}

// RuleTree is an ordered list of fields, each a Rule or a nested tree.
type RuleTree []Field

// Route binds a route pattern to the rule tree that governs it.
type Route struct {
	Pattern string
	Tree    RuleTree
}

// Schema is the ordered list of routes built from a document.
type Schema []Route

// InvalidSchemaError carries every problem Validate found.
type InvalidSchemaError struct {
	Errors []string
}

func (e *InvalidSchemaError) Error() string {
	if len(e.Errors) == 1 {
		return "invalid schema: " + e.Errors[0]
	}
	return fmt.Sprintf("invalid schema (%d errors):\n  %s", len(e.Errors), strings.Join(e.Errors, "\n  "))
}

// Build meta-validates doc and converts it into a typed Schema.
func Build(doc *Object) (Schema, error) {
	if result := Validate(doc); !result.Valid {
		return nil, &InvalidSchemaError{Errors: result.Errors}
	}

	s := make(Schema, 0, doc.Len())
	for _, m := range doc.Members {
		s = append(s, Route{Pattern: m.Key, Tree: buildTree(m.Value.(*Object))})
	}
	return s, nil
}

func buildTree(obj *Object) RuleTree {
	tree := make(RuleTree, 0, obj.Len())
	for _, m := range obj.Members {
		if IsRuleNode(m.Value) {
			tree = append(tree, Field{Name: m.Key, Rule: buildRule(m.Value.(*Object))})
			continue
		}
		tree = append(tree, Field{Name: m.Key, Tree: buildTree(m.Value.(*Object))})
	}
	return tree
}

// buildRule assumes obj already passed Validate.
func buildRule(obj *Object) *Rule {
	r := &Rule{}
	if v, ok := obj.Get(KeyRequired); ok {
		r.Required = v.(bool)
	}
	if v, ok := obj.Get(KeyDataType); ok {
		r.DataType, _ = ParseDataType(v.(string))
	}
	if v, ok := obj.Get(KeyRegex); ok {
		r.Regex = v.(string)
		r.Pattern = regexp.MustCompile(r.Regex)
	}
	if v, ok := obj.Get(KeyMin); ok {
		f := v.(float64)
		r.Min = &f
	}
	if v, ok := obj.Get(KeyMax); ok {
		f := v.(float64)
		r.Max = &f
	}
	if v, ok := obj.Get(KeyLength); ok {
		n := int(v.(float64))
		r.Length = &n
	}
	if v, ok := obj.Get(KeyAllowedValues); ok {
		r.AllowedValues = plainValue(v).([]any)
	}
	return r
}

// Check validates a Schema assembled in Go code rather than parsed from a
// document, compiling any Regex whose Pattern is still nil. Documents go
// through Validate instead.
func (s Schema) Check() error {
	result := &Result{Valid: true}
	seen := make(map[string]bool, len(s))
	for _, route := range s {
		if route.Pattern == "" {
			result.AddError("route pattern must not be empty")
		}
		if seen[route.Pattern] {
			result.AddError(fmt.Sprintf("route %q: duplicate route pattern", route.Pattern))
		}
		seen[route.Pattern] = true
		checkTree(route.Pattern, "", route.Tree, result)
	}
	if !result.Valid {
		return &InvalidSchemaError{Errors: result.Errors}
	}
	return nil
}

func checkTree(route, prefix string, tree RuleTree, result *Result) {
	for _, f := range tree {
		path := joinPath(prefix, f.Name)
		loc := location(route, path)
		switch {
		case f.Name == "":
			result.AddError(location(route, prefix) + ": field name must not be empty")
		case f.Rule != nil && f.Tree != nil:
			result.AddError(loc + ": field has both a rule and a nested tree")
		case f.Rule == nil && f.Tree == nil:
			result.AddError(loc + ": field has neither a rule nor a nested tree")
		case f.Rule != nil:
			checkRule(loc, f.Rule, result)
		default:
			checkTree(route, path, f.Tree, result)
		}
	}
}

func checkRule(loc string, r *Rule, result *Result) {
	if !r.DataType.IsZero() {
		if _, err := ParseDataType(r.DataType.String()); err != nil {
			result.AddError(loc + ": " + err.Error())
		}
	}
	if r.Regex != "" && r.Pattern == nil {
		re, err := regexp.Compile(r.Regex)
		if err != nil {
			result.AddError(fmt.Sprintf("%s: invalid regex %q: %v", loc, r.Regex, err))
		} else {
			r.Pattern = re
		}
	}
	if r.Min != nil && r.Max != nil && *r.Min > *r.Max {
		result.AddError(fmt.Sprintf("%s: min (%v) must not exceed max (%v)", loc, *r.Min, *r.Max))
	}
	if r.Length != nil && *r.Length < 0 {
		result.AddError(fmt.Sprintf("%s: length must be a non-negative integer, got %d", loc, *r.Length))
	}
}

func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

// location formats an error position as: route "/x" field "a.b".
func location(route, path string) string {
	if path == "" {
		return fmt.Sprintf("route %q", route)
	}
	return fmt.Sprintf("route %q field %q", route, path)
}
