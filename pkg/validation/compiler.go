package validation

import (
	"regexp"
	"strings"

	"github.com/ohler55/ojg/jp"

	"github.com/getmockd/reqguard/pkg/checks"
	"github.com/getmockd/reqguard/pkg/schema"
)

// Step is one check of a field. Pass reports whether the value satisfies it.
type Step struct {
	Kind ErrorKind
	Pass func(v any) bool
}

// FieldCheck is the compiled form of a single Rule.
type FieldCheck struct {
	// Path is the dotted field path used in messages.
	Path     string
	Required bool
	Context  Context
	Steps    []Step

	locator jp.Expr
}

// Compile turns a rule tree into ordered field checks. Nested trees are
// flattened depth-first, with prefix joined to every field name. The tree
// must come from schema.Build or a Schema that passed Check.
func Compile(tree schema.RuleTree, prefix string, p checks.Provider) []FieldCheck {
	var segments []string
	if prefix != "" {
		segments = strings.Split(prefix, ".")
	}
	return compileTree(tree, segments, p, nil)
}

func compileTree(tree schema.RuleTree, segments []string, p checks.Provider, out []FieldCheck) []FieldCheck {
	for _, field := range tree {
		path := append(segments[:len(segments):len(segments)], field.Name)
		if field.Rule != nil {
			out = append(out, compileRule(path, field.Rule, p))
			continue
		}
		out = compileTree(field.Tree, path, p, out)
	}
	return out
}

func compileRule(path []string, r *schema.Rule, p checks.Provider) FieldCheck {
	locator := jp.R()
	for _, seg := range path {
		locator = locator.C(seg)
	}

	fc := FieldCheck{
		Path:     strings.Join(path, "."),
		Required: r.Required,
		Context: Context{
			DataType:      r.DataType.String(),
			Elem:          string(r.DataType.Elem),
			Regex:         r.Regex,
			Min:           r.Min,
			Max:           r.Max,
			AllowedValues: r.AllowedValues,
		},
		locator: locator,
	}
	if r.Length != nil {
		fc.Context.Length = *r.Length
	}

	dt := r.DataType
	switch {
	case dt.IsZero():
	case dt.Kind == checks.KindArray:
		fc.Steps = append(fc.Steps, Step{Kind: Datatype, Pass: p.IsArray})
		if dt.Elem != "" {
			elem := dt.Elem
			fc.Steps = append(fc.Steps, Step{Kind: ArrayDatatype, Pass: func(v any) bool {
				return p.ArrayElementsMatch(v, elem)
			}})
		}
	default:
		kind := dt.Kind
		fc.Steps = append(fc.Steps, Step{Kind: Datatype, Pass: func(v any) bool {
			return checks.Is(p, kind, v)
		}})
	}

	if r.Regex != "" {
		re := r.Pattern
		if re == nil {
			re = regexp.MustCompile(r.Regex)
		}
		fc.Steps = append(fc.Steps, Step{Kind: Pattern, Pass: func(v any) bool {
			return p.MatchesRegex(v, re)
		}})
	}

	if dt.IsNumeric() && (r.Min != nil || r.Max != nil) {
		lo, hi := r.Min, r.Max
		fc.Steps = append(fc.Steps, Step{Kind: MinMax, Pass: func(v any) bool {
			return p.InRange(v, lo, hi)
		}})
	}

	if dt.Kind == checks.KindString && r.Length != nil {
		n := *r.Length
		fc.Steps = append(fc.Steps, Step{Kind: Length, Pass: func(v any) bool {
			return p.HasExactLength(v, n)
		}})
	}

	if r.AllowedValues != nil {
		allowed := r.AllowedValues
		fc.Steps = append(fc.Steps, Step{Kind: AllowedValue, Pass: func(v any) bool {
			return p.IsMember(v, allowed)
		}})
	}

	return fc
}

// Lookup resolves the field in input. Null values count as absent.
func (fc FieldCheck) Lookup(input Input) (any, bool) {
	results := fc.locator.Get(map[string]any(input))
	if len(results) == 0 || results[0] == nil {
		return nil, false
	}
	return results[0], true
}

// Run applies the field's steps to input and returns the first failing kind.
func (fc FieldCheck) Run(input Input) (ErrorKind, bool) {
	v, present := fc.Lookup(input)
	if !present {
		if fc.Required {
			return MandatoryField, false
		}
		return 0, true
	}

	if s, ok := v.(string); ok {
		v = strings.TrimSpace(s)
	}
	if fc.Required && isEmpty(v) {
		return EmptyField, false
	}

	for _, step := range fc.Steps {
		if !step.Pass(v) {
			return step.Kind, false
		}
	}
	return 0, true
}

func isEmpty(v any) bool {
	switch t := v.(type) {
	case string:
		return t == ""
	case []any:
		return len(t) == 0
	case []string:
		return len(t) == 0
	default:
		return false
	}
}
