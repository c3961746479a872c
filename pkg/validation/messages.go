package validation

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Context carries the rule parameters a message may mention.
type Context struct {
	DataType      string
	Elem          string
	Regex         string
	Min           *float64
	Max           *float64
	Length        int
	AllowedValues []any
}

// Render builds the human-readable message for a failure of kind on field.
// Custom failures carry their own message and are not rendered here.
func Render(kind ErrorKind, field string, ctx Context) string {
	switch kind {
	case MandatoryField:
		return field + " is mandatory"
	case EmptyField:
		return field + " should not be empty"
	case Datatype:
		return fmt.Sprintf("%s should be of type %s", field, ctx.DataType)
	case Pattern:
		return fmt.Sprintf("%s should match the pattern %s", field, ctx.Regex)
	case MinMax:
		return fmt.Sprintf("%s should be in %s", field, rangeText(ctx.Min, ctx.Max))
	case Length:
		return fmt.Sprintf("%s should be of length %d", field, ctx.Length)
	case AllowedValue:
		return fmt.Sprintf("%s should be one of [%s]", field, joinValues(ctx.AllowedValues))
	case ArrayDatatype:
		return fmt.Sprintf("%s should be an array of %s", field, ctx.Elem)
	default:
		return field + " is invalid"
	}
}

func rangeText(min, max *float64) string {
	switch {
	case min != nil && max != nil:
		return fmt.Sprintf("between %s and %s", formatNumber(*min), formatNumber(*max))
	case min != nil:
		return "greater than or equal to " + formatNumber(*min)
	case max != nil:
		return "less than or equal to " + formatNumber(*max)
	default:
		return "range"
	}
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func joinValues(values []any) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = formatValue(v)
	}
	return strings.Join(parts, ", ")
}

func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return t
	case float64:
		return formatNumber(t)
	case bool:
		return strconv.FormatBool(t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	}
}
