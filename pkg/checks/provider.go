package checks

import "regexp"

// Kind names a primitive value kind.
type Kind string

// Scalar kinds accepted as a rule's dataType.
const (
	KindInt          Kind = "int"
	KindString       Kind = "string"
	KindArray        Kind = "array"
	KindMobile       Kind = "mobile"
	KindBool         Kind = "bool"
	KindFloat        Kind = "float"
	KindDate         Kind = "date"
	KindAlpha        Kind = "alpha"
	KindAlphanumeric Kind = "alphanumeric"
	KindEmail        Kind = "email"
)

// KindNumber is only valid as an array element kind (array+number).
const KindNumber Kind = "number"

// DateFormat is the only date layout rules can ask for.
const DateFormat = "YYYY-MM-DD"

// Provider exposes the primitive checks the rule compiler is built on.
type Provider interface {
	IsString(v any) bool
	IsEmail(v any) bool
	IsInt(v any) bool
	IsFloat(v any) bool
	IsAlpha(v any) bool
	IsAlphanumeric(v any) bool
	IsBoolean(v any) bool
	// IsMobileNumber checks v against the phone number plan of locale.
	// An empty locale means the provider's default.
	IsMobileNumber(v any, locale string) bool
	IsDate(v any, format string) bool
	MatchesRegex(v any, re *regexp.Regexp) bool
	IsArray(v any) bool
	// ArrayElementsMatch reports whether v is an array whose every element
	// is of the given kind. An empty array matches any kind.
	ArrayElementsMatch(v any, kind Kind) bool
	// InRange reports whether v is numeric and within [min, max]. A nil
	// bound is not enforced.
	InRange(v any, min, max *float64) bool
	HasExactLength(v any, n int) bool
	IsMember(v any, list []any) bool
}

// Is dispatches a scalar kind to the matching Provider method.
// Unknown kinds never match.
func Is(p Provider, kind Kind, v any) bool {
	switch kind {
	case KindInt:
		return p.IsInt(v)
	case KindString:
		return p.IsString(v)
	case KindArray:
		return p.IsArray(v)
	case KindMobile:
		return p.IsMobileNumber(v, "")
	case KindBool:
		return p.IsBoolean(v)
	case KindFloat, KindNumber:
		return p.IsFloat(v)
	case KindDate:
		return p.IsDate(v, DateFormat)
	case KindAlpha:
		return p.IsAlpha(v)
	case KindAlphanumeric:
		return p.IsAlphanumeric(v)
	case KindEmail:
		return p.IsEmail(v)
	default:
		return false
	}
}
