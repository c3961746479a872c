package checks

import (
	"math"
	"net/mail"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

var (
	alphaRegex        = regexp.MustCompile(`^[a-zA-Z]+$`)
	alphanumericRegex = regexp.MustCompile(`^[a-zA-Z0-9]+$`)
)

// Standard is the default Provider.
type Standard struct {
	mobileLocale string
}

// Option configures a Standard provider.
type Option func(*Standard)

// WithMobileLocale sets the locale used by IsMobileNumber when the caller
// does not pass one, e.g. "en-IN" or "de-DE".
func WithMobileLocale(locale string) Option {
	return func(s *Standard) {
		if locale != "" {
			s.mobileLocale = locale
		}
	}
}

// New returns a Standard provider. The default mobile locale is "any",
// which accepts E.164-shaped numbers from every region.
func New(opts ...Option) *Standard {
	s := &Standard{mobileLocale: LocaleAny}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ Provider = (*Standard)(nil)

// MobileLocale returns the locale used when none is passed to IsMobileNumber.
func (s *Standard) MobileLocale() string {
	return s.mobileLocale
}

func (s *Standard) IsString(v any) bool {
	_, ok := v.(string)
	return ok
}

// IsEmail validates an address using net/mail plus the web-form rules
// (single @, dotted domain without empty labels).
func (s *Standard) IsEmail(v any) bool {
	str, ok := v.(string)
	if !ok || strings.TrimSpace(str) == "" {
		return false
	}
	addr, err := mail.ParseAddress(str)
	if err != nil || addr.Address != str {
		return false
	}
	local, domain, found := strings.Cut(str, "@")
	if !found || local == "" || strings.Contains(domain, "@") {
		return false
	}
	if !strings.Contains(domain, ".") {
		return false
	}
	for part := range strings.SplitSeq(domain, ".") {
		if part == "" {
			return false
		}
	}
	return true
}

// IsInt accepts whole JSON numbers and base-10 integer strings.
func (s *Standard) IsInt(v any) bool {
	switch n := v.(type) {
	case string:
		_, err := strconv.ParseInt(n, 10, 64)
		return err == nil
	case float64:
		return !math.IsInf(n, 0) && n == math.Trunc(n)
	case float32:
		return float64(n) == math.Trunc(float64(n))
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	default:
		return false
	}
}

// IsFloat accepts any finite JSON number and decimal strings.
func (s *Standard) IsFloat(v any) bool {
	f, ok := toFloat(v)
	return ok && !math.IsInf(f, 0) && !math.IsNaN(f)
}

func (s *Standard) IsAlpha(v any) bool {
	str, ok := v.(string)
	return ok && alphaRegex.MatchString(str)
}

func (s *Standard) IsAlphanumeric(v any) bool {
	str, ok := v.(string)
	return ok && alphanumericRegex.MatchString(str)
}

// IsBoolean accepts JSON booleans and the strings true, false, 1 and 0.
func (s *Standard) IsBoolean(v any) bool {
	switch b := v.(type) {
	case bool:
		return true
	case string:
		switch b {
		case "true", "false", "1", "0":
			return true
		}
	}
	return false
}

func (s *Standard) IsMobileNumber(v any, locale string) bool {
	var str string
	switch n := v.(type) {
	case string:
		str = n
	case float64:
		if n != math.Trunc(n) {
			return false
		}
		str = strconv.FormatFloat(n, 'f', -1, 64)
	default:
		return false
	}
	if locale == "" {
		locale = s.mobileLocale
	}
	return mobilePattern(locale).MatchString(str)
}

// IsDate parses v with a YYYY/MM/DD style format.
func (s *Standard) IsDate(v any, format string) bool {
	str, ok := v.(string)
	if !ok {
		return false
	}
	_, err := time.Parse(goLayout(format), str)
	return err == nil
}

// MatchesRegex matches the textual form of strings and numbers.
func (s *Standard) MatchesRegex(v any, re *regexp.Regexp) bool {
	if re == nil {
		return false
	}
	str, ok := toText(v)
	return ok && re.MatchString(str)
}

func (s *Standard) IsArray(v any) bool {
	if v == nil {
		return false
	}
	if _, ok := v.([]any); ok {
		return true
	}
	k := reflect.TypeOf(v).Kind()
	return k == reflect.Slice || k == reflect.Array
}

func (s *Standard) ArrayElementsMatch(v any, kind Kind) bool {
	items, ok := toSlice(v)
	if !ok {
		return false
	}
	for _, item := range items {
		if !Is(s, kind, item) {
			return false
		}
	}
	return true
}

func (s *Standard) InRange(v any, min, max *float64) bool {
	f, ok := toFloat(v)
	if !ok {
		return false
	}
	if min != nil && f < *min {
		return false
	}
	if max != nil && f > *max {
		return false
	}
	return true
}

// HasExactLength counts runes for strings and items for arrays.
func (s *Standard) HasExactLength(v any, n int) bool {
	if str, ok := v.(string); ok {
		return utf8.RuneCountInString(str) == n
	}
	if items, ok := toSlice(v); ok {
		return len(items) == n
	}
	return false
}

func (s *Standard) IsMember(v any, list []any) bool {
	for _, allowed := range list {
		if valuesEqual(v, allowed) {
			return true
		}
	}
	return false
}

// goLayout turns a YYYY-MM-DD style format into a time layout.
func goLayout(format string) string {
	return strings.NewReplacer("YYYY", "2006", "MM", "01", "DD", "02").Replace(format)
}
