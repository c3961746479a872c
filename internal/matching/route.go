package matching

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrInvalidPattern is wrapped by every CompileRoute error.
var ErrInvalidPattern = errors.New("invalid route pattern")

// WildcardParam is the param name a trailing wildcard stores the rest of the path under.
const WildcardParam = "*"

// Params holds values captured from the request path.
type Params map[string]string

type patternKind int

const (
	kindSegments patternKind = iota
	kindGlob
	kindRegex
)

type segment struct {
	literal string
	param   string
}

// Matcher is a compiled route pattern. The zero value matches nothing.
type Matcher struct {
	pattern  string
	kind     patternKind
	segments []segment
	wildcard bool
	glob     string
	re       *regexp.Regexp
}

// CompileRoute compiles a route pattern. Supported forms:
//   - Literal: "/api/login"
//   - Named params: "/api/users/:id" or "/api/users/{id}"
//   - Trailing wildcard: "/api/files/*" matches "/api/files" and anything below it,
//     also after a glob: "/api/*/files/*"
//   - Globs: "/api/**/export" or "/api/*/items" (doublestar syntax)
//   - Regex: "^/api/v(?P<version>\d+)/.*" (named groups become params). The
//     expression must match the whole path; "$" is implied.
func CompileRoute(pattern string) (Matcher, error) {
	if pattern == "" {
		return Matcher{}, fmt.Errorf("%w: empty pattern", ErrInvalidPattern)
	}

	if strings.HasPrefix(pattern, "^") {
		re, err := regexp.Compile("^(?:" + pattern[1:] + ")$")
		if err != nil {
			return Matcher{}, fmt.Errorf("%w %q: %v", ErrInvalidPattern, pattern, err)
		}
		return Matcher{pattern: pattern, kind: kindRegex, re: re}, nil
	}

	body, wildcard := trimWildcard(pattern)
	if isGlob(body) {
		if !doublestar.ValidatePattern(body) {
			return Matcher{}, fmt.Errorf("%w %q: malformed glob", ErrInvalidPattern, pattern)
		}
		return Matcher{pattern: pattern, kind: kindGlob, glob: body, wildcard: wildcard}, nil
	}

	m := Matcher{pattern: pattern, kind: kindSegments, wildcard: wildcard}
	seen := make(map[string]bool)
	for _, part := range splitPath(body) {
		seg, err := parseSegment(part)
		if err != nil {
			return Matcher{}, fmt.Errorf("%w %q: %v", ErrInvalidPattern, pattern, err)
		}
		if seg.param != "" {
			if seen[seg.param] {
				return Matcher{}, fmt.Errorf("%w %q: duplicate param %q", ErrInvalidPattern, pattern, seg.param)
			}
			seen[seg.param] = true
		}
		m.segments = append(m.segments, seg)
	}
	return m, nil
}

// MustCompileRoute is like CompileRoute but panics on error.
func MustCompileRoute(pattern string) Matcher {
	m, err := CompileRoute(pattern)
	if err != nil {
		panic(err)
	}
	return m
}

// Pattern returns the source pattern.
func (m Matcher) Pattern() string { return m.pattern }

// Match reports whether path matches and returns the captured params.
// Params is never nil on a match.
func (m Matcher) Match(path string) (Params, bool) {
	switch m.kind {
	case kindRegex:
		return m.matchRegex(path)
	case kindGlob:
		if !m.matchGlob(path) {
			return nil, false
		}
		return Params{}, true
	default:
		if m.pattern == "" {
			return nil, false
		}
		return m.matchSegments(path)
	}
}

// matchGlob matches the glob, or with a trailing wildcard the glob itself
// and anything below it.
func (m Matcher) matchGlob(path string) bool {
	if ok, err := doublestar.Match(m.glob, path); err == nil && ok {
		return true
	}
	if !m.wildcard {
		return false
	}
	ok, err := doublestar.Match(m.glob+"/**", strings.TrimSuffix(path, "/"))
	return err == nil && ok
}

func (m Matcher) matchRegex(path string) (Params, bool) {
	match := m.re.FindStringSubmatch(path)
	if match == nil {
		return nil, false
	}
	params := Params{}
	for i, name := range m.re.SubexpNames() {
		if i > 0 && name != "" {
			params[name] = match[i]
		}
	}
	return params, true
}

func (m Matcher) matchSegments(path string) (Params, bool) {
	parts := splitPath(path)
	if len(parts) < len(m.segments) || (!m.wildcard && len(parts) != len(m.segments)) {
		return nil, false
	}

	params := Params{}
	for i, seg := range m.segments {
		if seg.param == "" {
			if seg.literal != parts[i] {
				return nil, false
			}
			continue
		}
		if parts[i] == "" {
			return nil, false
		}
		params[seg.param] = parts[i]
	}
	if m.wildcard {
		params[WildcardParam] = strings.Join(parts[len(m.segments):], "/")
	}
	return params, true
}

// trimWildcard strips a trailing "*" or "/*" and reports whether it was there.
// "**" is left alone for the glob matcher.
func trimWildcard(pattern string) (string, bool) {
	if strings.HasSuffix(pattern, "**") || !strings.HasSuffix(pattern, "*") {
		return pattern, false
	}
	body := strings.TrimSuffix(pattern, "*")
	body = strings.TrimSuffix(body, "/")
	return body, true
}

func isGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[")
}

// splitPath splits a path into segments ignoring leading and trailing slashes.
// The root path yields no segments.
func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

func parseSegment(part string) (segment, error) {
	switch {
	case strings.HasPrefix(part, ":"):
		name := part[1:]
		if name == "" {
			return segment{}, errors.New("empty param name")
		}
		return segment{param: name}, nil
	case strings.HasPrefix(part, "{") && strings.HasSuffix(part, "}"):
		name := part[1 : len(part)-1]
		if name == "" {
			return segment{}, errors.New("empty param name")
		}
		return segment{param: name}, nil
	case strings.ContainsAny(part, "{}"):
		return segment{}, fmt.Errorf("unbalanced braces in segment %q", part)
	default:
		return segment{literal: part}, nil
	}
}
