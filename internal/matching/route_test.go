package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatcher_Match(t *testing.T) {
	tests := []struct {
		name       string
		pattern    string
		path       string
		wantMatch  bool
		wantParams Params
	}{
		{
			name:       "literal match",
			pattern:    "/api/login",
			path:       "/api/login",
			wantMatch:  true,
			wantParams: Params{},
		},
		{
			name:       "literal ignores trailing slash",
			pattern:    "/api/login",
			path:       "/api/login/",
			wantMatch:  true,
			wantParams: Params{},
		},
		{
			name:      "literal mismatch",
			pattern:   "/api/login",
			path:      "/api/unknown",
			wantMatch: false,
		},
		{
			name:       "root",
			pattern:    "/",
			path:       "/",
			wantMatch:  true,
			wantParams: Params{},
		},
		{
			name:       "colon param",
			pattern:    "/api/users/:id",
			path:       "/api/users/42",
			wantMatch:  true,
			wantParams: Params{"id": "42"},
		},
		{
			name:       "brace params",
			pattern:    "/api/{resource}/{id}",
			path:       "/api/orders/7",
			wantMatch:  true,
			wantParams: Params{"resource": "orders", "id": "7"},
		},
		{
			name:      "param needs a segment",
			pattern:   "/api/users/:id",
			path:      "/api/users",
			wantMatch: false,
		},
		{
			name:      "param rejects extra segments",
			pattern:   "/api/users/:id",
			path:      "/api/users/42/orders",
			wantMatch: false,
		},
		{
			name:      "param rejects empty segment",
			pattern:   "/api/:a/x",
			path:      "/api//x",
			wantMatch: false,
		},
		{
			name:       "trailing wildcard matches below",
			pattern:    "/api/files/*",
			path:       "/api/files/a/b.txt",
			wantMatch:  true,
			wantParams: Params{WildcardParam: "a/b.txt"},
		},
		{
			name:       "trailing wildcard matches prefix itself",
			pattern:    "/api/files/*",
			path:       "/api/files",
			wantMatch:  true,
			wantParams: Params{WildcardParam: ""},
		},
		{
			name:       "trailing wildcard with params",
			pattern:    "/api/:tenant/*",
			path:       "/api/acme/x/y",
			wantMatch:  true,
			wantParams: Params{"tenant": "acme", WildcardParam: "x/y"},
		},
		{
			name:      "trailing wildcard needs prefix",
			pattern:   "/api/files/*",
			path:      "/api/filesystem",
			wantMatch: false,
		},
		{
			name:       "double star glob",
			pattern:    "/api/**/export",
			path:       "/api/reports/2024/q1/export",
			wantMatch:  true,
			wantParams: Params{},
		},
		{
			name:       "single star segment glob",
			pattern:    "/api/*/items",
			path:       "/api/users/items",
			wantMatch:  true,
			wantParams: Params{},
		},
		{
			name:      "single star does not cross segments",
			pattern:   "/api/*/items",
			path:      "/api/a/b/items",
			wantMatch: false,
		},
		{
			name:       "glob with trailing wildcard matches below",
			pattern:    "/api/*/files/*",
			path:       "/api/x/files/a/b",
			wantMatch:  true,
			wantParams: Params{},
		},
		{
			name:       "glob with trailing wildcard matches prefix itself",
			pattern:    "/api/*/files/*",
			path:       "/api/x/files",
			wantMatch:  true,
			wantParams: Params{},
		},
		{
			name:      "glob with trailing wildcard needs prefix",
			pattern:   "/api/*/files/*",
			path:      "/api/x/filesystem",
			wantMatch: false,
		},
		{
			name:       "regex with named groups",
			pattern:    `^/api/v(?P<version>\d+)/users/(?P<id>\d+)$`,
			path:       "/api/v2/users/99",
			wantMatch:  true,
			wantParams: Params{"version": "2", "id": "99"},
		},
		{
			name:      "regex mismatch",
			pattern:   `^/api/users/\d+$`,
			path:      "/api/users/abc",
			wantMatch: false,
		},
		{
			name:      "regex matches the whole path",
			pattern:   `^/api/login`,
			path:      "/api/login/admin",
			wantMatch: false,
		},
		{
			name:       "regex without dollar still matches exactly",
			pattern:    `^/api/login`,
			path:       "/api/login",
			wantMatch:  true,
			wantParams: Params{},
		},
		{
			name:       "regex alternation is anchored as a whole",
			pattern:    `^/a|/b`,
			path:       "/b",
			wantMatch:  true,
			wantParams: Params{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := CompileRoute(tt.pattern)
			require.NoError(t, err)
			assert.Equal(t, tt.pattern, m.Pattern())

			params, ok := m.Match(tt.path)
			assert.Equal(t, tt.wantMatch, ok)
			if tt.wantMatch {
				assert.Equal(t, tt.wantParams, params)
			} else {
				assert.Nil(t, params)
			}
		})
	}
}

func TestCompileRoute_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
	}{
		{"empty", ""},
		{"bad regex", "^/api/(["},
		{"empty colon param", "/api/:/x"},
		{"empty brace param", "/api/{}/x"},
		{"unbalanced brace", "/api/{id/x"},
		{"duplicate param", "/api/:id/:id"},
		{"malformed glob", "/api/**/[abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CompileRoute(tt.pattern)
			assert.ErrorIs(t, err, ErrInvalidPattern)
		})
	}
}

func TestMatcher_ZeroValue(t *testing.T) {
	var m Matcher
	_, ok := m.Match("/anything")
	assert.False(t, ok)
}

func TestMustCompileRoute_Panics(t *testing.T) {
	assert.Panics(t, func() { MustCompileRoute("") })
	assert.NotPanics(t, func() { MustCompileRoute("/ok") })
}
