package validation

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/reqguard/pkg/checks"
	"github.com/getmockd/reqguard/pkg/schema"
)

const engineSchema = `
/api/login:
  username: { required: true, dataType: string }
  password: { required: true, dataType: string }
/api/users/:id:
  id: { required: true, regex: '^\d+$' }
  age: { dataType: int, min: 18 }
/api/users/*:
  token: { required: true }
`

func newEngine(t testing.TB, src string, opts ...Option) *Engine {
	t.Helper()
	doc, err := schema.Parse([]byte(src))
	require.NoError(t, err)
	e, err := NewFromDocument(doc, opts...)
	require.NoError(t, err)
	return e
}

func TestEngine_ResolvesRoutes(t *testing.T) {
	e := newEngine(t, `{"/api/login": {"username": {"required": true}}}`)

	route, _, ok := e.Match("/api/login")
	require.True(t, ok)
	assert.Equal(t, "/api/login", route.Pattern)
	require.Len(t, route.Tree, 1)
	assert.Equal(t, "username", route.Tree[0].Name)

	_, _, ok = e.Match("/api/unknown")
	assert.False(t, ok)

	_, err := e.Check("/api/unknown", Input{})
	assert.ErrorIs(t, err, ErrRouteNotFound)
}

func TestEngine_Check(t *testing.T) {
	e := newEngine(t, engineSchema)

	f, err := e.Check("/api/login", Input{"username": "a", "password": ""})
	require.NoError(t, err)
	require.NotNil(t, f)
	assert.Equal(t, "password should not be empty", f.Message)

	f, err = e.Check("/api/login", Input{"username": "a", "password": "b"})
	require.NoError(t, err)
	assert.Nil(t, f)
}

func TestEngine_Check_UsesPathParams(t *testing.T) {
	e := newEngine(t, engineSchema)

	input := Input{"age": 30.0}
	f, err := e.Check("/api/users/42", input)
	require.NoError(t, err)
	assert.Nil(t, f)
	assert.Equal(t, Input{"age": 30.0}, input)

	f, err = e.Check("/api/users/abc", Input{"age": 30.0})
	require.NoError(t, err)
	require.NotNil(t, f)
	assert.Equal(t, "id", f.Field)

	// path params win over input keys
	f, err = e.Check("/api/users/42", Input{"id": "abc", "age": 30.0})
	require.NoError(t, err)
	assert.Nil(t, f)
}

func TestEngine_FirstRouteWins(t *testing.T) {
	e := newEngine(t, engineSchema)

	route, params, ok := e.Match("/api/users/42")
	require.True(t, ok)
	assert.Equal(t, "/api/users/:id", route.Pattern)
	assert.Equal(t, map[string]string{"id": "42"}, params)

	route, _, ok = e.Match("/api/users/42/orders")
	require.True(t, ok)
	assert.Equal(t, "/api/users/*", route.Pattern)
}

func TestEngine_ParamsFeedRules(t *testing.T) {
	e := newEngine(t, engineSchema)

	route, params, ok := e.Match("/api/users/abc")
	require.True(t, ok)
	f := e.Validate(route, MergeInput(map[string]any{"id": "7"}, nil, params))
	require.NotNil(t, f)
	assert.Equal(t, Pattern, f.Kind)
	assert.Equal(t, "id", f.Field)
}

func TestEngine_RoutesInOrder(t *testing.T) {
	e := newEngine(t, engineSchema)
	routes := e.Routes()
	require.Len(t, routes, 3)
	assert.Equal(t, "/api/login", routes[0].Pattern)
	assert.Equal(t, "/api/users/:id", routes[1].Pattern)
	assert.Equal(t, "/api/users/*", routes[2].Pattern)
	assert.Len(t, routes[1].Checks, 2)
}

func TestEngine_CustomChecks(t *testing.T) {
	same, err := NewExprCheck("password != username", "password must differ from username")
	require.NoError(t, err)
	e := newEngine(t, engineSchema, WithCustomChecks(same))

	f, err := e.Check("/api/login", Input{"username": "x", "password": "x"})
	require.NoError(t, err)
	require.NotNil(t, f)
	assert.Equal(t, Custom, f.Kind)
	assert.Equal(t, "password must differ from username", f.Message)
}

func TestEngine_MobileLocaleProvider(t *testing.T) {
	src := `{"/otp": {"phone": {"required": true, "dataType": "mobile"}}}`
	e := newEngine(t, src, WithProvider(checks.New(checks.WithMobileLocale("en-IN"))))

	f, err := e.Check("/otp", Input{"phone": "9876543210"})
	require.NoError(t, err)
	assert.Nil(t, f)

	f, err = e.Check("/otp", Input{"phone": "1234"})
	require.NoError(t, err)
	require.NotNil(t, f)
	assert.Equal(t, "phone should be of type mobile", f.Message)
}

func TestNew_RejectsInvalidSchemas(t *testing.T) {
	doc, err := schema.Parse([]byte(`{"/a": {"x": {"required": "yes", "color": "red"}}}`))
	require.NoError(t, err)
	_, err = NewFromDocument(doc)

	var invalid *schema.InvalidSchemaError
	require.True(t, errors.As(err, &invalid))
	assert.Len(t, invalid.Errors, 2)

	_, err = New(schema.Schema{{Pattern: "/a", Tree: schema.RuleTree{{Name: "x"}}}})
	assert.True(t, errors.As(err, &invalid))

	_, err = New(schema.Schema{{Pattern: "^/a/(", Tree: schema.RuleTree{{Name: "x", Rule: &schema.Rule{Required: true}}}}})
	assert.Error(t, err)
}

func TestEngine_ConcurrentChecks(t *testing.T) {
	e := newEngine(t, engineSchema)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				input := Input{"username": "u", "password": ""}
				if (i+j)%2 == 0 {
					input["password"] = "p"
				}
				f, err := e.Check("/api/login", input)
				assert.NoError(t, err)
				assert.Equal(t, (i+j)%2 != 0, f != nil)
			}
		}(i)
	}
	wg.Wait()
}
