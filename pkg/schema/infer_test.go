package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/getmockd/reqguard/pkg/checks"
	"github.com/getmockd/reqguard/pkg/logging"
)

func inferRoute(t *testing.T, pattern string, samples ...map[string]any) *Object {
	t.Helper()
	doc := Infer(samples, pattern, checks.New(), logging.Nop())
	require.Equal(t, 1, doc.Len())
	tree, ok := doc.Get(pattern)
	require.True(t, ok)
	return tree.(*Object)
}

func ruleOf(t *testing.T, tree *Object, name string) *Object {
	t.Helper()
	v, ok := tree.Get(name)
	require.True(t, ok, "field %q missing", name)
	return v.(*Object)
}

func TestInfer_TypesAndRequired(t *testing.T) {
	tree := inferRoute(t, "/api/users",
		map[string]any{
			"name": "ana", "age": 30.0, "score": 1.5, "active": true,
			"email": "ana@example.com", "born": "1990-04-01",
			"tags": []any{"a", "b"}, "nickname": "an",
		},
		map[string]any{
			"name": "bob", "age": 41.0, "score": 2.0, "active": false,
			"email": "bob@example.com", "born": "1985-12-24",
			"tags": []any{"c"}, "nickname": nil,
		},
	)

	assert.Equal(t, []string{"active", "age", "born", "email", "name", "nickname", "score", "tags"}, tree.Keys())

	tests := []struct {
		field    string
		dataType string
		required bool
	}{
		{"active", "bool", true},
		{"age", "int", true},
		{"born", "date", true},
		{"email", "email", true},
		{"name", "string", true},
		{"nickname", "string", false},
		{"score", "float", true},
		{"tags", "array+string", true},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			rule := ruleOf(t, tree, tt.field)
			dt, _ := rule.Get(KeyDataType)
			req, _ := rule.Get(KeyRequired)
			assert.Equal(t, tt.dataType, dt)
			assert.Equal(t, tt.required, req)
		})
	}

	age := ruleOf(t, tree, "age")
	lo, _ := age.Get(KeyMin)
	hi, _ := age.Get(KeyMax)
	assert.Equal(t, 30.0, lo)
	assert.Equal(t, 41.0, hi)
}

func TestInfer_MixedTypesHaveNoDataType(t *testing.T) {
	tree := inferRoute(t, "/x",
		map[string]any{"v": "text"},
		map[string]any{"v": 3.0},
	)
	rule := ruleOf(t, tree, "v")
	_, ok := rule.Get(KeyDataType)
	assert.False(t, ok)
}

func TestInfer_NestedObjects(t *testing.T) {
	tree := inferRoute(t, "/orders",
		map[string]any{"address": map[string]any{"zip": "12345", "city": "Lyon"}},
		map[string]any{"address": map[string]any{"zip": "67890"}},
	)

	address, ok := tree.Get("address")
	require.True(t, ok)
	nested := address.(*Object)
	assert.Equal(t, []string{"city", "zip"}, nested.Keys())

	city := ruleOf(t, nested, "city")
	req, _ := city.Get(KeyRequired)
	assert.Equal(t, false, req)

	// A nested tree is not mistaken for a rule
	assert.False(t, IsRuleNode(nested))
}

func TestInfer_RouteParams(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		samples []map[string]any
		param   string
		regex   string
	}{
		{"numeric", "/users/:id", []map[string]any{{"id": "42"}, {"id": "7"}}, "id", `^\d+$`},
		{"prefixed", "/orders/{orderId}", []map[string]any{{"orderId": "ord-1"}, {"orderId": "ord-22"}}, "orderId", `^ord-\d+$`},
		{"uuid", "/items/:id", []map[string]any{{"id": "550e8400-e29b-41d4-a716-446655440000"}}, "id", uuidPattern.String()},
		{"no samples", "/users/:id", []map[string]any{{}}, "id", defaultParamRegex},
		{"mixed prefixes", "/x/:ref", []map[string]any{{"ref": "a-1"}, {"ref": "b-2"}}, "ref", defaultParamRegex},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := inferRoute(t, tt.pattern, tt.samples...)
			rule := ruleOf(t, tree, tt.param)
			req, _ := rule.Get(KeyRequired)
			regex, _ := rule.Get(KeyRegex)
			assert.Equal(t, true, req)
			assert.Equal(t, tt.regex, regex)
		})
	}
}

func TestInfer_ResultIsAValidSchema(t *testing.T) {
	doc := Infer([]map[string]any{
		{"id": "9", "name": "ana", "tags": []any{1.0, 2.0}, "meta": map[string]any{"ok": true}},
		{"id": "10", "name": "bob", "tags": []any{}},
	}, "/api/users/:id", nil, nil)

	result := Validate(doc)
	assert.True(t, result.Valid, "%v", result.Errors)

	_, err := Build(doc)
	assert.NoError(t, err)
}

func TestObject_MarshalKeepsOrder(t *testing.T) {
	doc := NewObject(
		"/b", NewObject("z", NewObject(KeyRequired, true)),
		"/a", NewObject("y", NewObject(KeyDataType, "int", KeyMin, 1.5)),
	)

	data, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.Equal(t, `{"/b":{"z":{"required":true}},"/a":{"y":{"dataType":"int","min":1.5}}}`, string(data))

	out, err := yaml.Marshal(doc)
	require.NoError(t, err)
	back, err := Parse(out)
	require.NoError(t, err)
	assert.Equal(t, []string{"/b", "/a"}, back.Keys())
	assert.Equal(t, doc.Plain(), back.Plain())
}
