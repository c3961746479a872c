package validation

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeInput_Precedence(t *testing.T) {
	input := MergeInput(
		map[string]any{"id": 1.0, "name": "body"},
		map[string]any{"id": "2", "page": "1"},
		map[string]string{"id": "3"},
	)

	assert.Equal(t, "3", input["id"])
	assert.Equal(t, "body", input["name"])
	assert.Equal(t, "1", input["page"])
}

func TestMergeInput_NilLayers(t *testing.T) {
	assert.Empty(t, MergeInput(nil, nil, nil))
	assert.Equal(t, Input{"q": "x"}, MergeInput(nil, map[string]any{"q": "x"}, nil))
}

func TestQueryValues(t *testing.T) {
	values := url.Values{
		"single": {"a"},
		"multi":  {"a", "b"},
		"none":   {},
	}

	got := QueryValues(values)
	assert.Equal(t, map[string]any{
		"single": "a",
		"multi":  []any{"a", "b"},
	}, got)
	assert.Nil(t, QueryValues(nil))
}
