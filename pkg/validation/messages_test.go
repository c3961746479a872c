package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func fptr(f float64) *float64 { return &f }

func TestRender(t *testing.T) {
	tests := []struct {
		name string
		kind ErrorKind
		ctx  Context
		want string
	}{
		{"mandatory", MandatoryField, Context{}, "f is mandatory"},
		{"empty", EmptyField, Context{}, "f should not be empty"},
		{"datatype", Datatype, Context{DataType: "mobile"}, "f should be of type mobile"},
		{"pattern", Pattern, Context{Regex: `^\d+$`}, `f should match the pattern ^\d+$`},
		{"between", MinMax, Context{Min: fptr(1), Max: fptr(2.5)}, "f should be in between 1 and 2.5"},
		{"min only", MinMax, Context{Min: fptr(18)}, "f should be in greater than or equal to 18"},
		{"max only", MinMax, Context{Max: fptr(-3)}, "f should be in less than or equal to -3"},
		{"length", Length, Context{Length: 6}, "f should be of length 6"},
		{"allowed", AllowedValue, Context{AllowedValues: []any{"a", 2.0, true, nil}}, "f should be one of [a, 2, true, null]"},
		{"array elem", ArrayDatatype, Context{Elem: "bool"}, "f should be an array of bool"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Render(tt.kind, "f", tt.ctx))
		})
	}
}

func TestErrorKind_Order(t *testing.T) {
	order := []ErrorKind{MandatoryField, EmptyField, Datatype, Pattern, MinMax, Length, AllowedValue, ArrayDatatype, Custom}
	for i := 1; i < len(order); i++ {
		assert.Less(t, order[i-1], order[i])
	}
	assert.Equal(t, 1, int(MandatoryField))
	assert.Equal(t, "mandatory_field", MandatoryField.String())
	assert.Equal(t, "array_datatype", ArrayDatatype.String())
	assert.Equal(t, "kind(42)", ErrorKind(42).String())
}
