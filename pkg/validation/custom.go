package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// CustomCheck validates the whole input after every schema check passed.
// A non-nil error rejects the request with the error text as message.
type CustomCheck interface {
	Check(input Input) error
}

// CheckFunc adapts a function to the CustomCheck interface.
type CheckFunc func(input Input) error

// Check calls f(input).
func (f CheckFunc) Check(input Input) error {
	return f(input)
}

// ExprCheck is a CustomCheck backed by an expr-lang boolean expression
// evaluated against the input map, e.g. `password != username`.
type ExprCheck struct {
	expression string
	message    string
	program    *vm.Program
}

// NewExprCheck compiles expression once. Variables missing from the input
// evaluate to nil.
func NewExprCheck(expression, message string) (*ExprCheck, error) {
	if strings.TrimSpace(expression) == "" {
		return nil, errors.New("empty check expression")
	}
	if message == "" {
		message = "check failed: " + expression
	}
	program, err := expr.Compile(expression, expr.AsBool(), expr.AllowUndefinedVariables())
	if err != nil {
		return nil, fmt.Errorf("compile %q: %w", expression, err)
	}
	return &ExprCheck{expression: expression, message: message, program: program}, nil
}

// ParseExprCheck parses the "expression=>message" form used on the command line.
// Without "=>" a default message is derived from the expression.
func ParseExprCheck(s string) (*ExprCheck, error) {
	expression, message, _ := strings.Cut(s, "=>")
	return NewExprCheck(strings.TrimSpace(expression), strings.TrimSpace(message))
}

// Expression returns the source expression.
func (c *ExprCheck) Expression() string { return c.expression }

// Check implements CustomCheck. Evaluation errors reject the input too.
func (c *ExprCheck) Check(input Input) error {
	out, err := expr.Run(c.program, map[string]any(input))
	if err != nil {
		return fmt.Errorf("%s: %w", c.message, err)
	}
	if ok, _ := out.(bool); !ok {
		return errors.New(c.message)
	}
	return nil
}
