package calculator

import (
	"errors"
	"fmt"
	"math"

	"github.com/Knetic/govaluate"
)

var (
	// ErrUnsupportedOperator is returned for expressions using an operator
	// whose zero-divisor case cannot be reported, such as "/" or "%".
	// Division is written as divide(a, b).
	ErrUnsupportedOperator = errors.New("unsupported operator")

	// ErrInvalidExpression wraps parse and evaluation failures.
	ErrInvalidExpression = errors.New("invalid expression")
)

var rejectedModifiers = map[string]struct{}{
	"/": {},
	"%": {},
}

// Evaluate parses expr and evaluates it with params bound to variables.
// The functions add, subtract, multiply and divide are available and run
// through c, so divide(x, 0) fails with ErrDivisionByZero.
func (c Calculator) Evaluate(expr string, params map[string]float64) (float64, error) {
	// divide reports through the closure so the sentinel survives whatever
	// wrapping govaluate applies to function errors.
	var opErr error
	binary := func(op Op) govaluate.ExpressionFunction {
		return func(args ...interface{}) (interface{}, error) {
			a, b, err := twoNumbers(op, args)
			if err != nil {
				return nil, err
			}
			result, err := c.Apply(op, a, b)
			if err != nil {
				opErr = err
				return nil, err
			}
			return result, nil
		}
	}

	functions := make(map[string]govaluate.ExpressionFunction, len(Ops))
	for _, op := range Ops {
		functions[string(op)] = binary(op)
	}

	expression, err := govaluate.NewEvaluableExpressionWithFunctions(expr, functions)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidExpression, err)
	}

	for _, token := range expression.Tokens() {
		if token.Kind != govaluate.MODIFIER {
			continue
		}
		symbol, _ := token.Value.(string)
		if _, rejected := rejectedModifiers[symbol]; rejected {
			return 0, fmt.Errorf("%w %q, use divide(a, b)", ErrUnsupportedOperator, symbol)
		}
	}

	bound := make(map[string]interface{}, len(params))
	for name, v := range params {
		bound[name] = v
	}

	raw, err := expression.Evaluate(bound)
	if opErr != nil {
		return 0, opErr
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidExpression, err)
	}

	result, ok := raw.(float64)
	if !ok {
		return 0, fmt.Errorf("%w: result %v is not a number", ErrInvalidExpression, raw)
	}
	if math.IsNaN(result) || math.IsInf(result, 0) {
		return 0, fmt.Errorf("%w: result is not finite", ErrInvalidExpression)
	}

	return result, nil
}

func twoNumbers(op Op, args []interface{}) (float64, float64, error) {
	if len(args) != 2 {
		return 0, 0, fmt.Errorf("%s expects 2 arguments, got %d", op, len(args))
	}
	a, okA := args[0].(float64)
	b, okB := args[1].(float64)
	if !okA || !okB {
		return 0, 0, fmt.Errorf("%s expects numeric arguments", op)
	}
	return a, b, nil
}
