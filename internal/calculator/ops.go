package calculator

import (
	"errors"
	"fmt"
	"math"
)

// ErrUnknownOperation is returned when an operation name is not one of the
// four supported operations.
var ErrUnknownOperation = errors.New("unknown operation")

// ErrNonFiniteResult is returned by Apply when an operation overflows to
// ±Inf or produces NaN.
var ErrNonFiniteResult = errors.New("result is not a finite number")

// Op names a binary calculator operation.
type Op string

const (
	OpAdd      Op = "add"
	OpSubtract Op = "subtract"
	OpMultiply Op = "multiply"
	OpDivide   Op = "divide"
)

// Ops lists the supported operations in a stable order.
var Ops = []Op{OpAdd, OpSubtract, OpMultiply, OpDivide}

// ParseOp validates name and returns it as an Op.
func ParseOp(name string) (Op, error) {
	op := Op(name)
	switch op {
	case OpAdd, OpSubtract, OpMultiply, OpDivide:
		return op, nil
	}
	return "", fmt.Errorf("%w %q", ErrUnknownOperation, name)
}

// Apply runs op on a and b. A result outside the float64 range is reported
// as ErrNonFiniteResult instead of being returned as ±Inf.
func (c Calculator) Apply(op Op, a, b float64) (float64, error) {
	result, err := c.apply(op, a, b)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(result) || math.IsInf(result, 0) {
		return 0, fmt.Errorf("%w: %s(%g, %g)", ErrNonFiniteResult, op, a, b)
	}
	return result, nil
}

func (c Calculator) apply(op Op, a, b float64) (float64, error) {
	switch op {
	case OpAdd:
		return c.Add(a, b), nil
	case OpSubtract:
		return c.Subtract(a, b), nil
	case OpMultiply:
		return c.Multiply(a, b), nil
	case OpDivide:
		return c.Divide(a, b)
	}
	return 0, fmt.Errorf("%w %q", ErrUnknownOperation, string(op))
}
