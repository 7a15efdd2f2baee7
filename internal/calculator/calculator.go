// Package calculator implements float64 arithmetic with guarded division and
// exposes it over HTTP with tracing, metrics and structured logging.
package calculator

import "errors"

// ErrDivisionByZero is returned by Divide when the divisor is zero.
var ErrDivisionByZero = errors.New("division by zero is not allowed")

// Calculator performs the four elementary operations. It holds no state, so
// the zero value is ready to use and a single value may be shared freely.
type Calculator struct{}

// New returns a Calculator.
func New() Calculator {
	return Calculator{}
}

// Add returns a + b.
func (Calculator) Add(a, b float64) float64 {
	return a + b
}

// Subtract returns a - b.
func (Calculator) Subtract(a, b float64) float64 {
	return a - b
}

// Multiply returns a * b.
func (Calculator) Multiply(a, b float64) float64 {
	return a * b
}

// Divide returns a / b, or ErrDivisionByZero when b is zero.
func (Calculator) Divide(a, b float64) (float64, error) {
	if b == 0 {
		return 0, ErrDivisionByZero
	}
	return a / b, nil
}
