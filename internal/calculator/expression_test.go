package calculator

import (
	"errors"
	"testing"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name   string
		expr   string
		params map[string]float64
		want   float64
	}{
		{name: "precedence", expr: "2 + 3 * 4", want: 14},
		{name: "parentheses", expr: "(2 + 3) * 4", want: 20},
		{name: "divide function", expr: "divide(6, 2)", want: 3},
		{name: "nested functions", expr: "multiply(add(a, b), 2)", params: map[string]float64{"a": 1, "b": 2}, want: 6},
		{name: "variables", expr: "price * qty - discount", params: map[string]float64{"price": 2.5, "qty": 4, "discount": 1}, want: 9},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := New().Evaluate(tc.expr, tc.params)
			if err != nil {
				t.Fatalf("Evaluate(%q): %v", tc.expr, err)
			}
			if got != tc.want {
				t.Fatalf("Evaluate(%q) = %g; want %g", tc.expr, got, tc.want)
			}
		})
	}
}

func TestEvaluateErrors(t *testing.T) {
	tests := []struct {
		name    string
		expr    string
		params  map[string]float64
		wantErr error
	}{
		{name: "divide by zero literal", expr: "divide(6, 0)", wantErr: ErrDivisionByZero},
		{name: "divide by zero variable", expr: "1 + divide(x, y)", params: map[string]float64{"x": 0, "y": 0}, wantErr: ErrDivisionByZero},
		{name: "slash operator", expr: "6 / 2", wantErr: ErrUnsupportedOperator},
		{name: "modulo operator", expr: "6 % 4", wantErr: ErrUnsupportedOperator},
		{name: "syntax", expr: "2 +", wantErr: ErrInvalidExpression},
		{name: "boolean result", expr: "1 > 0", wantErr: ErrInvalidExpression},
		{name: "missing variable", expr: "a + 1", wantErr: ErrInvalidExpression},
		{name: "wrong arity", expr: "add(1)", wantErr: ErrInvalidExpression},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New().Evaluate(tc.expr, tc.params)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("Evaluate(%q): expected %v, got %v", tc.expr, tc.wantErr, err)
			}
		})
	}
}
