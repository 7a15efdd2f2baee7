package calculator

import (
	"errors"
	"math"
	"testing"
)

func TestBasicOperations(t *testing.T) {
	calc := New()

	if got := calc.Add(2, 3); got != 5 {
		t.Fatalf("Add(2, 3) = %g; want 5", got)
	}
	if got := calc.Subtract(5, 3); got != 2 {
		t.Fatalf("Subtract(5, 3) = %g; want 2", got)
	}
	if got := calc.Multiply(4, 3); got != 12 {
		t.Fatalf("Multiply(4, 3) = %g; want 12", got)
	}

	got, err := calc.Divide(6, 2)
	if err != nil {
		t.Fatalf("Divide(6, 2) returned error: %v", err)
	}
	if got != 3 {
		t.Fatalf("Divide(6, 2) = %g; want 3", got)
	}
}

func TestDivideByZero(t *testing.T) {
	var calc Calculator

	for _, a := range []float64{6, 0, -1, math.MaxFloat64, math.SmallestNonzeroFloat64} {
		got, err := calc.Divide(a, 0)
		if !errors.Is(err, ErrDivisionByZero) {
			t.Fatalf("Divide(%g, 0): expected ErrDivisionByZero, got %v", a, err)
		}
		if got != 0 {
			t.Fatalf("Divide(%g, 0): expected no value, got %g", a, got)
		}
	}

	_, err := calc.Divide(6, 0)
	if err.Error() != "division by zero is not allowed" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestDivideByNegativeZero(t *testing.T) {
	if _, err := New().Divide(1, math.Copysign(0, -1)); !errors.Is(err, ErrDivisionByZero) {
		t.Fatalf("expected ErrDivisionByZero for -0 divisor, got %v", err)
	}
}

var samples = []float64{0, 1, -1, 2.5, -7.25, 1e-9, 3e12, math.Pi}

func TestAlgebraicProperties(t *testing.T) {
	calc := New()

	for _, a := range samples {
		if got := calc.Add(a, 0); got != a {
			t.Fatalf("Add(%g, 0) = %g", a, got)
		}
		if got := calc.Subtract(a, 0); got != a {
			t.Fatalf("Subtract(%g, 0) = %g", a, got)
		}

		for _, b := range samples {
			if calc.Add(a, b) != calc.Add(b, a) {
				t.Fatalf("Add not commutative for %g, %g", a, b)
			}
			if calc.Multiply(a, b) != calc.Multiply(b, a) {
				t.Fatalf("Multiply not commutative for %g, %g", a, b)
			}

			if b == 0 {
				continue
			}
			got, err := calc.Divide(calc.Multiply(a, b), b)
			if err != nil {
				t.Fatalf("Divide(Multiply(%g, %g), %g): %v", a, b, b, err)
			}
			if !approxEqual(got, a) {
				t.Fatalf("Divide(Multiply(%g, %g), %g) = %g; want %g", a, b, b, got, a)
			}
		}
	}
}

func TestApply(t *testing.T) {
	tests := []struct {
		op      Op
		a, b    float64
		want    float64
		wantErr error
	}{
		{op: OpAdd, a: 2, b: 3, want: 5},
		{op: OpSubtract, a: 5, b: 3, want: 2},
		{op: OpMultiply, a: 4, b: 3, want: 12},
		{op: OpDivide, a: 6, b: 2, want: 3},
		{op: OpDivide, a: 6, b: 0, wantErr: ErrDivisionByZero},
		{op: Op("modulo"), a: 6, b: 4, wantErr: ErrUnknownOperation},
		{op: OpMultiply, a: 1e308, b: 10, wantErr: ErrNonFiniteResult},
		{op: OpAdd, a: math.MaxFloat64, b: math.MaxFloat64, wantErr: ErrNonFiniteResult},
		{op: OpDivide, a: -1e308, b: 1e-10, wantErr: ErrNonFiniteResult},
	}

	for _, tc := range tests {
		t.Run(string(tc.op), func(t *testing.T) {
			got, err := New().Apply(tc.op, tc.a, tc.b)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %g, got %g", tc.want, got)
			}
		})
	}
}

func TestParseOp(t *testing.T) {
	for _, op := range Ops {
		got, err := ParseOp(string(op))
		if err != nil || got != op {
			t.Fatalf("ParseOp(%q) = %q, %v", op, got, err)
		}
	}

	if _, err := ParseOp("power"); !errors.Is(err, ErrUnknownOperation) {
		t.Fatalf("expected ErrUnknownOperation, got %v", err)
	}
}

func TestChain(t *testing.T) {
	calc := New()

	results, err := calc.Chain(10, []Step{
		{Op: OpAdd, Value: 5},
		{Op: OpMultiply, Value: 2},
		{Op: OpSubtract, Value: 6},
		{Op: OpDivide, Value: 4},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []float64{15, 30, 24, 6}
	if len(results) != len(want) {
		t.Fatalf("expected %d results, got %d", len(want), len(results))
	}
	for i, r := range results {
		if r.Result != want[i] {
			t.Fatalf("step %d: expected %g, got %g", i, want[i], r.Result)
		}
	}
}

func TestChainStopsAtFailingStep(t *testing.T) {
	results, err := New().Chain(1, []Step{
		{Op: OpAdd, Value: 1},
		{Op: OpDivide, Value: 0},
		{Op: OpAdd, Value: 100},
	})

	var stepErr *StepError
	if !errors.As(err, &stepErr) {
		t.Fatalf("expected *StepError, got %v", err)
	}
	if stepErr.Index != 1 || stepErr.Op != OpDivide {
		t.Fatalf("expected failure at step 1 (divide), got %d (%s)", stepErr.Index, stepErr.Op)
	}
	if !errors.Is(err, ErrDivisionByZero) {
		t.Fatalf("expected error to unwrap to ErrDivisionByZero, got %v", err)
	}
	if len(results) != 1 || results[0].Result != 2 {
		t.Fatalf("expected one completed step with result 2, got %+v", results)
	}
}

func approxEqual(a, b float64) bool {
	const tolerance = 1e-9
	if a == b {
		return true
	}
	scale := math.Max(math.Abs(a), math.Abs(b))
	return math.Abs(a-b) <= tolerance*scale
}

func TestChainStopsOnOverflow(t *testing.T) {
	results, err := New().Chain(1e300, []Step{
		{Op: OpMultiply, Value: 1e5},
		{Op: OpMultiply, Value: 1e5},
		{Op: OpSubtract, Value: 1},
	})

	var stepErr *StepError
	if !errors.As(err, &stepErr) || stepErr.Index != 1 {
		t.Fatalf("expected failure at step 1, got %v", err)
	}
	if !errors.Is(err, ErrNonFiniteResult) {
		t.Fatalf("expected ErrNonFiniteResult, got %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected one completed step, got %+v", results)
	}
}
