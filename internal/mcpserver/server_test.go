package mcpserver

import (
	"context"
	"testing"

	"calc-harness/internal/calculator"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRequest(args map[string]interface{}) mcp.CallToolRequest {
	request := mcp.CallToolRequest{}
	request.Params.Arguments = args
	return request
}

func getTextContent(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)
	tc, ok := mcp.AsTextContent(result.Content[0])
	require.True(t, ok, "expected text content")
	return tc.Text
}

func TestBinaryTools(t *testing.T) {
	s := New("test", calculator.New(), nil)
	ctx := context.Background()

	tests := []struct {
		op   calculator.Op
		a, b float64
		want string
	}{
		{op: calculator.OpAdd, a: 2, b: 3, want: "5"},
		{op: calculator.OpSubtract, a: 2, b: 3, want: "-1"},
		{op: calculator.OpMultiply, a: 2.5, b: 4, want: "10"},
		{op: calculator.OpDivide, a: 1, b: 4, want: "0.25"},
	}

	for _, tc := range tests {
		t.Run(string(tc.op), func(t *testing.T) {
			result, err := s.Binary(tc.op)(ctx, newRequest(map[string]interface{}{"a": tc.a, "b": tc.b}))
			require.NoError(t, err)
			assert.False(t, result.IsError)
			assert.Equal(t, tc.want, getTextContent(t, result))
		})
	}
}

func TestDivideByZeroIsToolError(t *testing.T) {
	s := New("test", calculator.New(), nil)

	result, err := s.Binary(calculator.OpDivide)(context.Background(), newRequest(map[string]interface{}{"a": 1.0, "b": 0.0}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Equal(t, "Error: "+calculator.ErrDivisionByZero.Error(), getTextContent(t, result))
}

func TestBinaryBadArguments(t *testing.T) {
	s := New("test", calculator.New(), nil)
	ctx := context.Background()

	for name, args := range map[string]map[string]interface{}{
		"missing b":  {"a": 1.0},
		"string a":   {"a": "1", "b": 2.0},
		"no args":    nil,
		"bool value": {"a": true, "b": 2.0},
	} {
		t.Run(name, func(t *testing.T) {
			result, err := s.Binary(calculator.OpAdd)(ctx, newRequest(args))
			require.NoError(t, err)
			assert.True(t, result.IsError)
		})
	}
}

func TestChainTool(t *testing.T) {
	s := New("test", calculator.New(), nil)
	ctx := context.Background()

	steps := []interface{}{
		map[string]interface{}{"op": "add", "value": 5.0},
		map[string]interface{}{"op": "multiply", "value": 3.0},
		map[string]interface{}{"op": "subtract", "value": 1.0},
	}
	result, err := s.Chain(ctx, newRequest(map[string]interface{}{"initial": 1.0, "steps": steps}))
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Equal(t, "17", getTextContent(t, result))

	failing := []interface{}{
		map[string]interface{}{"op": "add", "value": 1.0},
		map[string]interface{}{"op": "divide", "value": 0.0},
	}
	result, err = s.Chain(ctx, newRequest(map[string]interface{}{"initial": 1.0, "steps": failing}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, getTextContent(t, result), "step 1 (divide)")

	unknown := []interface{}{map[string]interface{}{"op": "power", "value": 2.0}}
	result, err = s.Chain(ctx, newRequest(map[string]interface{}{"initial": 1.0, "steps": unknown}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, getTextContent(t, result), "unknown operation")
}

func TestEvaluateTool(t *testing.T) {
	s := New("test", calculator.New(), nil)
	ctx := context.Background()

	result, err := s.Evaluate(ctx, newRequest(map[string]interface{}{
		"expression": "multiply(x, 2) + 1",
		"params":     map[string]interface{}{"x": 4.0},
	}))
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.Equal(t, "9", getTextContent(t, result))

	result, err = s.Evaluate(ctx, newRequest(map[string]interface{}{"expression": "1 / 0"}))
	require.NoError(t, err)
	assert.True(t, result.IsError)

	result, err = s.Evaluate(ctx, newRequest(map[string]interface{}{"expression": "divide(1, 0)"}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, getTextContent(t, result), calculator.ErrDivisionByZero.Error())

	result, err = s.Evaluate(ctx, newRequest(map[string]interface{}{}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestOverflowIsToolError(t *testing.T) {
	s := New("test", calculator.New(), nil)
	ctx := context.Background()

	result, err := s.Binary(calculator.OpMultiply)(ctx, newRequest(map[string]interface{}{"a": 1e308, "b": 10.0}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, getTextContent(t, result), calculator.ErrNonFiniteResult.Error())

	steps := []interface{}{map[string]interface{}{"op": "multiply", "value": 10.0}}
	result, err = s.Chain(ctx, newRequest(map[string]interface{}{"initial": 1e308, "steps": steps}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.NotContains(t, getTextContent(t, result), "Inf")
}
