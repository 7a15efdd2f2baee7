// Package mcpserver exposes the calculator as Model Context Protocol tools.
package mcpserver

import (
	"context"
	"fmt"
	"strconv"

	"calc-harness/internal/calculator"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

const Name = "calc-harness"

// Server registers the calculator tools on an MCP server.
type Server struct {
	server *server.MCPServer
	calc   calculator.Calculator
	logger *zap.Logger
}

func New(version string, calc calculator.Calculator, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		server: server.NewMCPServer(Name, version),
		calc:   calc,
		logger: logger,
	}
	s.registerTools()
	return s
}

// MCP returns the underlying server, for ServeStdio.
func (s *Server) MCP() *server.MCPServer {
	return s.server
}

func (s *Server) registerTools() {
	descriptions := map[calculator.Op]string{
		calculator.OpAdd:      "Add b to a",
		calculator.OpSubtract: "Subtract b from a",
		calculator.OpMultiply: "Multiply a by b",
		calculator.OpDivide:   "Divide a by b; b must not be zero",
	}
	for _, op := range calculator.Ops {
		tool := mcp.NewTool(string(op),
			mcp.WithDescription(descriptions[op]),
			mcp.WithNumber("a",
				mcp.Required(),
				mcp.Description("First operand"),
			),
			mcp.WithNumber("b",
				mcp.Required(),
				mcp.Description("Second operand"),
			),
		)
		s.server.AddTool(tool, s.Binary(op))
	}

	chainTool := mcp.NewTool("chain",
		mcp.WithDescription("Apply operations in order to a running value"),
		mcp.WithNumber("initial",
			mcp.Required(),
			mcp.Description("Starting value"),
		),
		mcp.WithArray("steps",
			mcp.Required(),
			mcp.Description(`Steps as objects {"op": "add|subtract|multiply|divide", "value": number}`),
		),
	)
	s.server.AddTool(chainTool, s.Chain)

	evaluateTool := mcp.NewTool("evaluate",
		mcp.WithDescription("Evaluate an arithmetic expression. Use divide(a, b) instead of the / operator."),
		mcp.WithString("expression",
			mcp.Required(),
			mcp.Description("Expression such as 'multiply(x, 2) + 1'"),
		),
		mcp.WithObject("params",
			mcp.Description("Numeric values for the variables in the expression"),
		),
	)
	s.server.AddTool(evaluateTool, s.Evaluate)
}

func newErrorResult(format string, args ...any) *mcp.CallToolResult {
	result := mcp.NewToolResultText(fmt.Sprintf("Error: "+format, args...))
	result.IsError = true
	return result
}

func numberResult(v float64) *mcp.CallToolResult {
	return mcp.NewToolResultText(strconv.FormatFloat(v, 'g', -1, 64))
}

// Binary returns the handler for one of the four operation tools.
func (s *Server) Binary(op calculator.Op) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		a, err := number(request.Params.Arguments, "a")
		if err != nil {
			return newErrorResult("%v", err), nil
		}
		b, err := number(request.Params.Arguments, "b")
		if err != nil {
			return newErrorResult("%v", err), nil
		}

		result, err := s.calc.Apply(op, a, b)
		if err != nil {
			s.logger.Warn("tool call failed", zap.String("tool", string(op)), zap.Error(err))
			return newErrorResult("%v", err), nil
		}

		s.logger.Debug("tool call", zap.String("tool", string(op)), zap.Float64("a", a), zap.Float64("b", b), zap.Float64("result", result))
		return numberResult(result), nil
	}
}

func (s *Server) Chain(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	initial, err := number(request.Params.Arguments, "initial")
	if err != nil {
		return newErrorResult("%v", err), nil
	}
	steps, err := chainSteps(request.Params.Arguments)
	if err != nil {
		return newErrorResult("%v", err), nil
	}

	results, err := s.calc.Chain(initial, steps)
	if err != nil {
		s.logger.Warn("tool call failed", zap.String("tool", "chain"), zap.Error(err))
		return newErrorResult("%v", err), nil
	}

	final := initial
	if len(results) > 0 {
		final = results[len(results)-1].Result
	}
	return numberResult(final), nil
}

func (s *Server) Evaluate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	expr, ok := request.Params.Arguments["expression"].(string)
	if !ok || expr == "" {
		return newErrorResult("expression is required"), nil
	}

	params := map[string]float64{}
	if raw, ok := request.Params.Arguments["params"].(map[string]interface{}); ok {
		for name, v := range raw {
			f, ok := v.(float64)
			if !ok {
				return newErrorResult("param %q must be a number, got %T", name, v), nil
			}
			params[name] = f
		}
	}

	result, err := s.calc.Evaluate(expr, params)
	if err != nil {
		s.logger.Warn("tool call failed", zap.String("tool", "evaluate"), zap.String("expression", expr), zap.Error(err))
		return newErrorResult("%v", err), nil
	}
	return numberResult(result), nil
}

func number(args map[string]interface{}, name string) (float64, error) {
	v, ok := args[name]
	if !ok {
		return 0, fmt.Errorf("missing argument %q", name)
	}
	f, ok := v.(float64)
	if !ok {
		return 0, fmt.Errorf("argument %q must be a number, got %T", name, v)
	}
	return f, nil
}

func chainSteps(args map[string]interface{}) ([]calculator.Step, error) {
	raw, ok := args["steps"].([]interface{})
	if !ok || len(raw) == 0 {
		return nil, fmt.Errorf("steps must be a non-empty array")
	}

	steps := make([]calculator.Step, 0, len(raw))
	for i, item := range raw {
		obj, ok := item.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("step %d must be an object", i)
		}
		name, _ := obj["op"].(string)
		op, err := calculator.ParseOp(name)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		value, err := number(obj, "value")
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		steps = append(steps, calculator.Step{Op: op, Value: value})
	}
	return steps, nil
}
