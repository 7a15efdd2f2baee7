package calculator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"calc-harness/internal/handlers"
	"calc-harness/internal/observability"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("calculator")

// Handler serves the calculator over HTTP.
type Handler struct {
	calc Calculator
}

// NewHandler returns a Handler backed by calc.
func NewHandler(calc Calculator) *Handler {
	return &Handler{calc: calc}
}

// ---------------------------------------------------------------------------
// Binary operations
// ---------------------------------------------------------------------------

// Binary returns the handler for POST /calculator/{op}.
func (h *Handler) Binary(op Op) http.HandlerFunc {
	opName := string(op)

	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		logger := observability.LoggerWithTrace(ctx)
		requestID := observability.RequestIDFromContext(ctx)

		ctx, span := tracer.Start(ctx, "calculator."+opName,
			trace.WithAttributes(
				attribute.String("calculator.operation", opName),
				attribute.String("request.id", requestID),
			),
		)
		defer span.End()

		var req BinaryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			observability.RecordError(ctx, span, logger, errorCounter, opName, "invalid request body", err, http.StatusBadRequest, w)
			return
		}

		if !finite(req.A) || !finite(req.B) {
			observability.RecordError(ctx, span, logger, errorCounter, opName, "invalid numeric input", fmt.Errorf("a=%g b=%g", req.A, req.B), http.StatusBadRequest, w)
			return
		}

		span.SetAttributes(
			attribute.Float64("calculator.operand.a", req.A),
			attribute.Float64("calculator.operand.b", req.B),
		)

		start := time.Now()
		result, err := h.calc.Apply(op, req.A, req.B)
		elapsed := sinceMillis(start)

		if err != nil {
			observability.RecordError(ctx, span, logger, errorCounter, opName, err.Error(), err, statusFor(err), w)
			return
		}

		attrs := metric.WithAttributes(attribute.String("operation", opName))
		opsCounter.Add(ctx, 1, attrs)
		opsHistogram.Record(ctx, elapsed, attrs)
		resultGauge.Record(ctx, result, attrs)

		span.AddEvent("computation.complete", trace.WithAttributes(
			attribute.Float64("result", result),
			attribute.Float64("duration_ms", elapsed),
		))
		span.SetAttributes(attribute.Float64("calculator.result", result))
		span.SetStatus(codes.Ok, "")

		logger.Info("calculator operation completed",
			zap.String("operation", opName),
			zap.Float64("a", req.A),
			zap.Float64("b", req.B),
			zap.Float64("result", result),
			zap.String("request_id", requestID),
			zap.Float64("duration_ms", elapsed),
		)

		handlers.WriteJSON(w, http.StatusOK, BinaryResponse{
			Operation: op,
			A:         req.A,
			B:         req.B,
			Result:    result,
		})
	}
}

// ---------------------------------------------------------------------------
// Chained operations
// ---------------------------------------------------------------------------

// Chain handles POST /calculator/chain. Each executed step is recorded as a
// child span so a failing step is visible in the trace.
func (h *Handler) Chain(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)

	ctx, span := tracer.Start(ctx, "calculator.chain",
		trace.WithAttributes(attribute.String("request.id", requestID)),
	)
	defer span.End()

	var req ChainRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "chain", "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	if len(req.Steps) == 0 {
		observability.RecordError(ctx, span, logger, errorCounter, "chain", "no steps provided", errors.New("steps array is empty"), http.StatusBadRequest, w)
		return
	}

	steps := make([]Step, len(req.Steps))
	for i, s := range req.Steps {
		if !finite(s.Value) {
			observability.RecordError(ctx, span, logger, errorCounter, "chain", "invalid numeric input", fmt.Errorf("step %d value=%g", i, s.Value), http.StatusBadRequest, w)
			return
		}
		steps[i] = Step{Op: s.Op, Value: s.Value}
	}
	if !finite(req.Initial) {
		observability.RecordError(ctx, span, logger, errorCounter, "chain", "invalid numeric input", fmt.Errorf("initial=%g", req.Initial), http.StatusBadRequest, w)
		return
	}

	span.SetAttributes(
		attribute.Float64("chain.initial", req.Initial),
		attribute.Int("chain.steps_count", len(steps)),
	)

	start := time.Now()
	results, err := h.calc.Chain(req.Initial, steps)
	elapsed := sinceMillis(start)

	running := req.Initial
	out := make([]ChainStepResponse, 0, len(results))
	for i, res := range results {
		h.recordStep(ctx, logger, i, running, res, nil)
		running = res.Result
		out = append(out, ChainStepResponse{Op: res.Op, Value: res.Value, Result: res.Result})
	}

	if err != nil {
		opName := "chain"
		var stepErr *StepError
		if errors.As(err, &stepErr) {
			opName = string(stepErr.Op)
			h.recordStep(ctx, logger, stepErr.Index, running, StepResult{Step: steps[stepErr.Index]}, err)
			span.SetStatus(codes.Error, fmt.Sprintf("failed at step %d", stepErr.Index))
		}
		observability.RecordError(ctx, span, logger, errorCounter, opName, err.Error(), err, statusFor(err), w)
		return
	}

	attrs := metric.WithAttributes(attribute.String("operation", "chain"))
	opsHistogram.Record(ctx, elapsed, attrs)
	resultGauge.Record(ctx, running, attrs)
	span.SetAttributes(attribute.Float64("chain.result", running))
	span.SetStatus(codes.Ok, "")

	logger.Info("chained calculation completed",
		zap.Float64("initial", req.Initial),
		zap.Float64("result", running),
		zap.Int("steps", len(steps)),
		zap.String("request_id", requestID),
		zap.Float64("duration_ms", elapsed),
	)

	handlers.WriteJSON(w, http.StatusOK, ChainResponse{
		Initial: req.Initial,
		Steps:   out,
		Result:  running,
	})
}

// recordStep emits the span, counter and debug log for one chain step. A
// non-nil err marks the step that stopped the chain.
func (h *Handler) recordStep(ctx context.Context, logger *zap.Logger, index int, input float64, res StepResult, err error) {
	_, stepSpan := tracer.Start(ctx, fmt.Sprintf("calculator.chain.step.%d.%s", index, res.Op),
		trace.WithAttributes(
			attribute.Int("chain.step.index", index),
			attribute.String("chain.step.operation", string(res.Op)),
			attribute.Float64("chain.step.input", input),
			attribute.Float64("chain.step.value", res.Value),
		),
	)
	defer stepSpan.End()

	if err != nil {
		stepSpan.RecordError(err)
		stepSpan.SetStatus(codes.Error, err.Error())
		return
	}

	opsCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", string(res.Op))))

	stepSpan.AddEvent("step.complete", trace.WithAttributes(
		attribute.Float64("input", input),
		attribute.Float64("result", res.Result),
	))
	stepSpan.SetStatus(codes.Ok, "")

	logger.Debug("chain step completed",
		zap.Int("step", index),
		zap.String("operation", string(res.Op)),
		zap.Float64("input", input),
		zap.Float64("value", res.Value),
		zap.Float64("result", res.Result),
	)
}

// ---------------------------------------------------------------------------
// Expressions
// ---------------------------------------------------------------------------

// Evaluate handles POST /calculator/evaluate.
func (h *Handler) Evaluate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerWithTrace(ctx)
	requestID := observability.RequestIDFromContext(ctx)

	ctx, span := tracer.Start(ctx, "calculator.evaluate",
		trace.WithAttributes(attribute.String("request.id", requestID)),
	)
	defer span.End()

	var req EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "evaluate", "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	span.SetAttributes(attribute.String("calculator.expression", req.Expression))

	start := time.Now()
	result, err := h.calc.Evaluate(req.Expression, req.Params)
	elapsed := sinceMillis(start)

	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "evaluate", err.Error(), err, statusFor(err), w)
		return
	}

	attrs := metric.WithAttributes(attribute.String("operation", "evaluate"))
	opsCounter.Add(ctx, 1, attrs)
	opsHistogram.Record(ctx, elapsed, attrs)
	resultGauge.Record(ctx, result, attrs)

	span.SetAttributes(attribute.Float64("calculator.result", result))
	span.SetStatus(codes.Ok, "")

	logger.Info("expression evaluated",
		zap.String("expression", req.Expression),
		zap.Float64("result", result),
		zap.String("request_id", requestID),
		zap.Float64("duration_ms", elapsed),
	)

	handlers.WriteJSON(w, http.StatusOK, EvaluateResponse{
		Expression: req.Expression,
		Result:     result,
	})
}

// statusFor maps calculator errors onto HTTP status codes. Every known
// failure is a client error.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrDivisionByZero),
		errors.Is(err, ErrNonFiniteResult),
		errors.Is(err, ErrUnknownOperation),
		errors.Is(err, ErrUnsupportedOperator),
		errors.Is(err, ErrInvalidExpression):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func sinceMillis(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000.0
}
