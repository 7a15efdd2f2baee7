package contract

import (
	"context"
	"errors"
	"fmt"
	"time"

	"calc-harness/internal/observability"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultConcurrency = 4
	DefaultCaseTimeout = 15 * time.Second
)

var (
	tracer = otel.Tracer("contract")

	caseCounter  metric.Int64Counter     = noop.Int64Counter{}
	caseDuration metric.Float64Histogram = noop.Float64Histogram{}
)

// InitMetrics registers the contract instruments on the global meter
// provider.
func InitMetrics() error {
	meter := otel.Meter("contract")

	cases, err := meter.Int64Counter("contract.cases.total",
		metric.WithDescription("Contract cases run, by outcome"),
		metric.WithUnit("{case}"),
	)
	if err != nil {
		return fmt.Errorf("creating case counter: %w", err)
	}

	duration, err := meter.Float64Histogram("contract.case.duration",
		metric.WithDescription("Duration of contract cases in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return fmt.Errorf("creating case histogram: %w", err)
	}

	caseCounter, caseDuration = cases, duration
	return nil
}

// Result is the outcome of one case.
type Result struct {
	Case     Case
	Err      error
	Duration time.Duration
}

func (r Result) Passed() bool { return r.Err == nil }

// Report holds results in the order the cases were given.
type Report struct {
	Results []Result
}

// Failed returns the failing results.
func (r Report) Failed() []Result {
	var out []Result
	for _, res := range r.Results {
		if !res.Passed() {
			out = append(out, res)
		}
	}
	return out
}

// Passed reports whether every case passed.
func (r Report) Passed() bool {
	return len(r.Failed()) == 0
}

// Runner executes cases against an API.
type Runner struct {
	API         API
	Fixtures    Fixtures
	Concurrency int
	CaseTimeout time.Duration
}

// NewRunner returns a Runner with default concurrency and timeout.
func NewRunner(api API, f Fixtures) *Runner {
	return &Runner{
		API:         api,
		Fixtures:    f,
		Concurrency: DefaultConcurrency,
		CaseTimeout: DefaultCaseTimeout,
	}
}

// Run executes cases concurrently. A failing case does not stop the others;
// only cancellation of ctx does.
func (r *Runner) Run(ctx context.Context, cases []Case) Report {
	ctx, span := tracer.Start(ctx, "contract.run",
		trace.WithAttributes(attribute.Int("contract.cases", len(cases))),
	)
	defer span.End()

	results := make([]Result, len(cases))

	// Plain errgroup, not WithContext: case errors go into results.
	var g errgroup.Group
	if r.Concurrency > 0 {
		g.SetLimit(r.Concurrency)
	}

	for i, c := range cases {
		g.Go(func() error {
			results[i] = r.runCase(ctx, c)
			return nil
		})
	}
	_ = g.Wait()

	report := Report{Results: results}
	failed := len(report.Failed())
	span.SetAttributes(attribute.Int("contract.failed", failed))
	if failed > 0 {
		span.SetStatus(codes.Error, fmt.Sprintf("%d of %d cases failed", failed, len(cases)))
	} else {
		span.SetStatus(codes.Ok, "")
	}
	return report
}

// runCase gives every case its own request id, which the client forwards
// in X-Request-ID.
func (r *Runner) runCase(ctx context.Context, c Case) Result {
	requestID := observability.NewRequestID()
	ctx = observability.ContextWithRequestID(ctx, requestID)

	ctx, span := tracer.Start(ctx, "contract.case",
		trace.WithAttributes(
			attribute.String("contract.group", c.Group),
			attribute.String("contract.case", c.Name),
			attribute.String("request.id", requestID),
		),
	)
	defer span.End()

	if r.CaseTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.CaseTimeout)
		defer cancel()
	}

	logger := observability.LoggerWithTrace(ctx).With(
		zap.String("case", c.Title()),
		zap.String("request_id", requestID),
	)

	start := time.Now()
	err := safeRun(ctx, c, r.API, r.Fixtures)
	elapsed := time.Since(start)

	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		err = fmt.Errorf("timed out after %s: %w", r.CaseTimeout, err)
	}

	outcome := "pass"
	if err != nil {
		outcome = "fail"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.Warn("contract case failed", zap.Error(err), zap.Duration("duration", elapsed))
	} else {
		span.SetStatus(codes.Ok, "")
		logger.Info("contract case passed", zap.Duration("duration", elapsed))
	}

	attrs := metric.WithAttributes(
		attribute.String("group", c.Group),
		attribute.String("outcome", outcome),
	)
	caseCounter.Add(ctx, 1, attrs)
	caseDuration.Record(ctx, float64(elapsed.Microseconds())/1000.0, attrs)

	return Result{Case: c, Err: err, Duration: elapsed}
}

// safeRun turns a panicking case into a failed one.
func safeRun(ctx context.Context, c Case, api API, f Fixtures) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	return c.Run(ctx, api, f)
}
