package observability

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRecordErrorWritesStandardizedErrorResponse(t *testing.T) {
	ctx := ContextWithRequestID(context.Background(), "req-1")
	span := trace.SpanFromContext(ctx)
	logger := zap.NewNop()

	counter, err := otel.Meter("test").Int64Counter("test.errors.total")
	if err != nil {
		t.Fatalf("creating counter: %v", err)
	}

	w := httptest.NewRecorder()

	RecordError(
		ctx,
		span,
		logger,
		counter,
		"divide",
		"invalid request body",
		errors.New("bad json"),
		http.StatusBadRequest,
		w,
	)

	resp := w.Result()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, resp.StatusCode)
	}

	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected Content-Type application/json, got %q", ct)
	}

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decoding response body: %v", err)
	}

	if got := body["error"]; got != "invalid request body" {
		t.Fatalf("expected error %q, got %q", "invalid request body", got)
	}

	if _, ok := body["request_id"]; ok {
		t.Fatal("did not expect request_id field in JSON body")
	}
}

func TestRecordErrorLogsOperationAndStatus(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	ctx := ContextWithRequestID(context.Background(), "req-2")

	RecordError(
		ctx,
		trace.SpanFromContext(ctx),
		zap.New(core),
		noop.Int64Counter{},
		"divide",
		"division by zero is not allowed",
		errors.New("division by zero is not allowed"),
		http.StatusBadRequest,
		httptest.NewRecorder(),
	)

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}

	if entries[0].Level != zap.WarnLevel {
		t.Fatalf("expected client error at warn, got %s", entries[0].Level)
	}

	fields := entries[0].ContextMap()
	if fields["operation"] != "divide" {
		t.Fatalf("expected operation %q, got %#v", "divide", fields["operation"])
	}
	if fields["status"] != int64(http.StatusBadRequest) {
		t.Fatalf("expected status %d, got %#v", http.StatusBadRequest, fields["status"])
	}
	if fields["request_id"] != "req-2" {
		t.Fatalf("expected request_id %q, got %#v", "req-2", fields["request_id"])
	}
}

func TestRecordErrorServerErrorLevel(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	ctx := context.Background()

	w := httptest.NewRecorder()
	RecordError(ctx, trace.SpanFromContext(ctx), zap.New(core), noop.Int64Counter{}, "evaluate", "internal error", errors.New("boom"), http.StatusInternalServerError, w)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
	}
	if entries := logs.FilterLevelExact(zap.ErrorLevel).All(); len(entries) != 1 {
		t.Fatalf("expected 1 error-level entry, got %d", len(entries))
	}
}

func TestStatusClass(t *testing.T) {
	tests := map[int]string{400: "4xx", 404: "4xx", 500: "5xx", 503: "5xx", 302: "other"}
	for status, want := range tests {
		if got := statusClass(status); got != want {
			t.Fatalf("statusClass(%d) = %q, want %q", status, got, want)
		}
	}
}
