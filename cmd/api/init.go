package main

import (
	"context"

	"calc-harness/internal/calculator"
	"calc-harness/internal/config"
	"calc-harness/internal/observability"
)

// initObservability starts logging, then OTLP export when enabled, then the
// calculator instruments on whichever meter provider is now global.
func initObservability(ctx context.Context, cfg config.Config) (func(context.Context) error, error) {
	if err := observability.InitLogger(cfg.Server.LogLevel); err != nil {
		return nil, err
	}

	shutdown, err := observability.Setup(ctx, cfg.Server.OTLPEnabled)
	if err != nil {
		return nil, err
	}

	if err := calculator.InitMetrics(); err != nil {
		_ = shutdown(ctx)
		return nil, err
	}

	return shutdown, nil
}
