package observability

import (
	"context"
	"errors"
)

// Setup initialises OTLP tracing, metrics and log export in that order and
// returns one shutdown func for all of them. When export is false the global
// providers stay no-op and so does the returned shutdown.
func Setup(ctx context.Context, export bool) (func(context.Context) error, error) {
	if !export {
		return func(context.Context) error { return nil }, nil
	}

	var shutdowns []func(context.Context) error
	shutdown := func(ctx context.Context) error {
		var errs []error
		for i := len(shutdowns) - 1; i >= 0; i-- {
			errs = append(errs, shutdowns[i](ctx))
		}
		return errors.Join(errs...)
	}

	for _, start := range []func(context.Context) (func(context.Context) error, error){
		InitTracing,
		InitMetrics,
		InitLogging,
	} {
		stop, err := start(ctx)
		if err != nil {
			return nil, errors.Join(err, shutdown(ctx))
		}
		shutdowns = append(shutdowns, stop)
	}

	return shutdown, nil
}
