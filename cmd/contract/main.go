// Command contract checks a reqres-compatible service against the expected
// request and response shapes. It exits 1 when any case fails.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"calc-harness/internal/config"
	"calc-harness/internal/contract"
	"calc-harness/internal/observability"
	"calc-harness/internal/reqres"
	"calc-harness/internal/reqres/reqrestest"

	"go.uber.org/zap"
)

func main() {
	failed, err := run(os.Args[1:], os.Stdout)
	if err != nil {
		fmt.Fprintln(os.Stderr, "contract:", err)
		os.Exit(2)
	}
	if failed {
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) (bool, error) {
	fs := flag.NewFlagSet("contract", flag.ContinueOnError)
	configPath := fs.String("config", "", "YAML config file (default "+config.DefaultFile+" if present)")
	baseURL := fs.String("base-url", "", "service base URL, overrides config")
	local := fs.Bool("local", false, "run against an in-process stand-in instead of the network")
	fixtures := fs.String("fixtures", "", "YAML fixtures file, overrides config")
	concurrency := fs.Int("concurrency", 0, "cases run at once, overrides config")
	caseTimeout := fs.Duration("timeout", 0, "per-case timeout, overrides config")
	if err := fs.Parse(args); err != nil {
		return false, err
	}

	if err := config.LoadDotEnv(); err != nil {
		return false, err
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		return false, err
	}
	if *baseURL != "" {
		cfg.Reqres.BaseURL = *baseURL
	}
	if *fixtures != "" {
		cfg.Contract.Fixtures = *fixtures
	}
	if *concurrency > 0 {
		cfg.Contract.Concurrency = *concurrency
	}
	if *caseTimeout > 0 {
		cfg.Contract.CaseTimeout = *caseTimeout
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := observability.InitLogger(cfg.Server.LogLevel); err != nil {
		return false, err
	}
	defer observability.SyncLogger()

	shutdown, err := observability.Setup(ctx, cfg.Server.OTLPEnabled)
	if err != nil {
		return false, err
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			observability.Logger.Warn("observability shutdown", zap.Error(err))
		}
	}()
	if err := contract.InitMetrics(); err != nil {
		return false, err
	}

	f := contract.DefaultFixtures()
	if cfg.Contract.Fixtures != "" {
		if f, err = contract.LoadFixtures(cfg.Contract.Fixtures); err != nil {
			return false, err
		}
	}

	if *local {
		srv, err := reqrestest.NewServer()
		if err != nil {
			return false, fmt.Errorf("start stand-in: %w", err)
		}
		defer srv.Close()
		cfg.Reqres.BaseURL = srv.BaseURL()
	}

	client, err := reqres.NewClient(cfg.Reqres.BaseURL,
		reqres.WithTimeout(cfg.Reqres.Timeout),
		reqres.WithAPIKey(cfg.Reqres.APIKey),
		reqres.WithLogger(observability.Logger),
	)
	if err != nil {
		return false, err
	}

	observability.Logger.Info("running contract suite",
		zap.String("base_url", cfg.Reqres.BaseURL),
		zap.Int("concurrency", cfg.Contract.Concurrency),
	)

	runner := contract.NewRunner(client, f)
	runner.Concurrency = cfg.Contract.Concurrency
	runner.CaseTimeout = cfg.Contract.CaseTimeout

	report := runner.Run(ctx, contract.Cases())
	printReport(out, report)

	return !report.Passed(), nil
}

func printReport(out io.Writer, report contract.Report) {
	for _, res := range report.Results {
		d := res.Duration.Round(time.Millisecond)
		if res.Passed() {
			fmt.Fprintf(out, "PASS  %s (%s)\n", res.Case.Title(), d)
			continue
		}
		fmt.Fprintf(out, "FAIL  %s (%s): %v\n", res.Case.Title(), d, res.Err)
	}

	failed := len(report.Failed())
	fmt.Fprintf(out, "\n%d passed, %d failed\n", len(report.Results)-failed, failed)
}
