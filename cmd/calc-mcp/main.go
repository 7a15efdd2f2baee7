package main

import (
	"fmt"
	"os"

	"calc-harness/internal/calculator"
	"calc-harness/internal/config"
	"calc-harness/internal/mcpserver"
	"calc-harness/internal/observability"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

// Version is set during build
var Version = "dev"

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// stdout carries the protocol; logs go to stderr.
	if err := observability.InitLogger(os.Getenv("HARNESS_LOG_LEVEL")); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer observability.SyncLogger()

	s := mcpserver.New(Version, calculator.New(), observability.Logger)

	observability.Logger.Info("starting MCP server", zap.String("version", Version))
	if err := server.ServeStdio(s.MCP()); err != nil {
		observability.Logger.Error("server error", zap.Error(err))
		observability.SyncLogger()
		os.Exit(1)
	}
}
