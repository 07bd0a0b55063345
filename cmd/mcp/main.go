package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/povarna/generative-ai-agents/jury-agent/internal/mcpadapter"
	"github.com/povarna/generative-ai-agents/jury-agent/internal/setup"
	"github.com/povarna/generative-ai-agents/jury-agent/internal/setup/logger"
)

func main() {
	// Load env
	_ = godotenv.Load()

	// stdout belongs to the MCP transport, logs go to stderr
	cfg := setup.LoadConfig()
	lg := logger.New(cfg.LogLevel, "console")

	// Graceful shutdown on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Wire dependencies
	deps, err := setup.Wire(ctx, cfg, setup.Options{}, &lg)
	if err != nil {
		lg.Error().Err(err).Msg("Unable to load dependencies")
		os.Exit(1)
	}

	server := mcpadapter.NewServer(deps.Executor, "1.0.0", &lg)

	// Run over stdio
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		// EOF / "server is closing" is expected when stdin closes (e.g. echo | ./bin/jury-mcp)
		if errors.Is(err, io.EOF) || strings.Contains(err.Error(), "server is closing") {
			lg.Debug().Err(err).Msg("MCP server stopped")
			return
		}
		lg.Error().Err(err).Msg("Failed to run mcp server")
		os.Exit(1)
	}
}
