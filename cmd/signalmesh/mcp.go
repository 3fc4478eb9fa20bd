package main

import (
	"context"
	"log/slog"
	"os"
	ossignal "os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/signalmesh/signalmesh/internal/adapters/mcpview"
	"github.com/signalmesh/signalmesh/pkg/command"
	"github.com/signalmesh/signalmesh/pkg/signal"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol server over stdio",
	Long: `Starts signalmesh as an MCP server so an AI agent can create and
drive signals as tools. Logs go to stderr to keep stdout clean for the
JSON-RPC transport.`,
	Run: func(cmd *cobra.Command, args []string) {
		logger := buildLogger(cmd)
		slog.SetDefault(logger)

		bus, err := buildBus(cmd)
		if err != nil {
			logger.Error("failed to build bus", "error", err)
			os.Exit(1)
		}
		defer bus.Close()

		registry := signal.NewRegistry()
		dispatcher := command.NewDispatcher(bus, registry, logger)
		srv := mcpview.New(dispatcher, registry, bus)

		ctx, stop := ossignal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger.Info("starting mcp server (stdio)")
		if err := srv.ServeStdio(ctx); err != nil && ctx.Err() == nil {
			logger.Error("mcp server failed", "error", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
