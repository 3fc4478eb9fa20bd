package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	ossignal "os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/signalmesh/signalmesh/internal/adapters/httpview"
	"github.com/signalmesh/signalmesh/internal/adapters/mcpview"
	"github.com/signalmesh/signalmesh/internal/metrics"
	"github.com/signalmesh/signalmesh/pkg/command"
	"github.com/signalmesh/signalmesh/pkg/loader"
	"github.com/signalmesh/signalmesh/pkg/signal"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Host a mesh and expose its introspection HTTP API",
	Long: `Starts the HTTP introspection server over a live registry, spawning
an optional batch file of signals at startup. This is the long-running
daemon form of apply; use --mcp to also expose the mesh as MCP tools over
stdio.`,
	Run: func(cmd *cobra.Command, args []string) {
		logger := buildLogger(cmd)

		apply, _ := cmd.Flags().GetString("apply")
		addr, _ := cmd.Flags().GetString("http-addr")
		withMCP, _ := cmd.Flags().GetBool("mcp")

		bus, err := buildBus(cmd)
		if err != nil {
			logger.Error("failed to build bus", "error", err)
			os.Exit(1)
		}
		defer bus.Close()

		registry := signal.NewRegistry()
		metricsRegistry := metrics.New(prometheus.DefaultRegisterer)
		dispatcher := command.NewDispatcher(bus, registry, logger).WithMetrics(metricsRegistry)

		if apply != "" {
			raw, err := os.ReadFile(apply)
			if err != nil {
				logger.Error("failed to read batch file", "error", err)
				os.Exit(1)
			}
			configs, err := loader.Parse(raw)
			if err != nil {
				logger.Error("failed to parse batch file", "error", err)
				os.Exit(1)
			}
			spawned, err := loader.Apply(cmd.Context(), dispatcher, configs)
			if err != nil {
				logger.Error("failed to apply batch", "error", err)
				os.Exit(1)
			}
			defer func() {
				for _, a := range spawned {
					a.Stop()
				}
			}()
			logger.Info("batch applied", "count", len(spawned))
		}

		view, err := httpview.New(registry)
		if err != nil {
			logger.Error("failed to build http view", "error", err)
			os.Exit(1)
		}

		srv := &http.Server{Addr: addr, Handler: view}
		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("serving introspection api", "addr", addr)
			serverErrors <- srv.ListenAndServe()
		}()

		if withMCP {
			mcpSrv := mcpview.New(dispatcher, registry, bus)
			mcpCtx, cancelMCP := context.WithCancel(cmd.Context())
			defer cancelMCP()
			go func() {
				if err := mcpSrv.ServeStdio(mcpCtx); err != nil && mcpCtx.Err() == nil {
					logger.Error("mcp server exited", "error", err)
				}
			}()
		}

		shutdown := make(chan os.Signal, 1)
		ossignal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			if err != nil && err != http.ErrServerClosed {
				logger.Error("http server error", "error", err)
				os.Exit(1)
			}
		case sig := <-shutdown:
			fmt.Printf("shutdown signal received: %v\n", sig)
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				_ = srv.Close()
			}
			logger.Info("server stopped gracefully")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("apply", "", "YAML batch file to spawn at startup")
	serveCmd.Flags().String("http-addr", ":8080", "address for the introspection HTTP API")
	serveCmd.Flags().Bool("mcp", false, "also serve MCP tools over stdio")
}
