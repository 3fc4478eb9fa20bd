package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/signalmesh/signalmesh/internal/adapters/localbus"
	"github.com/signalmesh/signalmesh/internal/adapters/redisbus"
	"github.com/signalmesh/signalmesh/internal/logging"
	"github.com/signalmesh/signalmesh/pkg/ports"
)

var rootCmd = &cobra.Command{
	Use:   "signalmesh",
	Short: "signalmesh runs functional-reactive signals over a pub/sub bus",
	Long: `signalmesh spawns and wires signal actors that communicate exclusively
through a topic-addressed bus. By default each invocation gets its own
in-memory bus; pass --redis-addr to join a shared bus other signalmesh
processes are already attached to.`,
}

// Execute adds all child commands to the root command and runs it.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("redis-addr", "", "address of a shared Redis bus (empty uses a private in-memory bus)")
	rootCmd.PersistentFlags().String("redis-password", "", "password for the Redis bus")
	rootCmd.PersistentFlags().Int("redis-db", 0, "Redis logical database number")
	rootCmd.PersistentFlags().String("prefix", "", "topic prefix to namespace this mesh on a shared Redis bus")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, or error")
}

// buildLogger constructs this invocation's logger from the --log-level
// persistent flag, standardizing keys the way every subcommand expects.
func buildLogger(cmd *cobra.Command) *slog.Logger {
	raw, _ := cmd.Flags().GetString("log-level")
	var level slog.Level
	if err := level.UnmarshalText([]byte(raw)); err != nil {
		level = slog.LevelInfo
	}
	return logging.New(level)
}

// buildBus constructs the bus a subcommand should use, based on the
// --redis-addr persistent flag: a private localbus.Bus when unset, or a
// redisbus.Bus joining the named Redis instance otherwise.
func buildBus(cmd *cobra.Command) (ports.Bus, error) {
	addr, _ := cmd.Flags().GetString("redis-addr")
	if addr == "" {
		return localbus.New(), nil
	}
	password, _ := cmd.Flags().GetString("redis-password")
	db, _ := cmd.Flags().GetInt("redis-db")
	prefix, _ := cmd.Flags().GetString("prefix")

	var opts []redisbus.Option
	if prefix != "" {
		opts = append(opts, redisbus.WithPrefix(prefix))
	}
	return redisbus.New(addr, password, db, opts...), nil
}

// waitForSignal blocks until SIGINT or SIGTERM, logging arrival through
// logger.
func waitForSignal(logger *slog.Logger) {
	stop := make(chan os.Signal, 1)
	notifySignals(stop)
	sig := <-stop
	logger.Info("shutting down", "signal", sig.String())
}
