package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/signalmesh/signalmesh/pkg/command"
	"github.com/signalmesh/signalmesh/pkg/domain"
	"github.com/signalmesh/signalmesh/pkg/signal"
)

var createCmd = &cobra.Command{
	Use:   "create <id> <initial-value>",
	Short: "Host a leaf signal until interrupted",
	Long: `Spawns a leaf signal with the given initial value and keeps the
process alive so the signal's subscriptions stay registered on the bus.
Stop with Ctrl-C.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		id := args[0]
		value, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			fmt.Printf("invalid initial value %q: %v\n", args[1], err)
			os.Exit(1)
		}

		runHostedSignal(cmd, domain.SignalConfig{ID: id, InitialValue: &value})
	},
}

func init() {
	rootCmd.AddCommand(createCmd)
}

// runHostedSignal spawns cfg against the command-line's configured bus and
// blocks until interrupted, then stops the actor cleanly. create, map, and
// combine all share this shape: their value is a resident actor attached
// to the bus, not a one-shot reply.
func runHostedSignal(cmd *cobra.Command, cfg domain.SignalConfig) {
	logger := buildLogger(cmd)

	bus, err := buildBus(cmd)
	if err != nil {
		logger.Error("failed to build bus", "error", err)
		os.Exit(1)
	}
	defer bus.Close()

	registry := signal.NewRegistry()
	dispatcher := command.NewDispatcher(bus, registry, logger)

	a, err := dispatcher.CreateSignal(cmd.Context(), cfg)
	if err != nil {
		logger.Error("failed to create signal", "error", err)
		os.Exit(1)
	}
	defer a.Stop()

	logger.Info("signal hosted", "id", a.ID(), "value", a.Value())
	waitForSignal(logger)
}
