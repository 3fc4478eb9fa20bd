package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/signalmesh/signalmesh/pkg/command"
	"github.com/signalmesh/signalmesh/pkg/loader"
	"github.com/signalmesh/signalmesh/pkg/signal"
)

var applyCmd = &cobra.Command{
	Use:   "apply <file>",
	Short: "Spawn every signal described in a YAML batch file and host them",
	Long: `Parses a YAML document listing signals (in dependency order) and
spawns them all against the configured bus, then stays resident so their
bus subscriptions remain live. Stop with Ctrl-C.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		logger := buildLogger(cmd)

		raw, err := os.ReadFile(args[0])
		if err != nil {
			logger.Error("failed to read batch file", "error", err)
			os.Exit(1)
		}

		configs, err := loader.Parse(raw)
		if err != nil {
			logger.Error("failed to parse batch file", "error", err)
			os.Exit(1)
		}

		bus, err := buildBus(cmd)
		if err != nil {
			logger.Error("failed to build bus", "error", err)
			os.Exit(1)
		}
		defer bus.Close()

		registry := signal.NewRegistry()
		dispatcher := command.NewDispatcher(bus, registry, logger)

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
		waitForSignal(logger)
	},
}

func init() {
	rootCmd.AddCommand(applyCmd)
}
