package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/signalmesh/signalmesh/pkg/command"
)

var printCmd = &cobra.Command{
	Use:   "print <id>",
	Short: "Ask a signal to log its current value",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		bus, err := buildBus(cmd)
		if err != nil {
			fmt.Printf("failed to build bus: %v\n", err)
			os.Exit(1)
		}
		defer bus.Close()

		c := command.PrintSignal{ID: args[0]}
		if err := c.Execute(cmd.Context(), bus); err != nil {
			fmt.Printf("print failed: %v\n", err)
			os.Exit(1)
		}
	},
}

var printGraphCmd = &cobra.Command{
	Use:   "print-graph <id>",
	Short: "Ask a signal to log its resolved dependency graph",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		bus, err := buildBus(cmd)
		if err != nil {
			fmt.Printf("failed to build bus: %v\n", err)
			os.Exit(1)
		}
		defer bus.Close()

		c := command.PrintGraph{ID: args[0]}
		if err := c.Execute(cmd.Context(), bus); err != nil {
			fmt.Printf("print-graph failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(printCmd)
	rootCmd.AddCommand(printGraphCmd)
}
