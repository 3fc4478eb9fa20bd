package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/signalmesh/signalmesh/pkg/command"
)

var incrementCmd = &cobra.Command{
	Use:   "increment <id>",
	Short: "Publish an increment on a signal's control topic",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		bus, err := buildBus(cmd)
		if err != nil {
			fmt.Printf("failed to build bus: %v\n", err)
			os.Exit(1)
		}
		defer bus.Close()

		c := command.Increment{ID: args[0]}
		if err := c.Execute(cmd.Context(), bus); err != nil {
			fmt.Printf("increment failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(incrementCmd)
}
