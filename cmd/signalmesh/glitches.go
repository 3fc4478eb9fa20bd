package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/signalmesh/signalmesh/pkg/command"
)

var glitchesCmd = &cobra.Command{
	Use:   "glitches <id> <true|false>",
	Short: "Enable or disable glitch avoidance for a signal",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		enabled, err := strconv.ParseBool(args[1])
		if err != nil {
			fmt.Printf("invalid boolean %q: %v\n", args[1], err)
			os.Exit(1)
		}

		bus, err := buildBus(cmd)
		if err != nil {
			fmt.Printf("failed to build bus: %v\n", err)
			os.Exit(1)
		}
		defer bus.Close()

		c := command.GlitchSignal{ID: args[0], Enabled: enabled}
		if err := c.Execute(cmd.Context(), bus); err != nil {
			fmt.Printf("glitches failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(glitchesCmd)
}
