package main

import (
	"github.com/spf13/cobra"

	"github.com/signalmesh/signalmesh/pkg/domain"
)

var combineCmd = &cobra.Command{
	Use:   "combine <id> <left> <right> <operator>",
	Short: "Host a signal that combines two upstreams with an operator",
	Long: `Spawns a signal depending on two upstreams, applying operator
(add, sub, mul, div) across both on every fan-in. Stays resident; stop
with Ctrl-C.`,
	Args: cobra.ExactArgs(4),
	Run: func(cmd *cobra.Command, args []string) {
		id, left, right, operator := args[0], args[1], args[2], args[3]
		runHostedSignal(cmd, domain.SignalConfig{
			ID:           id,
			Operator:     domain.CombineOp(operator),
			Dependencies: []string{left, right},
		})
	},
}

func init() {
	rootCmd.AddCommand(combineCmd)
}
