package main

import (
	"github.com/spf13/cobra"

	"github.com/signalmesh/signalmesh/pkg/domain"
)

var mapCmd = &cobra.Command{
	Use:   "map <id> <upstream> [operator]",
	Short: "Host a signal that transforms a single upstream's value",
	Long: `Spawns a signal depending on a single upstream, applying operator
(default identity) to every update. Stays resident; stop with Ctrl-C.`,
	Args: cobra.RangeArgs(2, 3),
	Run: func(cmd *cobra.Command, args []string) {
		id, upstream := args[0], args[1]
		op := domain.OpIdentity
		if len(args) == 3 {
			op = domain.CombineOp(args[2])
		}
		runHostedSignal(cmd, domain.SignalConfig{
			ID:           id,
			Operator:     op,
			Dependencies: []string{upstream},
		})
	},
}

func init() {
	rootCmd.AddCommand(mapCmd)
}
