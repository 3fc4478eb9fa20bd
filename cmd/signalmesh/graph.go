package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/signalmesh/signalmesh/internal/presentation/cliview"
	"github.com/signalmesh/signalmesh/internal/presentation/graphview"
	"github.com/signalmesh/signalmesh/pkg/domain"
	"github.com/signalmesh/signalmesh/pkg/ports"
)

var graphCmd = &cobra.Command{
	Use:   "graph <id>",
	Short: "Fetch and render a signal's resolved dependency graph",
	Long: `Sends a sendGraph request to the signal identified by id and
renders the reply as a Mermaid diagram. The signal must already be
resident on the bus (hosted via create/map/combine/apply/serve).`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		bus, err := buildBus(cmd)
		if err != nil {
			fmt.Printf("failed to build bus: %v\n", err)
			os.Exit(1)
		}
		defer bus.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
		defer cancel()

		reply, err := bus.Request(ctx, ports.Topic(args[0], ports.ChannelSendGraph), nil)
		if err != nil {
			fmt.Printf("graph request failed: %v\n", err)
			os.Exit(1)
		}

		g, err := domain.GraphFromJSON(reply)
		if err != nil {
			fmt.Printf("malformed graph reply: %v\n", err)
			os.Exit(1)
		}

		mermaid := graphview.GenerateMermaid(g)
		render, err := cliview.NewRenderer()
		if err != nil {
			fmt.Print(cliview.GraphMarkdown(args[0], mermaid))
			return
		}
		out, err := render(cliview.GraphMarkdown(args[0], mermaid))
		if err != nil {
			fmt.Print(cliview.GraphMarkdown(args[0], mermaid))
			return
		}
		fmt.Print(out)
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
