package ports

import "fmt"

// Channel names the fixed set of topic suffixes the signal runtime itself
// owns. The "command" channel is external (the outer REPL/command parser)
// and deliberately has no constant here.
type Channel string

const (
	ChannelValue       Channel = "value"
	ChannelPrint       Channel = "print"
	ChannelPrintGraph  Channel = "print.graph"
	ChannelIncrement   Channel = "increment"
	ChannelSendGraph   Channel = "sendGraph"
	ChannelBlock       Channel = "block"
	ChannelGlitches    Channel = "glitches"
)

// Topic builds the "signals.<id>.<channel>" address for id and channel.
func Topic(id string, channel Channel) string {
	return fmt.Sprintf("signals.%s.%s", id, channel)
}
