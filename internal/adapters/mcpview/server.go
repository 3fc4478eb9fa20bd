// Package mcpview exposes the command layer as MCP tools, so an AI agent
// can drive a signal mesh the same way the teacher's adapter exposed its
// engine. The teacher's lifecycle.Go helper (itself undeclared in the
// teacher's own go.mod) is not carried forward; its one call site is a
// plain goroutine here.
package mcpview

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/signalmesh/signalmesh/pkg/command"
	"github.com/signalmesh/signalmesh/pkg/domain"
	"github.com/signalmesh/signalmesh/pkg/ports"
	"github.com/signalmesh/signalmesh/pkg/signal"
)

// Server wraps a command.Dispatcher and a signal.Registry as an MCP tool
// surface.
type Server struct {
	mcp        *server.MCPServer
	dispatcher *command.Dispatcher
	registry   *signal.Registry
	bus        ports.Bus
}

// New builds an MCP server exposing create_signal, increment_signal,
// block_signal, set_glitch_avoidance, combine_signals, map_signal, and
// get_graph tools.
func New(dispatcher *command.Dispatcher, registry *signal.Registry, bus ports.Bus) *Server {
	s := &Server{
		mcp:        server.NewMCPServer("signalmesh", "1.0.0"),
		dispatcher: dispatcher,
		registry:   registry,
		bus:        bus,
	}
	s.registerTools()
	return s
}

// ServeStdio runs the MCP server over stdin/stdout until ctx is canceled.
func (s *Server) ServeStdio(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ServeStdio(s.mcp)
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Server) registerTools() {
	s.mcp.AddTool(mcp.NewTool("create_signal",
		mcp.WithDescription("Create a leaf signal with an initial value."),
		mcp.WithString("id", mcp.Required()),
		mcp.WithNumber("initialValue", mcp.Required()),
	), s.handleCreateSignal)

	s.mcp.AddTool(mcp.NewTool("map_signal",
		mcp.WithDescription("Create a signal that transforms a single upstream's value."),
		mcp.WithString("id", mcp.Required()),
		mcp.WithString("upstream", mcp.Required()),
		mcp.WithString("operator"),
	), s.handleMapSignal)

	s.mcp.AddTool(mcp.NewTool("combine_signals",
		mcp.WithDescription("Create a signal that combines two upstreams with an operator."),
		mcp.WithString("id", mcp.Required()),
		mcp.WithString("left", mcp.Required()),
		mcp.WithString("right", mcp.Required()),
		mcp.WithString("operator", mcp.Required()),
	), s.handleCombineSignals)

	s.mcp.AddTool(mcp.NewTool("increment_signal",
		mcp.WithDescription("Increment a signal's value by one."),
		mcp.WithString("id", mcp.Required()),
	), s.handleIncrement)

	s.mcp.AddTool(mcp.NewTool("block_signal",
		mcp.WithDescription("Enable or disable broadcast suppression for a signal."),
		mcp.WithString("id", mcp.Required()),
		mcp.WithBoolean("blocked", mcp.Required()),
	), s.handleBlockSignal)

	s.mcp.AddTool(mcp.NewTool("set_glitch_avoidance",
		mcp.WithDescription("Enable or disable glitch avoidance for a signal."),
		mcp.WithString("id", mcp.Required()),
		mcp.WithBoolean("enabled", mcp.Required()),
	), s.handleGlitchSignal)

	s.mcp.AddTool(mcp.NewTool("get_graph",
		mcp.WithDescription("Return a signal's resolved dependency graph as JSON."),
		mcp.WithString("id", mcp.Required()),
	), s.handleGetGraph)
}

// args is a thin accessor over a tool call's raw argument map, kept
// deliberately independent of any particular mcp-go typed-accessor
// generation so it survives that dependency's own API churn.
type args map[string]any

func toolArgs(req mcp.CallToolRequest) args {
	if m, ok := req.Params.Arguments.(map[string]any); ok {
		return args(m)
	}
	return args{}
}

func (a args) string(key string) (string, error) {
	v, ok := a[key].(string)
	if !ok || v == "" {
		return "", fmt.Errorf("mcpview: missing required string argument %q", key)
	}
	return v, nil
}

func (a args) optionalString(key, fallback string) string {
	if v, ok := a[key].(string); ok && v != "" {
		return v
	}
	return fallback
}

func (a args) number(key string) (float64, error) {
	v, ok := a[key].(float64)
	if !ok {
		return 0, fmt.Errorf("mcpview: missing required numeric argument %q", key)
	}
	return v, nil
}

func (a args) boolean(key string) (bool, error) {
	v, ok := a[key].(bool)
	if !ok {
		return false, fmt.Errorf("mcpview: missing required boolean argument %q", key)
	}
	return v, nil
}

func (s *Server) handleCreateSignal(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	a := toolArgs(req)
	id, err := a.string("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	initial, err := a.number("initialValue")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	v := int64(initial)
	signalActor, err := s.dispatcher.CreateSignal(ctx, domain.SignalConfig{ID: id, InitialValue: &v})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("created %q = %d", signalActor.ID(), signalActor.Value())), nil
}

func (s *Server) handleMapSignal(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	a := toolArgs(req)
	id, err := a.string("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	upstream, err := a.string("upstream")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	op := domain.CombineOp(a.optionalString("operator", string(domain.OpIdentity)))

	signalActor, err := s.dispatcher.CreateSignal(ctx, domain.SignalConfig{
		ID: id, Operator: op, Dependencies: []string{upstream},
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("created %q", signalActor.ID())), nil
}

func (s *Server) handleCombineSignals(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	a := toolArgs(req)
	id, err := a.string("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	left, err := a.string("left")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	right, err := a.string("right")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	operator, err := a.string("operator")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	signalActor, err := s.dispatcher.CreateSignal(ctx, domain.SignalConfig{
		ID: id, Operator: domain.CombineOp(operator), Dependencies: []string{left, right},
	})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("created %q", signalActor.ID())), nil
}

func (s *Server) handleIncrement(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := toolArgs(req).string("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.bus.Publish(ctx, ports.Topic(id, ports.ChannelIncrement), nil); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText("ok"), nil
}

func (s *Server) handleBlockSignal(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	a := toolArgs(req)
	id, err := a.string("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	blocked, err := a.boolean("blocked")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	payload, err := domain.MarshalBool(blocked)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.bus.Publish(ctx, ports.Topic(id, ports.ChannelBlock), payload); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText("ok"), nil
}

func (s *Server) handleGlitchSignal(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	a := toolArgs(req)
	id, err := a.string("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	enabled, err := a.boolean("enabled")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	payload, err := domain.MarshalBool(enabled)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.bus.Publish(ctx, ports.Topic(id, ports.ChannelGlitches), payload); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText("ok"), nil
}

func (s *Server) handleGetGraph(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := toolArgs(req).string("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	a, ok := s.registry.Get(id)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("no such signal %q", id)), nil
	}
	data, err := domain.GraphToJSON(a.Graph())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
