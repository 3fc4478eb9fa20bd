package mcpview

import (
	"context"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signalmesh/signalmesh/internal/adapters/localbus"
	"github.com/signalmesh/signalmesh/pkg/command"
	"github.com/signalmesh/signalmesh/pkg/signal"
)

func newServer() *Server {
	bus := localbus.New()
	registry := signal.NewRegistry()
	dispatcher := command.NewDispatcher(bus, registry, nil)
	return New(dispatcher, registry, bus)
}

func callReq(name string, arguments map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = arguments
	return req
}

func TestHandleCreateSignal(t *testing.T) {
	s := newServer()

	result, err := s.handleCreateSignal(context.Background(), callReq("create_signal", map[string]any{
		"id": "a", "initialValue": float64(3),
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	a, ok := s.registry.Get("a")
	require.True(t, ok)
	assert.Equal(t, int64(3), a.Value())
}

func TestHandleCreateSignal_MissingID(t *testing.T) {
	s := newServer()

	result, err := s.handleCreateSignal(context.Background(), callReq("create_signal", map[string]any{
		"initialValue": float64(1),
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestHandleGetGraph_UnknownSignal(t *testing.T) {
	s := newServer()

	result, err := s.handleGetGraph(context.Background(), callReq("get_graph", map[string]any{
		"id": "missing",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestHandleCombineSignals(t *testing.T) {
	s := newServer()
	ctx := context.Background()

	_, err := s.handleCreateSignal(ctx, callReq("create_signal", map[string]any{"id": "a", "initialValue": float64(1)}))
	require.NoError(t, err)
	_, err = s.handleCreateSignal(ctx, callReq("create_signal", map[string]any{"id": "b", "initialValue": float64(2)}))
	require.NoError(t, err)

	result, err := s.handleCombineSignals(ctx, callReq("combine_signals", map[string]any{
		"id": "sum", "left": "a", "right": "b", "operator": "add",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)
	assert.True(t, s.registry.Has("sum"))
}
