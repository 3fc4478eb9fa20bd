package signalmesh

import (
	"context"
	"io"
	"log/slog"

	"github.com/signalmesh/signalmesh/internal/adapters/localbus"
	"github.com/signalmesh/signalmesh/pkg/command"
	"github.com/signalmesh/signalmesh/pkg/domain"
	"github.com/signalmesh/signalmesh/pkg/ports"
	"github.com/signalmesh/signalmesh/pkg/signal"
)

// Mesh is the high-level entry point for embedding signalmesh in a host
// application. It wraps a Bus, a Registry of live actors, and the
// Dispatcher that spawns them behind a single import.
type Mesh struct {
	bus        ports.Bus
	registry   *signal.Registry
	dispatcher *command.Dispatcher
	logger     *slog.Logger
	metrics    signal.Metrics
}

// Option configures a Mesh at construction time.
type Option func(*Mesh)

// WithBus injects a custom Bus, bypassing the default in-memory one. Use
// this to join a shared redisbus.Bus instead of a private localbus.Bus.
func WithBus(bus ports.Bus) Option {
	return func(m *Mesh) {
		m.bus = bus
	}
}

// WithLogger sets a structured logger every spawned actor logs through.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Mesh) {
		m.logger = logger
	}
}

// WithMetrics attaches a metrics sink every actor spawned from here on
// reports through.
func WithMetrics(metrics signal.Metrics) Option {
	return func(m *Mesh) {
		m.metrics = metrics
	}
}

// New builds a Mesh. With no options it runs entirely in-process over a
// private in-memory bus.
func New(opts ...Option) *Mesh {
	m := &Mesh{registry: signal.NewRegistry()}
	for _, opt := range opts {
		opt(m)
	}
	if m.bus == nil {
		m.bus = localbus.New()
	}
	if m.logger == nil {
		m.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	m.dispatcher = command.NewDispatcher(m.bus, m.registry, m.logger)
	if m.metrics != nil {
		m.dispatcher.WithMetrics(m.metrics)
	}
	return m
}

// CreateSignal spawns a new signal for cfg.
func (m *Mesh) CreateSignal(ctx context.Context, cfg domain.SignalConfig) (*signal.Actor, error) {
	return m.dispatcher.CreateSignal(ctx, cfg)
}

// Get returns the live actor for id, if this Mesh spawned it.
func (m *Mesh) Get(id string) (*signal.Actor, bool) {
	return m.registry.Get(id)
}

// IDs returns the ids of every actor this Mesh has spawned.
func (m *Mesh) IDs() []string {
	return m.registry.IDs()
}

// Bus returns the underlying Bus, for wiring additional adapters (HTTP,
// MCP) against the same mesh.
func (m *Mesh) Bus() ports.Bus {
	return m.bus
}

// Registry returns the underlying Registry, for wiring additional
// adapters against the same mesh.
func (m *Mesh) Registry() *signal.Registry {
	return m.registry
}

// Close stops every actor this Mesh spawned and closes the bus.
func (m *Mesh) Close() error {
	for _, id := range m.registry.IDs() {
		m.registry.Remove(id)
	}
	return m.bus.Close()
}
