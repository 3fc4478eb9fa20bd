package command

import (
	"context"

	"github.com/signalmesh/signalmesh/pkg/domain"
	"github.com/signalmesh/signalmesh/pkg/ports"
	"github.com/signalmesh/signalmesh/pkg/signal"
)

// CreateSignal builds a leaf (dependency-free) signal holding initialValue.
type CreateSignal struct {
	ID           string
	InitialValue int64
}

// Execute spawns the signal described by c.
func (c CreateSignal) Execute(ctx context.Context, d *Dispatcher) (*signal.Actor, error) {
	v := c.InitialValue
	return d.CreateSignal(ctx, domain.SignalConfig{ID: c.ID, InitialValue: &v})
}

// MapSignal builds a single-dependency signal that transforms upstream's
// value with op (or passes it through unchanged for domain.OpIdentity).
type MapSignal struct {
	ID         string
	Upstream   string
	Operator   domain.CombineOp
}

// Execute spawns the signal described by c.
func (c MapSignal) Execute(ctx context.Context, d *Dispatcher) (*signal.Actor, error) {
	op := c.Operator
	if op == "" {
		op = domain.OpIdentity
	}
	return d.CreateSignal(ctx, domain.SignalConfig{
		ID:           c.ID,
		Operator:     op,
		Dependencies: []string{c.Upstream},
	})
}

// CombineSymbols builds a two-dependency signal that combines left and
// right with op, in that order.
type CombineSymbols struct {
	ID       string
	Left     string
	Right    string
	Operator domain.CombineOp
}

// Execute spawns the signal described by c.
func (c CombineSymbols) Execute(ctx context.Context, d *Dispatcher) (*signal.Actor, error) {
	return d.CreateSignal(ctx, domain.SignalConfig{
		ID:           c.ID,
		Operator:     c.Operator,
		Dependencies: []string{c.Left, c.Right},
	})
}

// Increment publishes on signals.<id>.increment.
type Increment struct {
	ID string
}

// Execute publishes the increment request on the bus.
func (c Increment) Execute(ctx context.Context, bus ports.Bus) error {
	return bus.Publish(ctx, ports.Topic(c.ID, ports.ChannelIncrement), nil)
}

// BlockSignal publishes a boolean body on signals.<id>.block.
type BlockSignal struct {
	ID      string
	Blocked bool
}

// Execute publishes the block request on the bus.
func (c BlockSignal) Execute(ctx context.Context, bus ports.Bus) error {
	payload, err := domain.MarshalBool(c.Blocked)
	if err != nil {
		return err
	}
	return bus.Publish(ctx, ports.Topic(c.ID, ports.ChannelBlock), payload)
}

// GlitchSignal publishes a boolean body on signals.<id>.glitches.
type GlitchSignal struct {
	ID      string
	Enabled bool
}

// Execute publishes the glitch-avoidance toggle on the bus.
func (c GlitchSignal) Execute(ctx context.Context, bus ports.Bus) error {
	payload, err := domain.MarshalBool(c.Enabled)
	if err != nil {
		return err
	}
	return bus.Publish(ctx, ports.Topic(c.ID, ports.ChannelGlitches), payload)
}

// PrintSignal publishes on signals.<id>.print.
type PrintSignal struct {
	ID string
}

// Execute publishes the print request on the bus.
func (c PrintSignal) Execute(ctx context.Context, bus ports.Bus) error {
	return bus.Publish(ctx, ports.Topic(c.ID, ports.ChannelPrint), nil)
}

// PrintGraph publishes on signals.<id>.print.graph.
type PrintGraph struct {
	ID string
}

// Execute publishes the graph-print request on the bus.
func (c PrintGraph) Execute(ctx context.Context, bus ports.Bus) error {
	return bus.Publish(ctx, ports.Topic(c.ID, ports.ChannelPrintGraph), nil)
}
