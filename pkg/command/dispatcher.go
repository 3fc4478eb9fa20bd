// Package command implements the thin request-builder objects external
// callers (the outer REPL/command parser, out of scope for this module)
// use to drive the signal mesh: spawning signals, mutating their runtime
// flags, and requesting print/graph output.
package command

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/signalmesh/signalmesh/pkg/domain"
	"github.com/signalmesh/signalmesh/pkg/ports"
	"github.com/signalmesh/signalmesh/pkg/signal"
)

// Dispatcher executes commands against a local Registry of live actors and
// the shared Bus. It is the boundary where spawn requests are validated
// for duplicate ids and dependency cycles, since a cycle or duplicate is
// meaningless for any single Actor to detect on its own.
type Dispatcher struct {
	bus      ports.Bus
	registry *signal.Registry
	logger   *slog.Logger
	metrics  signal.Metrics

	// known records the declared dependency list for every signal this
	// dispatcher has spawned, so cycle detection can crawl dependencies
	// that are not (yet, or ever) locally registered actors.
	known map[string][]string
}

// NewDispatcher builds a Dispatcher backed by bus, tracking actors in
// registry.
func NewDispatcher(bus ports.Bus, registry *signal.Registry, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		bus:      bus,
		registry: registry,
		logger:   logger,
		known:    make(map[string][]string),
	}
}

// WithMetrics attaches a metrics sink every signal spawned from here on
// will report through.
func (d *Dispatcher) WithMetrics(m signal.Metrics) *Dispatcher {
	d.metrics = m
	return d
}

// CreateSignal spawns a new signal for cfg. It rejects a duplicate id and
// any dependency list that would introduce a cycle before ever touching
// the bus.
func (d *Dispatcher) CreateSignal(ctx context.Context, cfg domain.SignalConfig) (*signal.Actor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if d.registry.Has(cfg.ID) {
		return nil, fmt.Errorf("%w: %q", domain.ErrDuplicateSignal, cfg.ID)
	}
	if d.wouldCycle(cfg.ID, cfg.Dependencies) {
		return nil, fmt.Errorf("%w: %q depends on %v", domain.ErrCyclicDependency, cfg.ID, cfg.Dependencies)
	}

	var opts []signal.Option
	opts = append(opts, signal.WithLogger(d.logger))
	if d.metrics != nil {
		opts = append(opts, signal.WithMetrics(d.metrics))
	}

	a, err := signal.Spawn(ctx, cfg, d.bus, opts...)
	if err != nil {
		return nil, err
	}
	if err := d.registry.Add(a); err != nil {
		a.Stop()
		return nil, err
	}
	d.known[cfg.ID] = cfg.Dependencies
	return a, nil
}

// wouldCycle reports whether adding id with the given dependencies would
// create a cycle, by breadth-first crawling outward from each dependency
// through the dependency lists this dispatcher already knows about. This
// mirrors the teacher's graph-crawling validator, applied to dependency
// edges instead of state transitions.
func (d *Dispatcher) wouldCycle(id string, dependencies []string) bool {
	visited := map[string]bool{id: true}
	queue := append([]string{}, dependencies...)
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if next == id {
			return true
		}
		if visited[next] {
			continue
		}
		visited[next] = true
		queue = append(queue, d.known[next]...)
	}
	return false
}
