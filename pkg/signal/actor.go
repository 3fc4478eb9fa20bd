// Package signal implements the per-signal actor: the startup handshake
// that discovers upstream dependency graphs, steady-state subscription to
// upstream values, the glitch-avoidance check, and value broadcast.
package signal

import (
	"context"
	"log/slog"

	"github.com/signalmesh/signalmesh/pkg/domain"
	"github.com/signalmesh/signalmesh/pkg/ports"
)

// Metrics is the subset of observability hooks an Actor reports through.
// internal/metrics implements this against prometheus counters; tests use
// a no-op implementation.
type Metrics interface {
	ValueUpdated(signalID string)
	GlitchDetected(signalID string)
	ActorSpawned(signalID string)
	ActorStopped(signalID string)
}

type noopMetrics struct{}

func (noopMetrics) ValueUpdated(string)   {}
func (noopMetrics) GlitchDetected(string) {}
func (noopMetrics) ActorSpawned(string)   {}
func (noopMetrics) ActorStopped(string)   {}

// upstream tracks everything an Actor remembers about one of its declared
// dependencies.
type upstream struct {
	id         string
	graph      *domain.SignalGraph
	hasValue   bool
	value      int64
	chain      *domain.SignalChain
	unsubscribe ports.Unsubscribe
}

// Actor is a single running signal. All state is owned by one goroutine
// (run); every other method communicates with it by enqueuing a closure on
// inbox and, where a result is needed, waiting on a channel created for
// that call. This is the Go equivalent of the single-threaded,
// one-message-at-a-time processing every actor in the mesh relies on.
type Actor struct {
	id      string
	bus     ports.Bus
	logger  *slog.Logger
	metrics Metrics

	inbox  chan func()
	done   chan struct{}
	cancel context.CancelFunc

	self         *domain.SignalGraph
	graph        *domain.SignalGraph
	operator     domain.CombineOp
	dependencies []string
	upstreams    map[string]*upstream
	apexes       map[string]struct{}

	value           int64
	eventCounter    int
	blocked         bool
	glitchAvoidance bool

	unsubSendGraph  ports.Unsubscribe
	unsubIncrement  ports.Unsubscribe
	unsubBlock      ports.Unsubscribe
	unsubGlitches   ports.Unsubscribe
	unsubPrint      ports.Unsubscribe
	unsubPrintGraph ports.Unsubscribe
}

// Option configures an Actor at construction time.
type Option func(*Actor)

// WithLogger overrides the actor's logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *Actor) { a.logger = l }
}

// WithMetrics overrides the actor's metrics sink.
func WithMetrics(m Metrics) Option {
	return func(a *Actor) { a.metrics = m }
}

// Spawn creates and starts a signal actor for cfg. It blocks until the
// actor has resolved every declared dependency's graph, built its own
// SignalGraph, and subscribed to every upstream's value channel — the
// point at which the original implementation completes its startup
// future. A zero-dependency signal resolves immediately as a leaf.
func Spawn(ctx context.Context, cfg domain.SignalConfig, bus ports.Bus, opts ...Option) (*Actor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a := &Actor{
		id:           cfg.ID,
		bus:          bus,
		logger:       slog.Default(),
		metrics:      noopMetrics{},
		inbox:        make(chan func(), 32),
		done:         make(chan struct{}),
		operator:     cfg.Operator,
		dependencies: cfg.Dependencies,
		upstreams:    make(map[string]*upstream),
		self:         domain.NewSignalGraph(cfg.ID),
	}
	for _, opt := range opts {
		opt(a)
	}
	if cfg.InitialValue != nil {
		a.value = *cfg.InitialValue
	}

	runCtx, cancel := context.WithCancel(ctx)
	a.cancel = cancel
	go a.run(runCtx)

	ready := make(chan error, 1)
	a.inbox <- func() { ready <- a.start(runCtx) }
	if err := <-ready; err != nil {
		a.Stop()
		return nil, err
	}

	a.metrics.ActorSpawned(a.id)
	return a, nil
}

// run is the actor's single serialization point: every exported method
// funnels through inbox, so no two closures ever execute concurrently.
func (a *Actor) run(ctx context.Context) {
	defer close(a.done)
	for {
		select {
		case fn := <-a.inbox:
			fn()
		case <-ctx.Done():
			return
		}
	}
}

// enqueue runs fn on the actor's goroutine and blocks until it returns.
func (a *Actor) enqueue(fn func()) {
	done := make(chan struct{})
	select {
	case a.inbox <- func() { fn(); close(done) }:
		<-done
	case <-a.done:
	}
}

func (a *Actor) start(ctx context.Context) error {
	tracker := NewDependencyTracker(a.bus, a.logger)
	depGraphs, err := tracker.GatherDependencies(ctx, a.dependencies)
	if err != nil {
		return err
	}

	for i, depID := range a.dependencies {
		a.upstreams[depID] = &upstream{id: depID, graph: depGraphs[i]}
	}
	a.graph = domain.NewSignalGraph(a.id, depGraphs...)
	a.apexes = diamondApexes(a.graph)

	unsub, err := a.bus.Respond(ctx, ports.Topic(a.id, ports.ChannelSendGraph), a.handleSendGraph)
	if err != nil {
		return err
	}
	a.unsubSendGraph = unsub

	if a.unsubIncrement, err = a.bus.Subscribe(ctx, ports.Topic(a.id, ports.ChannelIncrement), a.handleIncrement); err != nil {
		return err
	}
	if a.unsubBlock, err = a.bus.Subscribe(ctx, ports.Topic(a.id, ports.ChannelBlock), a.handleBlock); err != nil {
		return err
	}
	if a.unsubGlitches, err = a.bus.Subscribe(ctx, ports.Topic(a.id, ports.ChannelGlitches), a.handleGlitches); err != nil {
		return err
	}
	if a.unsubPrint, err = a.bus.Subscribe(ctx, ports.Topic(a.id, ports.ChannelPrint), a.handlePrint); err != nil {
		return err
	}
	if a.unsubPrintGraph, err = a.bus.Subscribe(ctx, ports.Topic(a.id, ports.ChannelPrintGraph), a.handlePrintGraph); err != nil {
		return err
	}

	for _, depID := range a.dependencies {
		depID := depID
		unsub, err := a.bus.Subscribe(ctx, ports.Topic(depID, ports.ChannelValue), func(m ports.Message) {
			a.enqueue(func() { a.handleUpstreamValue(depID, m.Payload) })
		})
		if err != nil {
			return err
		}
		a.upstreams[depID].unsubscribe = unsub
	}

	a.logger.Info("signal ready", "id", a.id, "dependencies", a.dependencies)
	return nil
}

// diamondApexes returns the set of ids at which two or more of graph's
// root-to-leaf paths conflict — the ids a fan-in signal must watch for
// stale/divergent provenance before trusting a recomputation.
func diamondApexes(graph *domain.SignalGraph) map[string]struct{} {
	paths := graph.AllPaths()
	apexes := make(map[string]struct{})
	for i := 0; i < len(paths); i++ {
		for j := i + 1; j < len(paths); j++ {
			for _, id := range paths[i].GetConflicts(paths[j]) {
				apexes[id] = struct{}{}
			}
		}
	}
	return apexes
}

// Stop halts the actor's goroutine and detaches every subscription it
// holds. It does not publish a final value.
func (a *Actor) Stop() {
	for _, unsub := range []ports.Unsubscribe{
		a.unsubSendGraph, a.unsubIncrement, a.unsubBlock,
		a.unsubGlitches, a.unsubPrint, a.unsubPrintGraph,
	} {
		if unsub != nil {
			_ = unsub()
		}
	}
	for _, u := range a.upstreams {
		if u.unsubscribe != nil {
			_ = u.unsubscribe()
		}
	}
	if a.cancel != nil {
		a.cancel()
	}
	<-a.done
	a.metrics.ActorStopped(a.id)
}

// ID returns the signal's identifier.
func (a *Actor) ID() string { return a.id }

// Value returns the signal's current value.
func (a *Actor) Value() int64 {
	var v int64
	a.enqueue(func() { v = a.value })
	return v
}

// Graph returns the signal's resolved SignalGraph.
func (a *Actor) Graph() *domain.SignalGraph {
	var g *domain.SignalGraph
	a.enqueue(func() { g = a.graph })
	return g
}

// Blocked reports whether the signal is currently suppressing broadcasts.
func (a *Actor) Blocked() bool {
	var b bool
	a.enqueue(func() { b = a.blocked })
	return b
}

// GlitchAvoidance reports whether glitch checking is enabled.
func (a *Actor) GlitchAvoidance() bool {
	var b bool
	a.enqueue(func() { b = a.glitchAvoidance })
	return b
}

func (a *Actor) handleSendGraph(ctx context.Context, _ []byte) ([]byte, error) {
	var data []byte
	var err error
	a.enqueue(func() { data, err = domain.GraphToJSON(a.graph) })
	return data, err
}

func (a *Actor) handleIncrement(ports.Message) {
	a.enqueue(func() {
		a.recompute(a.value+1, nil, "")
	})
}

func (a *Actor) handleBlock(m ports.Message) {
	blocked, err := domain.BoolBody(m.Payload)
	if err != nil {
		a.logger.Warn("malformed block body", "id", a.id, "err", err)
		return
	}
	a.enqueue(func() { a.blocked = blocked })
}

func (a *Actor) handleGlitches(m ports.Message) {
	enabled, err := domain.BoolBody(m.Payload)
	if err != nil {
		a.logger.Warn("malformed glitches body", "id", a.id, "err", err)
		return
	}
	a.enqueue(func() { a.glitchAvoidance = enabled })
}

func (a *Actor) handlePrint(ports.Message) {
	a.enqueue(func() {
		a.logger.Info("signal value", "id", a.id, "value", a.value, "blocked", a.blocked)
	})
}

func (a *Actor) handlePrintGraph(ports.Message) {
	a.enqueue(func() {
		a.logger.Info("signal graph", "id", a.id, "dependencies", a.dependencies)
	})
}

// handleUpstreamValue processes an inbound value update from one of this
// actor's declared dependencies. It always runs on the actor's own
// goroutine (the caller wraps delivery in enqueue), so lastValues/lastChain
// bookkeeping is race-free without extra locking.
func (a *Actor) handleUpstreamValue(depID string, payload []byte) {
	update, err := domain.UnmarshalValueUpdate(payload)
	if err != nil {
		a.logger.Warn("malformed value update", "id", a.id, "from", depID, "err", err)
		return
	}

	u, ok := a.upstreams[depID]
	if !ok {
		return
	}
	u.hasValue = true
	u.value = update.Value
	u.chain = update.Chain

	if len(a.dependencies) == 1 {
		args := []int64{u.value}
		if result, ok := a.applyOperator(args); ok {
			a.recompute(result, update.Chain, depID)
		}
		return
	}

	for _, id := range a.dependencies {
		if !a.upstreams[id].hasValue {
			return // fan-in not yet complete
		}
	}

	args := make([]int64, len(a.dependencies))
	for i, id := range a.dependencies {
		args[i] = a.upstreams[id].value
	}

	if a.glitchAvoidance && a.detectGlitch(depID, update.Chain) {
		a.metrics.GlitchDetected(a.id)
		a.logger.Warn("glitch detected, dropping recomputation", "id", a.id, "trigger", depID)
		return
	}

	result, ok := a.applyOperator(args)
	if !ok {
		return
	}
	a.recompute(result, update.Chain, depID)
}

// applyOperator combines args with the signal's operator. It reports false
// when the operator fails (e.g. division by zero); the caller then drops the
// update, leaving the value and event counter unchanged and broadcasting
// nothing.
func (a *Actor) applyOperator(args []int64) (int64, bool) {
	op := a.operator
	if op == "" {
		op = domain.OpIdentity
		if len(args) != 1 {
			op = domain.OpAdd
		}
	}
	result, err := domain.Apply(op, args...)
	if err != nil {
		if err == domain.ErrDivideByZero {
			a.logger.Warn("divide by zero, leaving value unchanged", "id", a.id)
		} else {
			a.logger.Warn("operator application failed", "id", a.id, "err", err)
		}
		return a.value, false
	}
	return result, true
}

// detectGlitch reports whether triggerChain disagrees with any other
// upstream's last-seen chain about the event counter recorded for a shared
// diamond apex. Per the triggering-chain-only propagation design, this
// check never rolls back lastValues — it only decides whether to suppress
// this particular recomputation.
func (a *Actor) detectGlitch(triggerID string, triggerChain *domain.SignalChain) bool {
	if len(a.apexes) == 0 {
		return false
	}
	for id, u := range a.upstreams {
		if id == triggerID || u.chain == nil {
			continue
		}
		for apex := range a.apexes {
			if !triggerChain.Contains(apex) || !u.chain.Contains(apex) {
				continue
			}
			if triggerChain.GetEventCounterFor(apex) != u.chain.GetEventCounterFor(apex) {
				return true
			}
		}
	}
	return false
}

// recompute applies newValue, builds the outgoing chain from sourceChain
// (or starts a fresh one if this update originated locally, e.g. via
// increment), and broadcasts unless the signal is blocked. sourceChain
// becomes the entire provenance of the broadcast value: only the
// triggering upstream's chain is ever carried forward on fan-in.
func (a *Actor) recompute(newValue int64, sourceChain *domain.SignalChain, triggerID string) {
	a.value = newValue
	a.eventCounter++

	outgoing := domain.NewSignalChainFrom(sourceChain)
	outgoing.Chain(a.self, a.eventCounter)

	a.logger.Info("signal value", "id", a.id, "value", a.value, "blocked", a.blocked, "trigger", triggerID)
	a.metrics.ValueUpdated(a.id)

	if a.blocked {
		return
	}

	payload, err := domain.MarshalValueUpdate(a.value, outgoing)
	if err != nil {
		a.logger.Error("failed to marshal value update", "id", a.id, "err", err)
		return
	}
	if err := a.bus.Publish(context.Background(), ports.Topic(a.id, ports.ChannelValue), payload); err != nil {
		a.logger.Error("failed to publish value update", "id", a.id, "err", err)
	}
}
