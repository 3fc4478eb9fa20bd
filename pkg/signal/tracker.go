package signal

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/signalmesh/signalmesh/pkg/domain"
	"github.com/signalmesh/signalmesh/pkg/ports"
)

// DefaultDependencyTimeout bounds how long GatherDependencies waits for any
// single upstream to answer a sendGraph request before giving up.
const DefaultDependencyTimeout = 5 * time.Second

// DependencyTracker resolves the SignalGraph for each declared upstream
// dependency before a signal can build its own graph and subscribe to
// their value channels. It mirrors the startup handshake the original
// Signal actor performs via its GraphReceiver: one sendGraph request per
// dependency, in declaration order, collected into a single slice.
type DependencyTracker struct {
	bus     ports.Bus
	timeout time.Duration
	logger  *slog.Logger
}

// NewDependencyTracker builds a tracker that issues requests over bus.
func NewDependencyTracker(bus ports.Bus, logger *slog.Logger) *DependencyTracker {
	if logger == nil {
		logger = slog.Default()
	}
	return &DependencyTracker{bus: bus, timeout: DefaultDependencyTimeout, logger: logger}
}

// WithTimeout overrides the per-dependency request timeout.
func (t *DependencyTracker) WithTimeout(d time.Duration) *DependencyTracker {
	t.timeout = d
	return t
}

// GatherDependencies requests the SignalGraph for each id in dependencies,
// in order, and returns the resolved graphs in the same order. It fails
// fast on the first dependency that times out or replies with a malformed
// body.
func (t *DependencyTracker) GatherDependencies(ctx context.Context, dependencies []string) ([]*domain.SignalGraph, error) {
	graphs := make([]*domain.SignalGraph, 0, len(dependencies))
	for _, depID := range dependencies {
		reqCtx, cancel := context.WithTimeout(ctx, t.timeout)
		reply, err := t.bus.Request(reqCtx, ports.Topic(depID, ports.ChannelSendGraph), nil)
		cancel()
		if err != nil {
			return nil, fmt.Errorf("%w: dependency %q: %v", domain.ErrDependencyTimeout, depID, err)
		}

		graph, err := domain.GraphFromJSON(reply)
		if err != nil {
			return nil, fmt.Errorf("%w: dependency %q: %v", domain.ErrMalformedMessage, depID, err)
		}
		if graph == nil {
			return nil, fmt.Errorf("%w: dependency %q has no graph yet", domain.ErrDependencyTimeout, depID)
		}
		graphs = append(graphs, graph)
	}

	t.logger.Info("dependencies resolved", "count", len(graphs), "ids", dependencies)
	return graphs, nil
}
