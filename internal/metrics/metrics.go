// Package metrics exposes the signal mesh's counters and gauges to
// Prometheus, implementing signal.Metrics against real collectors instead
// of leaving it as an example-only dependency.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Registry wires a signal.Metrics implementation to a set of Prometheus
// collectors. Register it on any promhttp handler to expose /metrics.
type Registry struct {
	updates  *prometheus.CounterVec
	glitches *prometheus.CounterVec
	actors   prometheus.Gauge
}

// New creates and registers the signal mesh's collectors against reg.
func New(reg prometheus.Registerer) *Registry {
	r := &Registry{
		updates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "signal_updates_total",
			Help: "Number of times a signal's value was recomputed, whether or not it was broadcast.",
		}, []string{"signal_id"}),
		glitches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "signal_glitches_detected_total",
			Help: "Number of fan-in recomputations dropped due to a detected glitch.",
		}, []string{"signal_id"}),
		actors: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "signal_actors_active",
			Help: "Number of currently running signal actors.",
		}),
	}
	reg.MustRegister(r.updates, r.glitches, r.actors)
	return r
}

// ValueUpdated implements signal.Metrics.
func (r *Registry) ValueUpdated(signalID string) {
	r.updates.WithLabelValues(signalID).Inc()
}

// GlitchDetected implements signal.Metrics.
func (r *Registry) GlitchDetected(signalID string) {
	r.glitches.WithLabelValues(signalID).Inc()
}

// ActorSpawned implements signal.Metrics.
func (r *Registry) ActorSpawned(string) {
	r.actors.Inc()
}

// ActorStopped implements signal.Metrics.
func (r *Registry) ActorStopped(string) {
	r.actors.Dec()
}
