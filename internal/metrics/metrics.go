// Package metrics exposes Prometheus instrumentation for the game server.
// It is purely observational: nothing in internal/server reads these
// collectors back, and the HTTP endpoint it serves carries no mutation of
// game state. Grounded on psubacz-dungeongate/pkg/metrics/prometheus.go's
// promauto + promhttp idiom, trimmed to this service's own counters.
package metrics

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds every collector the server increments.
type Registry struct {
	DatagramsReceived prometheus.Counter
	DatagramsSent     prometheus.Counter
	BytesSent         prometheus.Counter
	ActiveSlots       prometheus.Gauge
	GamesStarted      prometheus.Counter
	RoundTicks        prometheus.Counter
	ProtocolErrors    *prometheus.CounterVec

	server *http.Server
}

// NewRegistry constructs and registers every collector under the "worms"
// namespace against the default Prometheus registry.
func NewRegistry() *Registry {
	return newRegistry(promauto.With(prometheus.DefaultRegisterer))
}

// NewRegistryFor constructs and registers every collector against a
// caller-supplied Prometheus registerer. Production code should use
// NewRegistry; this exists so tests can avoid colliding with the global
// default registry across test cases.
func NewRegistryFor(reg prometheus.Registerer) *Registry {
	return newRegistry(promauto.With(reg))
}

func newRegistry(f promauto.Factory) *Registry {
	return &Registry{
		DatagramsReceived: f.NewCounter(prometheus.CounterOpts{
			Namespace: "worms",
			Name:      "datagrams_received_total",
			Help:      "Total UDP datagrams received from clients.",
		}),
		DatagramsSent: f.NewCounter(prometheus.CounterOpts{
			Namespace: "worms",
			Name:      "datagrams_sent_total",
			Help:      "Total UDP datagrams sent to clients.",
		}),
		BytesSent: f.NewCounter(prometheus.CounterOpts{
			Namespace: "worms",
			Name:      "bytes_sent_total",
			Help:      "Total bytes sent to clients.",
		}),
		ActiveSlots: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "worms",
			Name:      "active_slots",
			Help:      "Number of currently active client slots.",
		}),
		GamesStarted: f.NewCounter(prometheus.CounterOpts{
			Namespace: "worms",
			Name:      "games_started_total",
			Help:      "Total number of games initiated.",
		}),
		RoundTicks: f.NewCounter(prometheus.CounterOpts{
			Namespace: "worms",
			Name:      "round_ticks_total",
			Help:      "Total number of round ticks processed.",
		}),
		ProtocolErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "worms",
			Name:      "protocol_errors_total",
			Help:      "Total discarded/rejected inbound datagrams, by reason.",
		}, []string{"reason"}),
	}
}

// Serve starts the /metrics HTTP endpoint on port. A port of 0 means the
// caller should not call Serve at all (metrics disabled).
func (r *Registry) Serve(port int) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	r.server = &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux}
	return r.server.ListenAndServe()
}

// Shutdown gracefully stops the metrics HTTP server, if running.
func (r *Registry) Shutdown(ctx context.Context) error {
	if r.server == nil {
		return nil
	}
	return r.server.Shutdown(ctx)
}
