// Package metrics exposes rig counters in Prometheus format
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "vjgrid"

// Metrics owns its own registry so tests and multiple rigs never collide
type Metrics struct {
	Registry *prometheus.Registry

	RoutedEvents      *prometheus.CounterVec
	DroppedInputs     prometheus.Counter
	InvalidCodes      prometheus.Counter
	SnapshotsSaved    prometheus.Counter
	SnapshotFailures  prometheus.Counter
	ActiveTransitions prometheus.Gauge
	QueueDepth        prometheus.Gauge
	TickDuration      prometheus.Histogram
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		RoutedEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "routed_events_total",
			Help:      "Grid edges routed to a domain event, by kind.",
		}, []string{"kind"}),
		DroppedInputs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dropped_inputs_total",
			Help:      "Inputs dropped because the hand-off queue was full.",
		}),
		InvalidCodes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invalid_codes_total",
			Help:      "Raw input codes outside the grid range.",
		}),
		SnapshotsSaved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshots_saved_total",
			Help:      "Snapshots captured.",
		}),
		SnapshotFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_write_failures_total",
			Help:      "Snapshot captures that could not be written durably.",
		}),
		ActiveTransitions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_transitions",
			Help:      "Parameter transitions in flight.",
		}),
		QueueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "queue_depth",
			Help:      "Inputs waiting for the next tick.",
		}),
		TickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tick_duration_seconds",
			Help:      "Time spent draining the queue and advancing transitions.",
			Buckets:   []float64{.0001, .0005, .001, .0025, .005, .01, .025},
		}),
	}

	m.Registry.MustRegister(
		m.RoutedEvents,
		m.DroppedInputs,
		m.InvalidCodes,
		m.SnapshotsSaved,
		m.SnapshotFailures,
		m.ActiveTransitions,
		m.QueueDepth,
		m.TickDuration,
	)
	return m
}

// Handler serves the registry
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// Serve listens on addr until ctx is done
func (m *Metrics) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
