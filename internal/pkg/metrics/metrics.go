// Package metrics exposes Prometheus counters for the reconciliation and
// assignment pipelines.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the application counters. Each instance carries its own
// registry, so tests can construct handlers freely without duplicate
// registration panics.
type Metrics struct {
	registry *prometheus.Registry

	SyncRuns           *prometheus.CounterVec
	OrdersSynced       prometheus.Counter
	OrdersSkipped      prometheus.Counter
	CourierBookings    *prometheus.CounterVec
	CourierTransitions *prometheus.CounterVec
}

// New creates a Metrics bundle backed by a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		SyncRuns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storefront_sync_runs_total",
				Help: "Total number of storefront sync runs by result",
			},
			[]string{"result"},
		),
		OrdersSynced: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "storefront_orders_synced_total",
				Help: "Total number of order records upserted by sync",
			},
		),
		OrdersSkipped: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "storefront_orders_skipped_total",
				Help: "Total number of malformed order records skipped by sync",
			},
		),
		CourierBookings: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "courier_bookings_total",
				Help: "Total number of courier booking attempts by provider and result",
			},
			[]string{"provider", "result"},
		),
		CourierTransitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "courier_status_transitions_total",
				Help: "Total number of applied courier status transitions by target status",
			},
			[]string{"status"},
		),
	}
}

// Handler returns the HTTP handler serving this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
