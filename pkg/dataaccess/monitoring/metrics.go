package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// StoreLatency is the duration of config store backend calls.
	StoreLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "dataaccess_store_latency",
			Help: "Duration of config store backend calls",
		},
		[]string{"backend", "query"},
	)

	// StoreTotalRequests is the total number of config store backend calls.
	StoreTotalRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dataaccess_store_total_requests",
			Help: "Total number of config store backend calls",
		},
		[]string{"backend", "query"},
	)

	// StoreErrors is the total number of failed config store backend calls.
	StoreErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dataaccess_store_errors",
			Help: "Total number of failed config store backend calls",
		},
		[]string{"backend", "query"},
	)

	// StoreGuilds is the number of guilds with a ticket configuration.
	StoreGuilds = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dataaccess_store_guilds",
			Help: "Number of guilds with a ticket configuration",
		},
	)
)

// Observe starts the metrics for a backend call. The returned function must be called with the
// result of the call once it completes.
func Observe(backend, query string) func(err error) {
	StoreTotalRequests.WithLabelValues(backend, query).Inc()
	t := prometheus.NewTimer(StoreLatency.WithLabelValues(backend, query))
	return func(err error) {
		t.ObserveDuration()
		if err != nil {
			StoreErrors.WithLabelValues(backend, query).Inc()
		}
	}
}
