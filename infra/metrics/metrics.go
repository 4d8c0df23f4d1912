// Package metrics exposes the engine's Prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

var (
	EventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "mbo_events_total", Help: "Processed MBO events by action"},
		[]string{"action"},
	)
	EventErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "mbo_event_errors_total", Help: "Failed MBO events by error kind"},
		[]string{"kind"},
	)
	BookDepthLevels = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{Name: "book_depth_levels", Help: "Price levels per side"},
		[]string{"side"},
	)
	BookRestingOrders = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "book_resting_orders", Help: "Resting orders across both sides"},
	)
	SnapshotsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "mbp_snapshots_total", Help: "MBP snapshots cut"},
	)
	SnapshotsPublishedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "mbp_snapshots_published_total", Help: "MBP snapshots published to Kafka"},
	)
	FeedDecodeErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "feed_decode_errors_total", Help: "Feed records that failed to decode"},
	)
)

// Init registers all collectors on a fresh registry.
func Init(logger zerolog.Logger) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	toRegister := []prometheus.Collector{
		EventsTotal, EventErrorsTotal,
		BookDepthLevels, BookRestingOrders,
		SnapshotsTotal, SnapshotsPublishedTotal, FeedDecodeErrorsTotal,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	}
	for _, c := range toRegister {
		if err := reg.Register(c); err != nil {
			logger.Warn().Err(err).Msg("metric registration failed")
		}
	}
	return reg
}

// Handler serves the registry over HTTP.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
