// Package metrics exposes parceltrack's Prometheus metrics: events processed
// per center/scanner, trouble events emitted per type, and the coordination
// store's outstanding-work gauges. Adapted from the teacher's pkg/metrics
// (same init-time MustRegister, Timer, and promhttp.Handler pattern), with
// the cluster/raft/ingress catalog replaced by the pipeline's own.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	EventsProcessedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parceltrack_events_processed_total",
			Help: "Total scan events processed by sorting center and scanner",
		},
		[]string{"sorting_center", "scanner_id"},
	)

	TroubleEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parceltrack_trouble_events_total",
			Help: "Total trouble events emitted by type and sorting center",
		},
		[]string{"event_type", "sorting_center"},
	)

	NextPackageEventBacklog = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "parceltrack_next_package_event_backlog",
			Help: "Size of the next_package_event coordination sorted set",
		},
	)

	LatePackagesBacklog = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "parceltrack_late_packages_backlog",
			Help: "Size of the late_packages coordination set",
		},
	)

	StageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "parceltrack_stage_duration_seconds",
			Help:    "Time taken to run one pipeline stage for one event",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"stage"},
	)

	ImportedEventsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "parceltrack_imported_events_total",
			Help: "Total events routed by the import command",
		},
	)
)

func init() {
	prometheus.MustRegister(EventsProcessedTotal)
	prometheus.MustRegister(TroubleEventsTotal)
	prometheus.MustRegister(NextPackageEventBacklog)
	prometheus.MustRegister(LatePackagesBacklog)
	prometheus.MustRegister(StageDuration)
	prometheus.MustRegister(ImportedEventsTotal)
}

// Handler returns the Prometheus HTTP scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer times one operation for later observation into a histogram.
type Timer struct {
	start time.Time
}

// NewTimer starts a timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ObserveDuration records the elapsed time into histogram.
func (t *Timer) ObserveDuration(histogram prometheus.Histogram) {
	histogram.Observe(time.Since(t.start).Seconds())
}

// ObserveDurationVec records the elapsed time into a labeled histogram.
func (t *Timer) ObserveDurationVec(histogram prometheus.ObserverVec, labels ...string) {
	histogram.WithLabelValues(labels...).Observe(time.Since(t.start).Seconds())
}

// Duration returns the elapsed time since the timer started.
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
