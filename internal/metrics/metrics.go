// Package metrics exposes Prometheus counters for scrape runs. A nil *Metrics
// is valid and records nothing.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "premierstats"

type Metrics struct {
	registry *prometheus.Registry

	unitsScraped *prometheus.CounterVec
	unitFailures *prometheus.CounterVec
	records      *prometheus.GaugeVec
	duplicates   *prometheus.GaugeVec
	unitDuration *prometheus.HistogramVec
	lastRunUnix  prometheus.Gauge
}

// New registers the run metrics on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	auto := promauto.With(reg)

	return &Metrics{
		registry: reg,
		unitsScraped: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "units_scraped_total",
			Help:      "Units fetched and parsed successfully.",
		}, []string{"dataset"}),
		unitFailures: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unit_failures_total",
			Help:      "Units skipped because of a fetch or parse failure.",
		}, []string{"dataset", "reason"}),
		records: auto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "records_collected",
			Help:      "Records collected across all units in the last run.",
		}, []string{"dataset"}),
		duplicates: auto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "duplicates_dropped",
			Help:      "Records dropped by identity deduplication in the last run.",
		}, []string{"dataset"}),
		unitDuration: auto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scrape_duration_seconds",
			Help:      "Time spent fetching and parsing one unit, including the courtesy delay.",
			Buckets:   []float64{0.05, 0.25, 1, 2.5, 5, 10, 30, 60},
		}, []string{"dataset"}),
		lastRunUnix: auto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last run finished.",
		}),
	}
}

func (m *Metrics) UnitScraped(dataset string, took time.Duration) {
	if m == nil {
		return
	}
	m.unitsScraped.WithLabelValues(dataset).Inc()
	m.unitDuration.WithLabelValues(dataset).Observe(took.Seconds())
}

func (m *Metrics) UnitFailed(dataset, reason string, took time.Duration) {
	if m == nil {
		return
	}
	m.unitFailures.WithLabelValues(dataset, reason).Inc()
	m.unitDuration.WithLabelValues(dataset).Observe(took.Seconds())
}

func (m *Metrics) RunFinished(dataset string, records, duplicates int) {
	if m == nil {
		return
	}
	m.records.WithLabelValues(dataset).Set(float64(records))
	m.duplicates.WithLabelValues(dataset).Set(float64(duplicates))
	m.lastRunUnix.SetToCurrentTime()
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
