// Package prometheus exposes the service's operational metrics on a private
// registry, keeping the default global registry untouched so tests can build
// as many instances as they like.
package prometheus

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pharmyrus/pharmyrus/internal/domain/credential"
	domain "github.com/pharmyrus/pharmyrus/internal/domain/discovery"
)

const namespace = "pharmyrus"

// PoolStatusFunc reports the current credential pool summary.  The pool's
// Status method satisfies it directly.
type PoolStatusFunc func(ctx context.Context) (*credential.PoolStatus, error)

// Metrics holds every collector the service registers.  It satisfies the
// discovery pipeline's Recorder contract.
type Metrics struct {
	registry   *prometheus.Registry
	poolStatus PoolStatusFunc

	searchDuration prometheus.Histogram
	searchResults  prometheus.Histogram
	searchTotal    prometheus.Counter

	stageCalls    *prometheus.CounterVec
	stageFailures *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec

	poolAvailable prometheus.Gauge
	poolUsed      prometheus.Gauge
	poolCapacity  prometheus.Gauge
}

// NewMetrics builds and registers all collectors on a fresh registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: registry,
		searchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Wall time of complete discovery runs.",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300},
		}),
		searchResults: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_results",
			Help:      "Unique national-phase records per discovery run.",
			Buckets:   []float64{0, 1, 2, 4, 8, 16, 32},
		}),
		searchTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_total",
			Help:      "Completed discovery runs.",
		}),
		stageCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stage_calls_total",
			Help:      "External provider calls per pipeline stage.",
		}, []string{"stage"}),
		stageFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stage_failures_total",
			Help:      "Recovered per-call failures per pipeline stage.",
		}, []string{"stage"}),
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Wall time per pipeline stage.",
			Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120},
		}, []string{"stage"}),
		poolAvailable: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "keypool_available",
			Help:      "Credentials with remaining monthly quota.",
		}),
		poolUsed: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "keypool_used_total",
			Help:      "Issuances counted against the current month across all credentials.",
		}),
		poolCapacity: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "keypool_capacity",
			Help:      "Total monthly quota across all credentials.",
		}),
	}

	registry.MustRegister(
		m.searchDuration,
		m.searchResults,
		m.searchTotal,
		m.stageCalls,
		m.stageFailures,
		m.stageDuration,
		m.poolAvailable,
		m.poolUsed,
		m.poolCapacity,
	)
	return m
}

// ObserveStage records one stage execution.
func (m *Metrics) ObserveStage(stage string, outcome domain.StageOutcome, elapsed time.Duration) {
	m.stageCalls.WithLabelValues(stage).Add(float64(outcome.Calls))
	m.stageFailures.WithLabelValues(stage).Add(float64(outcome.Failures))
	m.stageDuration.WithLabelValues(stage).Observe(elapsed.Seconds())
}

// ObserveSearch records one completed discovery run.
func (m *Metrics) ObserveSearch(elapsed time.Duration, found int) {
	m.searchTotal.Inc()
	m.searchDuration.Observe(elapsed.Seconds())
	m.searchResults.Observe(float64(found))
}

// SetPoolStatus publishes the credential pool gauges.
func (m *Metrics) SetPoolStatus(available, usedTotal, capacity int) {
	m.poolAvailable.Set(float64(available))
	m.poolUsed.Set(float64(usedTotal))
	m.poolCapacity.Set(float64(capacity))
}

// WatchPool registers the status source the pool gauges are refreshed from
// on every scrape.  Must be called before Handler is exposed.
func (m *Metrics) WatchPool(fn PoolStatusFunc) {
	m.poolStatus = fn
}

// Handler serves the registry in the Prometheus exposition format.  When a
// pool status source is registered, the pool gauges are refreshed before
// each scrape; a status failure keeps the previous values.
func (m *Metrics) Handler() http.Handler {
	base := promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
	if m.poolStatus == nil {
		return base
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if status, err := m.poolStatus(r.Context()); err == nil {
			m.SetPoolStatus(status.Available, status.UsedTotal, status.Capacity)
		}
		base.ServeHTTP(w, r)
	})
}
