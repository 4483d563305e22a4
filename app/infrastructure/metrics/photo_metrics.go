// Package metrics exposes photo cache counters to Prometheus.
package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"repairshop.dev/photo-gateway/app/domain/photo"
)

const namespace = "photo_gateway"

// PhotoCacheMetrics implements photo.CacheObserver.
type PhotoCacheMetrics struct {
	Lookups       *prometheus.CounterVec
	Fetches       *prometheus.CounterVec
	FetchDuration *prometheus.HistogramVec
	Evictions     *prometheus.CounterVec

	registry *prometheus.Registry
}

func NewPhotoCacheMetrics() *PhotoCacheMetrics {
	m := &PhotoCacheMetrics{
		registry: prometheus.NewRegistry(),
		Lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Photo cache lookups by kind and result",
		}, []string{"kind", "result"}),
		Fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backend_fetches_total",
			Help:      "Backend exchanges by kind, outcome and status code",
		}, []string{"kind", "outcome", "status"}),
		FetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "backend_fetch_duration_seconds",
			Help:      "Backend exchange latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind"}),
		Evictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_evictions_total",
			Help:      "Entries dropped after their eviction deadline",
		}, []string{"kind"}),
	}
	m.registry.MustRegister(
		m.Lookups,
		m.Fetches,
		m.FetchDuration,
		m.Evictions,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *PhotoCacheMetrics) Hit(kind photo.Kind) {
	m.Lookups.WithLabelValues(kind.String(), "hit").Inc()
}

func (m *PhotoCacheMetrics) Miss(kind photo.Kind) {
	m.Lookups.WithLabelValues(kind.String(), "miss").Inc()
}

func (m *PhotoCacheMetrics) FetchCompleted(kind photo.Kind, err error, elapsed time.Duration) {
	outcome, status := "ok", "200"
	if err != nil {
		outcome, status = "error", "0"
		var fetchErr *photo.FetchError
		if errors.As(err, &fetchErr) && fetchErr.StatusCode > 0 {
			status = strconv.Itoa(fetchErr.StatusCode)
		}
	}
	m.Fetches.WithLabelValues(kind.String(), outcome, status).Inc()
	m.FetchDuration.WithLabelValues(kind.String()).Observe(elapsed.Seconds())
}

func (m *PhotoCacheMetrics) Evicted(kind photo.Kind) {
	m.Evictions.WithLabelValues(kind.String()).Inc()
}

func (m *PhotoCacheMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
