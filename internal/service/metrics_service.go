package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the community API.
type MetricsService struct {
	registry         *prometheus.Registry
	handler          http.Handler
	requestDuration  *prometheus.HistogramVec
	requestTotal     *prometheus.CounterVec
	cacheLatency     prometheus.Observer
	cacheWrite       prometheus.Observer
	cacheLookups     *prometheus.CounterVec
	mutations        *prometheus.CounterVec
	recomputes       *prometheus.CounterVec
	moderation       *prometheus.CounterVec
	recomputeLatency prometheus.Observer
	flaggedQueue     prometheus.Gauge
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	cacheLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_latency_seconds",
		Help:    "Latency for cache operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheWrite := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_write_seconds",
		Help:    "Latency for cache set operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheLookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cache_lookups_total",
		Help: "Cache lookups by result",
	}, []string{"result"})

	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "content_mutations_total",
		Help: "Committed content mutations by entity and action",
	}, []string{"entity", "action"})

	recomputes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "aggregate_recomputes_total",
		Help: "Aggregate recomputations by target and outcome",
	}, []string{"target", "outcome"})

	moderation := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "moderation_actions_total",
		Help: "Moderation transitions applied to surveys",
	}, []string{"action"})

	recomputeLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "aggregate_recompute_seconds",
		Help:    "Latency of eager aggregate recomputation",
		Buckets: prometheus.DefBuckets,
	})

	flaggedQueue := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "moderation_queue_depth",
		Help: "Flagged surveys observed at the last queue listing",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheLatency, cacheWrite, cacheLookups, mutations,
		recomputes, moderation, recomputeLatency, flaggedQueue, goroutines)

	return &MetricsService{
		registry:         registry,
		handler:          promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:  requestDuration,
		requestTotal:     requestTotal,
		cacheLatency:     cacheLatency,
		cacheWrite:       cacheWrite,
		cacheLookups:     cacheLookups,
		mutations:        mutations,
		recomputes:       recomputes,
		moderation:       moderation,
		recomputeLatency: recomputeLatency,
		flaggedQueue:     flaggedQueue,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordCacheOperation records a cache hit or miss.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLatency.Observe(duration.Seconds())
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

// ObserveCacheWrite tracks the duration for cache write operations.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheWrite.Observe(duration.Seconds())
}

// RecordMutation counts a committed write.
func (m *MetricsService) RecordMutation(entity, action string) {
	if m == nil {
		return
	}
	m.mutations.WithLabelValues(entity, action).Inc()
}

// RecordRecompute counts an aggregate recomputation attempt.
func (m *MetricsService) RecordRecompute(target string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.recomputes.WithLabelValues(target, outcome).Inc()
	m.recomputeLatency.Observe(duration.Seconds())
}

// RecordModeration counts a moderation transition.
func (m *MetricsService) RecordModeration(action string) {
	if m == nil {
		return
	}
	m.moderation.WithLabelValues(action).Inc()
}

// SetFlaggedQueueDepth publishes the size of the moderation queue.
func (m *MetricsService) SetFlaggedQueueDepth(total int) {
	if m == nil {
		return
	}
	m.flaggedQueue.Set(float64(total))
}
