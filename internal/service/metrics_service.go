package service

import (
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/daycard-scheduler/internal/models"
)

// Shift outcomes recorded on the schedule_shifts_total counter.
const (
	ShiftOutcomeApplied  = "applied"
	ShiftOutcomePreview  = "preview"
	ShiftOutcomeRejected = "rejected"
	ShiftOutcomeConflict = "conflict"
)

// MetricsService owns the Prometheus registry and keeps running totals for snapshots.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheLatency    prometheus.Histogram
	cacheWrite      prometheus.Histogram
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	dbQueryDuration *prometheus.HistogramVec
	shiftTotal      *prometheus.CounterVec
	shiftedSlots    prometheus.Histogram
	shiftDuration   prometheus.Histogram

	cacheHitCount        atomic.Uint64
	cacheMissCount       atomic.Uint64
	requestCount         atomic.Uint64
	requestDurationTotal atomic.Uint64
	dbQueryCount         atomic.Uint64
	dbQueryDurationTotal atomic.Uint64
	moveCount            atomic.Uint64
	previewCount         atomic.Uint64
	shiftedSlotCount     atomic.Uint64
}

// NewMetricsService registers the service collectors plus Go runtime collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	m := &MetricsService{
		registry: registry,
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		requestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		cacheLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "cache_latency_seconds",
			Help:    "Latency for cache lookups",
			Buckets: prometheus.DefBuckets,
		}),
		cacheWrite: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "cache_write_seconds",
			Help:    "Latency for cache writes",
			Buckets: prometheus.DefBuckets,
		}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total cache hits",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total cache misses",
		}),
		dbQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Duration of database operations",
			Buckets: prometheus.DefBuckets,
		}, []string{"query"}),
		shiftTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "schedule_shifts_total",
			Help: "Day-card shift requests by outcome",
		}, []string{"outcome"}),
		shiftedSlots: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "schedule_shifted_slots",
			Help:    "Number of slots whose date changed per shift",
			Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100},
		}),
		shiftDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "schedule_shift_compute_seconds",
			Help:    "Time spent computing a shift",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1},
		}),
	}

	registry.MustRegister(
		m.requestDuration, m.requestTotal,
		m.cacheLatency, m.cacheWrite, m.cacheHits, m.cacheMisses,
		m.dbQueryDuration, m.shiftTotal, m.shiftedSlots, m.shiftDuration,
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "cache_hit_ratio",
			Help: "Ratio of cache hits to total cache lookups",
		}, m.cacheRatio),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "goroutines_total",
			Help: "Total number of goroutines",
		}, func() float64 { return float64(runtime.NumGoroutine()) }),
	)
	m.handler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	return m
}

// Registry exposes the registry so other components can add collectors.
func (m *MetricsService) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
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
	m.requestCount.Add(1)
	m.requestDurationTotal.Add(uint64(duration.Nanoseconds()))
}

// RecordCacheOperation records a cache lookup.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLatency.Observe(duration.Seconds())
	if hit {
		m.cacheHits.Inc()
		m.cacheHitCount.Add(1)
		return
	}
	m.cacheMisses.Inc()
	m.cacheMissCount.Add(1)
}

// ObserveCacheWrite tracks the duration for cache write operations.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheWrite.Observe(duration.Seconds())
}

// ObserveDBQuery records database operation timing.
func (m *MetricsService) ObserveDBQuery(label string, duration time.Duration) {
	if m == nil {
		return
	}
	m.dbQueryDuration.WithLabelValues(label).Observe(duration.Seconds())
	m.dbQueryCount.Add(1)
	m.dbQueryDurationTotal.Add(uint64(duration.Nanoseconds()))
}

// RecordShift records one shift request. changed and elapsed are ignored for rejected requests.
func (m *MetricsService) RecordShift(outcome string, changed int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.shiftTotal.WithLabelValues(outcome).Inc()
	switch outcome {
	case ShiftOutcomeApplied:
		m.moveCount.Add(1)
	case ShiftOutcomePreview:
		m.previewCount.Add(1)
	default:
		return
	}
	m.shiftedSlots.Observe(float64(changed))
	m.shiftDuration.Observe(elapsed.Seconds())
	m.shiftedSlotCount.Add(uint64(changed))
}

func (m *MetricsService) cacheRatio() float64 {
	hits := m.cacheHitCount.Load()
	total := hits + m.cacheMissCount.Load()
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total)
}

// Snapshot returns aggregated metrics for the JSON metrics endpoint.
func (m *MetricsService) Snapshot() models.SystemMetrics {
	if m == nil {
		return models.SystemMetrics{}
	}
	requests := m.requestCount.Load()
	dbCount := m.dbQueryCount.Load()

	var avgRequestMs float64
	if requests > 0 {
		avgRequestMs = float64(m.requestDurationTotal.Load()) / float64(requests) / float64(time.Millisecond)
	}
	var avgDBMs float64
	if dbCount > 0 {
		avgDBMs = float64(m.dbQueryDurationTotal.Load()) / float64(dbCount) / float64(time.Millisecond)
	}

	return models.SystemMetrics{
		RequestsTotal:            requests,
		AverageRequestDurationMs: avgRequestMs,
		CacheHits:                m.cacheHitCount.Load(),
		CacheMisses:              m.cacheMissCount.Load(),
		CacheHitRatio:            m.cacheRatio(),
		DBQueryCount:             dbCount,
		AverageDBQueryDurationMs: avgDBMs,
		ScheduleMoves:            m.moveCount.Load(),
		SchedulePreviews:         m.previewCount.Load(),
		ShiftedSlots:             m.shiftedSlotCount.Load(),
		Goroutines:               runtime.NumGoroutine(),
		GeneratedAt:              time.Now().UTC(),
	}
}
