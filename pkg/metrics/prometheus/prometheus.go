package prometheus

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"sofra-client/pkg/metrics"
)

// PrometheusCollector implements Collector for Prometheus.
type PrometheusCollector struct {
	namespace string

	// Cache
	cacheHits    *prometheus.CounterVec
	cacheMisses  *prometheus.CounterVec
	cacheSets    *prometheus.CounterVec
	cacheRemoves *prometheus.CounterVec
	cacheErrors  *prometheus.CounterVec
	getLatency   *prometheus.HistogramVec
	setLatency   *prometheus.HistogramVec

	// HTTP
	requests       *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec

	// Breaker
	breakerState *prometheus.GaugeVec

	// Realtime
	realtimeEvents *prometheus.CounterVec
}

// NewPrometheusCollector creates a new Prometheus metrics collector.
func NewPrometheusCollector(namespace string) *PrometheusCollector {
	pc := &PrometheusCollector{
		namespace: namespace,
		cacheHits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_hits_total",
				Help:      "Total number of cache hits per tier",
			},
			[]string{"tier"},
		),
		cacheMisses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_misses_total",
				Help:      "Total number of cache misses per tier",
			},
			[]string{"tier"},
		),
		cacheSets: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_sets_total",
				Help:      "Total number of cache set operations per tier",
			},
			[]string{"tier"},
		),
		cacheRemoves: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_removes_total",
				Help:      "Total number of cache remove operations per tier",
			},
			[]string{"tier"},
		),
		cacheErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_errors_total",
				Help:      "Total number of cache errors per tier and operation",
			},
			[]string{"tier", "operation"},
		),
		getLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "cache_get_duration_seconds",
				Help:      "Cache get operation latency",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 15), // 0.1ms to ~3s
			},
			[]string{"tier"},
		),
		setLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "cache_set_duration_seconds",
				Help:      "Cache set operation latency",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 15),
			},
			[]string{"tier"},
		),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "requests_total",
				Help:      "Total number of outbound HTTP requests per method and status",
			},
			[]string{"method", "status"},
		),
		requestLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "request_duration_seconds",
				Help:      "Outbound HTTP request latency",
				Buckets:   prometheus.ExponentialBuckets(0.001, 2, 15), // 1ms to ~16s
			},
			[]string{"method"},
		),
		breakerState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "breaker_state",
				Help:      "Current durable-store breaker state (0=closed, 1=open, 2=half-open)",
			},
			[]string{"store"},
		),
		realtimeEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "realtime_events_total",
				Help:      "Total number of realtime refresh events per event name",
			},
			[]string{"event"},
		),
	}

	return pc
}

// Register registers all metrics with the given Prometheus registry.
func (pc *PrometheusCollector) Register(registry *prometheus.Registry) error {
	collectors := []prometheus.Collector{
		pc.cacheHits,
		pc.cacheMisses,
		pc.cacheSets,
		pc.cacheRemoves,
		pc.cacheErrors,
		pc.getLatency,
		pc.setLatency,
		pc.requests,
		pc.requestLatency,
		pc.breakerState,
		pc.realtimeEvents,
	}

	for _, c := range collectors {
		if err := registry.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// RecordCacheGet records a cache get operation.
func (pc *PrometheusCollector) RecordCacheGet(tier string, hit bool, duration time.Duration) {
	if hit {
		pc.cacheHits.WithLabelValues(tier).Inc()
	} else {
		pc.cacheMisses.WithLabelValues(tier).Inc()
	}
	pc.getLatency.WithLabelValues(tier).Observe(duration.Seconds())
}

// RecordCacheSet records a cache set operation.
func (pc *PrometheusCollector) RecordCacheSet(tier string, success bool, duration time.Duration) {
	pc.cacheSets.WithLabelValues(tier).Inc()
	if !success {
		pc.cacheErrors.WithLabelValues(tier, "set").Inc()
	}
	pc.setLatency.WithLabelValues(tier).Observe(duration.Seconds())
}

// RecordCacheRemove records a cache remove operation.
func (pc *PrometheusCollector) RecordCacheRemove(tier string, success bool, duration time.Duration) {
	pc.cacheRemoves.WithLabelValues(tier).Inc()
	if !success {
		pc.cacheErrors.WithLabelValues(tier, "remove").Inc()
	}
}

// RecordRequest records an outbound HTTP request.
func (pc *PrometheusCollector) RecordRequest(method string, status int, duration time.Duration) {
	pc.requests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	pc.requestLatency.WithLabelValues(method).Observe(duration.Seconds())
}

// RecordBreakerState records the durable-store breaker state.
func (pc *PrometheusCollector) RecordBreakerState(store string, state metrics.BreakerState) {
	pc.breakerState.WithLabelValues(store).Set(float64(state))
}

// RecordRealtimeEvent records a realtime refresh event.
func (pc *PrometheusCollector) RecordRealtimeEvent(event string) {
	pc.realtimeEvents.WithLabelValues(event).Inc()
}
