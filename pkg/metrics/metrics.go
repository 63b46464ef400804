package metrics

import (
	"time"
)

// Collector defines the interface for collecting client metrics.
// Implementations can export metrics to various backends (Prometheus, StatsD, etc.).
type Collector interface {
	// Cache operations, per tier ("memory", "durable")
	RecordCacheGet(tier string, hit bool, duration time.Duration)
	RecordCacheSet(tier string, success bool, duration time.Duration)
	RecordCacheRemove(tier string, success bool, duration time.Duration)

	// Outbound HTTP requests. Status is 0 when no response was received.
	RecordRequest(method string, status int, duration time.Duration)

	// Circuit breaker on the durable store
	RecordBreakerState(store string, state BreakerState)

	// Realtime refresh events, per event name
	RecordRealtimeEvent(event string)
}

// BreakerState represents the state of the durable-store circuit breaker.
type BreakerState int

const (
	// BreakerClosed means the breaker is allowing operations through.
	BreakerClosed BreakerState = iota
	// BreakerOpen means the breaker is rejecting operations.
	BreakerOpen
	// BreakerHalfOpen means the breaker is probing for recovery.
	BreakerHalfOpen
)

// String returns the string representation of the breaker state.
func (s BreakerState) String() string {
	switch s {
	case BreakerClosed:
		return "closed"
	case BreakerOpen:
		return "open"
	case BreakerHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// NoOpCollector is a no-op implementation of Collector.
// It's used as the default collector when metrics are not needed.
type NoOpCollector struct{}

// RecordCacheGet does nothing.
func (NoOpCollector) RecordCacheGet(tier string, hit bool, duration time.Duration) {}

// RecordCacheSet does nothing.
func (NoOpCollector) RecordCacheSet(tier string, success bool, duration time.Duration) {}

// RecordCacheRemove does nothing.
func (NoOpCollector) RecordCacheRemove(tier string, success bool, duration time.Duration) {}

// RecordRequest does nothing.
func (NoOpCollector) RecordRequest(method string, status int, duration time.Duration) {}

// RecordBreakerState does nothing.
func (NoOpCollector) RecordBreakerState(store string, state BreakerState) {}

// RecordRealtimeEvent does nothing.
func (NoOpCollector) RecordRealtimeEvent(event string) {}
