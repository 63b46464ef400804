package memory

import (
	"sync"
	"time"

	"sofra-client/pkg/metrics"
)

// MemoryCollector implements Collector for in-memory inspection and testing.
type MemoryCollector struct {
	mu sync.RWMutex

	tiers    map[string]*TierMetrics
	requests map[string]*RequestMetrics
	breakers map[string]metrics.BreakerState
	events   map[string]int64
}

// TierMetrics holds cache metrics for a single tier.
type TierMetrics struct {
	Hits    int64
	Misses  int64
	Sets    int64
	Removes int64
	Errors  int64
}

// RequestMetrics holds outbound request metrics for a single HTTP method.
type RequestMetrics struct {
	Total     int64
	ByStatus  map[int]int64
	Latencies []time.Duration
}

// NewMemoryCollector creates a new in-memory metrics collector.
func NewMemoryCollector() *MemoryCollector {
	return &MemoryCollector{
		tiers:    make(map[string]*TierMetrics),
		requests: make(map[string]*RequestMetrics),
		breakers: make(map[string]metrics.BreakerState),
		events:   make(map[string]int64),
	}
}

func (mc *MemoryCollector) tier(name string) *TierMetrics {
	if _, exists := mc.tiers[name]; !exists {
		mc.tiers[name] = &TierMetrics{}
	}
	return mc.tiers[name]
}

// RecordCacheGet records a cache get operation.
func (mc *MemoryCollector) RecordCacheGet(tier string, hit bool, duration time.Duration) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	tm := mc.tier(tier)
	if hit {
		tm.Hits++
	} else {
		tm.Misses++
	}
}

// RecordCacheSet records a cache set operation.
func (mc *MemoryCollector) RecordCacheSet(tier string, success bool, duration time.Duration) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	tm := mc.tier(tier)
	tm.Sets++
	if !success {
		tm.Errors++
	}
}

// RecordCacheRemove records a cache remove operation.
func (mc *MemoryCollector) RecordCacheRemove(tier string, success bool, duration time.Duration) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	tm := mc.tier(tier)
	tm.Removes++
	if !success {
		tm.Errors++
	}
}

// RecordRequest records an outbound HTTP request.
func (mc *MemoryCollector) RecordRequest(method string, status int, duration time.Duration) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	rm, exists := mc.requests[method]
	if !exists {
		rm = &RequestMetrics{ByStatus: make(map[int]int64)}
		mc.requests[method] = rm
	}
	rm.Total++
	rm.ByStatus[status]++
	rm.Latencies = append(rm.Latencies, duration)
}

// RecordBreakerState records the durable-store breaker state.
func (mc *MemoryCollector) RecordBreakerState(store string, state metrics.BreakerState) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	mc.breakers[store] = state
}

// RecordRealtimeEvent records a realtime refresh event.
func (mc *MemoryCollector) RecordRealtimeEvent(event string) {
	mc.mu.Lock()
	defer mc.mu.Unlock()

	mc.events[event]++
}

// TierSnapshot returns a copy of the metrics for the given tier.
func (mc *MemoryCollector) TierSnapshot(tier string) TierMetrics {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	if tm, exists := mc.tiers[tier]; exists {
		return *tm
	}
	return TierMetrics{}
}

// RequestCount returns the number of requests recorded for the given method.
func (mc *MemoryCollector) RequestCount(method string) int64 {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	if rm, exists := mc.requests[method]; exists {
		return rm.Total
	}
	return 0
}

// BreakerState returns the last recorded breaker state for the given store.
func (mc *MemoryCollector) BreakerState(store string) metrics.BreakerState {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	return mc.breakers[store]
}

// EventCount returns the number of realtime events recorded for the given name.
func (mc *MemoryCollector) EventCount(event string) int64 {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	return mc.events[event]
}
