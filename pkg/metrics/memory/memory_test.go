package memory

import (
	"sync"
	"testing"
	"time"

	"sofra-client/pkg/metrics"
)

func TestMemoryCollector_CacheCounters(t *testing.T) {
	mc := NewMemoryCollector()

	mc.RecordCacheGet("memory", true, time.Millisecond)
	mc.RecordCacheGet("memory", true, time.Millisecond)
	mc.RecordCacheGet("memory", false, time.Millisecond)
	mc.RecordCacheSet("memory", true, time.Millisecond)
	mc.RecordCacheSet("memory", false, time.Millisecond)
	mc.RecordCacheRemove("memory", true, time.Millisecond)

	snapshot := mc.TierSnapshot("memory")
	if snapshot.Hits != 2 {
		t.Errorf("Hits = %d, want 2", snapshot.Hits)
	}
	if snapshot.Misses != 1 {
		t.Errorf("Misses = %d, want 1", snapshot.Misses)
	}
	if snapshot.Sets != 2 {
		t.Errorf("Sets = %d, want 2", snapshot.Sets)
	}
	if snapshot.Errors != 1 {
		t.Errorf("Errors = %d, want 1", snapshot.Errors)
	}
	if snapshot.Removes != 1 {
		t.Errorf("Removes = %d, want 1", snapshot.Removes)
	}

	// Unknown tiers read as zero.
	if empty := mc.TierSnapshot("durable"); empty.Hits != 0 || empty.Sets != 0 {
		t.Errorf("unknown tier snapshot = %+v, want zero", empty)
	}
}

func TestMemoryCollector_Requests(t *testing.T) {
	mc := NewMemoryCollector()

	mc.RecordRequest("GET", 200, time.Millisecond)
	mc.RecordRequest("GET", 404, time.Millisecond)
	mc.RecordRequest("POST", 201, time.Millisecond)

	if got := mc.RequestCount("GET"); got != 2 {
		t.Errorf("RequestCount(GET) = %d, want 2", got)
	}
	if got := mc.RequestCount("POST"); got != 1 {
		t.Errorf("RequestCount(POST) = %d, want 1", got)
	}
	if got := mc.RequestCount("DELETE"); got != 0 {
		t.Errorf("RequestCount(DELETE) = %d, want 0", got)
	}
}

func TestMemoryCollector_BreakerAndEvents(t *testing.T) {
	mc := NewMemoryCollector()

	mc.RecordBreakerState("sqlite", metrics.BreakerOpen)
	if got := mc.BreakerState("sqlite"); got != metrics.BreakerOpen {
		t.Errorf("BreakerState() = %v, want open", got)
	}
	mc.RecordBreakerState("sqlite", metrics.BreakerClosed)
	if got := mc.BreakerState("sqlite"); got != metrics.BreakerClosed {
		t.Errorf("BreakerState() = %v, want closed", got)
	}

	mc.RecordRealtimeEvent("newOrder")
	mc.RecordRealtimeEvent("newOrder")
	if got := mc.EventCount("newOrder"); got != 2 {
		t.Errorf("EventCount() = %d, want 2", got)
	}
}

func TestMemoryCollector_ConcurrentUse(t *testing.T) {
	mc := NewMemoryCollector()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				mc.RecordCacheGet("memory", j%2 == 0, time.Microsecond)
				mc.RecordRequest("GET", 200, time.Microsecond)
				mc.RecordRealtimeEvent("newOrder")
			}
		}()
	}
	wg.Wait()

	snapshot := mc.TierSnapshot("memory")
	if snapshot.Hits+snapshot.Misses != 800 {
		t.Errorf("gets = %d, want 800", snapshot.Hits+snapshot.Misses)
	}
	if got := mc.RequestCount("GET"); got != 800 {
		t.Errorf("RequestCount() = %d, want 800", got)
	}
	if got := mc.EventCount("newOrder"); got != 800 {
		t.Errorf("EventCount() = %d, want 800", got)
	}
}
