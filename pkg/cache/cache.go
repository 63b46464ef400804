package cache

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/bits-and-blooms/bloom/v3"
	"go.uber.org/zap"

	"sofra-client/pkg/logging"
	"sofra-client/pkg/metrics"
	"sofra-client/pkg/store"
)

// Tier names used for logging and metrics.
const (
	TierMemory  = "memory"
	TierDurable = "durable"
)

// DefaultTTL is the time-to-live applied when Set is called with ttl <= 0.
const DefaultTTL = 5 * time.Minute

// Cache is a two-tier, time-expiring cache: a memory map in front of a
// durable store. Every operation is best-effort. Storage failures are
// logged and absorbed, never surfaced to callers; the worst outcome of
// any failure is a cache miss, which forces a re-fetch from the network.
//
// Invariant: the memory tier only ever holds entries the durable store
// last accepted, so it is always re-derivable from durable state.
type Cache struct {
	mu    sync.RWMutex
	mem   map[string]Entry
	store store.Store

	filter   *bloom.BloomFilter
	filterMu sync.Mutex

	defaultTTL time.Duration
	logger     *logging.Logger
	metrics    metrics.Collector
}

// Config holds construction parameters for a Cache.
type Config struct {
	// Store is the durable tier. Required.
	Store store.Store

	// DefaultTTL applies when Set is called with ttl <= 0.
	// Defaults to DefaultTTL (5 minutes).
	DefaultTTL time.Duration

	// Logger defaults to a no-op logger.
	Logger *logging.Logger

	// Metrics defaults to a no-op collector.
	Metrics metrics.Collector

	// BloomCapacity, when > 0, enables a membership filter over durable
	// keys so lookups for keys never written skip the durable store
	// entirely. The filter is seeded from the store's existing keys.
	BloomCapacity uint

	// BloomFalsePositiveRate defaults to 0.01 when the filter is enabled.
	BloomFalsePositiveRate float64
}

// New creates a Cache over the given durable store.
func New(config Config) (*Cache, error) {
	if config.Store == nil {
		return nil, store.ErrUnavailable
	}
	if config.DefaultTTL <= 0 {
		config.DefaultTTL = DefaultTTL
	}
	if config.Logger == nil {
		config.Logger = logging.NewNoOpLogger()
	}
	if config.Metrics == nil {
		config.Metrics = metrics.NoOpCollector{}
	}

	c := &Cache{
		mem:        make(map[string]Entry),
		store:      config.Store,
		defaultTTL: config.DefaultTTL,
		logger:     config.Logger.Named("cache"),
		metrics:    config.Metrics,
	}

	if config.BloomCapacity > 0 {
		rate := config.BloomFalsePositiveRate
		if rate <= 0 || rate >= 1 {
			rate = 0.01
		}
		c.filter = bloom.NewWithEstimates(config.BloomCapacity, rate)
		c.seedFilter()
	}

	return c, nil
}

// seedFilter loads existing durable keys into the membership filter.
// If enumeration fails the filter is dropped: an unseeded filter would
// wrongly reject keys persisted in earlier sessions.
func (c *Cache) seedFilter() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	keys, err := c.store.Keys(ctx)
	if err != nil {
		c.logger.Warn("disabling key filter, seed enumeration failed", zap.Error(err))
		c.filter = nil
		return
	}
	for _, key := range keys {
		c.filter.Add([]byte(key))
	}
}

// mayContain reports whether the durable store could hold the key.
func (c *Cache) mayContain(key string) bool {
	if c.filter == nil {
		return true
	}
	c.filterMu.Lock()
	defer c.filterMu.Unlock()
	return c.filter.Test([]byte(key))
}

func (c *Cache) filterAdd(key string) {
	if c.filter == nil {
		return
	}
	c.filterMu.Lock()
	defer c.filterMu.Unlock()
	c.filter.Add([]byte(key))
}

// Get retrieves the cached payload for key, or (nil, false) on a miss.
// Expired entries are purged from both tiers on access. Get never fails:
// any storage error is treated as a miss.
func (c *Cache) Get(ctx context.Context, key string) (json.RawMessage, bool) {
	now := time.Now()
	start := now

	c.mu.RLock()
	entry, inMemory := c.mem[key]
	c.mu.RUnlock()

	if inMemory {
		if !entry.IsExpired(now) {
			c.metrics.RecordCacheGet(TierMemory, true, time.Since(start))
			return entry.Data, true
		}
		c.mu.Lock()
		delete(c.mem, key)
		c.mu.Unlock()
	}
	c.metrics.RecordCacheGet(TierMemory, false, time.Since(start))

	if !c.mayContain(key) {
		c.metrics.RecordCacheGet(TierDurable, false, time.Since(start))
		return nil, false
	}

	raw, err := c.store.Get(ctx, key)
	if err != nil {
		if !store.IsNotFound(err) {
			c.logger.Warn("durable read failed, treating as miss",
				zap.String("key", key), zap.Error(err))
		}
		c.metrics.RecordCacheGet(TierDurable, false, time.Since(start))
		return nil, false
	}

	var durable Entry
	if err := json.Unmarshal(raw, &durable); err != nil {
		c.logger.Warn("corrupt cache entry, purging",
			zap.String("key", key), zap.Error(err))
		c.removeDurable(ctx, key)
		c.metrics.RecordCacheGet(TierDurable, false, time.Since(start))
		return nil, false
	}

	if durable.IsExpired(now) {
		c.removeDurable(ctx, key)
		c.mu.Lock()
		delete(c.mem, key)
		c.mu.Unlock()
		c.metrics.RecordCacheGet(TierDurable, false, time.Since(start))
		return nil, false
	}

	// Promote the durable hit into the memory tier.
	c.mu.Lock()
	c.mem[key] = durable
	c.mu.Unlock()

	c.metrics.RecordCacheGet(TierDurable, true, time.Since(start))
	return durable.Data, true
}

// Set stores value under key with the given TTL (ttl <= 0 uses the
// default). The durable store is written first; if that write fails the
// memory tier is left untouched so both tiers stay consistent.
func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	start := time.Now()

	if err := ValidateKey(key); err != nil {
		c.logger.Warn("rejecting set", zap.String("key", key), zap.Error(err))
		return
	}
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	data, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("value not serializable, skipping set",
			zap.String("key", key), zap.Error(err))
		return
	}

	entry := newEntry(data, start, ttl)
	raw, err := json.Marshal(entry)
	if err != nil {
		c.logger.Warn("entry not serializable, skipping set",
			zap.String("key", key), zap.Error(err))
		return
	}

	if err := c.store.Set(ctx, key, raw); err != nil {
		c.logger.Warn("durable write failed, memory tier unchanged",
			zap.String("key", key), zap.Error(err))
		c.metrics.RecordCacheSet(TierDurable, false, time.Since(start))
		return
	}
	c.metrics.RecordCacheSet(TierDurable, true, time.Since(start))

	c.mu.Lock()
	c.mem[key] = entry
	c.mu.Unlock()
	c.filterAdd(key)
	c.metrics.RecordCacheSet(TierMemory, true, time.Since(start))
}

// Remove deletes key from both tiers. Best-effort.
func (c *Cache) Remove(ctx context.Context, key string) {
	start := time.Now()

	c.mu.Lock()
	delete(c.mem, key)
	c.mu.Unlock()

	if err := c.store.Remove(ctx, key); err != nil {
		c.logger.Warn("durable remove failed", zap.String("key", key), zap.Error(err))
		c.metrics.RecordCacheRemove(TierDurable, false, time.Since(start))
		return
	}
	c.metrics.RecordCacheRemove(TierDurable, true, time.Since(start))
}

// Clear wipes both tiers. Best-effort and idempotent.
func (c *Cache) Clear(ctx context.Context) {
	c.mu.Lock()
	c.mem = make(map[string]Entry)
	c.mu.Unlock()

	if err := c.store.Clear(ctx); err != nil {
		c.logger.Warn("durable clear failed", zap.Error(err))
	}
}

// ClearByPattern removes every key containing substring. Removal goes
// through Remove so the memory tier stays consistent. An enumeration
// failure aborts the whole operation silently.
func (c *Cache) ClearByPattern(ctx context.Context, substring string) {
	keys, err := c.store.Keys(ctx)
	if err != nil {
		c.logger.Warn("key enumeration failed, aborting pattern clear",
			zap.String("pattern", substring), zap.Error(err))
		return
	}

	for _, key := range keys {
		if strings.Contains(key, substring) {
			c.Remove(ctx, key)
		}
	}
}

// Close drops the memory tier. The durable store is injected and stays
// owned by the caller.
func (c *Cache) Close() error {
	c.mu.Lock()
	c.mem = make(map[string]Entry)
	c.mu.Unlock()
	return nil
}

// removeDurable deletes a durable entry, logging on failure.
func (c *Cache) removeDurable(ctx context.Context, key string) {
	if err := c.store.Remove(ctx, key); err != nil {
		c.logger.Warn("durable purge failed", zap.String("key", key), zap.Error(err))
	}
}
