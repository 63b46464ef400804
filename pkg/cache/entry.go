package cache

import (
	"encoding/json"
	"time"
)

// Entry is the persisted shape of a cached value. It is stored in the
// durable tier as {"data":...,"timestamp":...,"expiry":...} and mirrored,
// already decoded, in the memory tier.
type Entry struct {
	// Data is the opaque cached payload. The cache does not interpret it.
	Data json.RawMessage `json:"data"`

	// Timestamp is the creation time in epoch milliseconds.
	Timestamp int64 `json:"timestamp"`

	// Expiry is the time-to-live in milliseconds.
	Expiry int64 `json:"expiry"`
}

// newEntry creates an entry for data created now with the given TTL.
func newEntry(data json.RawMessage, now time.Time, ttl time.Duration) Entry {
	return Entry{
		Data:      data,
		Timestamp: now.UnixMilli(),
		Expiry:    ttl.Milliseconds(),
	}
}

// IsExpired reports whether the entry is no longer valid at the given time.
// An entry is valid iff now - timestamp <= expiry.
func (e *Entry) IsExpired(now time.Time) bool {
	return now.UnixMilli()-e.Timestamp > e.Expiry
}

// TimeToLive returns the remaining time-to-live at the given time.
// Returns 0 if already expired.
func (e *Entry) TimeToLive(now time.Time) time.Duration {
	remaining := e.Timestamp + e.Expiry - now.UnixMilli()
	if remaining <= 0 {
		return 0
	}
	return time.Duration(remaining) * time.Millisecond
}
