package cache

import (
	"testing"
	"time"
)

func TestEntry_IsExpired(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name     string
		entry    Entry
		at       time.Time
		expected bool
	}{
		{
			"fresh entry",
			newEntry(nil, now, time.Minute),
			now.Add(30 * time.Second),
			false,
		},
		{
			"past its window",
			newEntry(nil, now, time.Minute),
			now.Add(2 * time.Minute),
			true,
		},
		{
			"exactly at the boundary is still valid",
			newEntry(nil, now, time.Minute),
			now.Add(time.Minute),
			false,
		},
		{
			"one millisecond past the boundary",
			newEntry(nil, now, time.Minute),
			now.Add(time.Minute + time.Millisecond),
			true,
		},
		{
			"zero expiry",
			Entry{Timestamp: now.UnixMilli(), Expiry: 0},
			now.Add(time.Millisecond),
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.entry.IsExpired(tt.at)
			if result != tt.expected {
				t.Errorf("IsExpired() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestEntry_TimeToLive(t *testing.T) {
	now := time.Now()
	entry := newEntry(nil, now, time.Minute)

	if ttl := entry.TimeToLive(now); ttl != time.Minute {
		t.Errorf("TimeToLive() = %v, want %v", ttl, time.Minute)
	}
	if ttl := entry.TimeToLive(now.Add(40 * time.Second)); ttl != 20*time.Second {
		t.Errorf("TimeToLive() = %v, want %v", ttl, 20*time.Second)
	}
	if ttl := entry.TimeToLive(now.Add(2 * time.Minute)); ttl != 0 {
		t.Errorf("TimeToLive() = %v, want 0 after expiry", ttl)
	}
}
