package mock

import (
	"context"
	"sync"
	"sync/atomic"

	"sofra-client/pkg/store"
)

// MockStore is a mock implementation of store.Store for testing.
// It behaves like an in-memory store by default; set the function hooks
// to inject custom behavior (including failures), and read the call
// counters to assert interaction contracts.
type MockStore struct {
	// Function hooks - set these to customize behavior
	GetFunc    func(ctx context.Context, key string) ([]byte, error)
	SetFunc    func(ctx context.Context, key string, value []byte) error
	RemoveFunc func(ctx context.Context, key string) error
	ClearFunc  func(ctx context.Context) error
	KeysFunc   func(ctx context.Context) ([]string, error)

	// Call tracking (must use atomic operations for race-free access)
	getCalls    int64
	setCalls    int64
	removeCalls int64
	clearCalls  int64
	keysCalls   int64

	mu   sync.RWMutex
	data map[string][]byte
}

// NewMockStore creates a new MockStore with default map-backed behavior.
func NewMockStore() *MockStore {
	return &MockStore{
		data: make(map[string][]byte),
	}
}

// Get implements store.Store.Get with optional custom behavior.
func (m *MockStore) Get(ctx context.Context, key string) ([]byte, error) {
	atomic.AddInt64(&m.getCalls, 1)
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	value, exists := m.data[key]
	if !exists {
		return nil, store.ErrKeyNotFound
	}
	return value, nil
}

// Set implements store.Store.Set with optional custom behavior.
func (m *MockStore) Set(ctx context.Context, key string, value []byte) error {
	atomic.AddInt64(&m.setCalls, 1)
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

// Remove implements store.Store.Remove with optional custom behavior.
func (m *MockStore) Remove(ctx context.Context, key string) error {
	atomic.AddInt64(&m.removeCalls, 1)
	if m.RemoveFunc != nil {
		return m.RemoveFunc(ctx, key)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// Clear implements store.Store.Clear with optional custom behavior.
func (m *MockStore) Clear(ctx context.Context) error {
	atomic.AddInt64(&m.clearCalls, 1)
	if m.ClearFunc != nil {
		return m.ClearFunc(ctx)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make(map[string][]byte)
	return nil
}

// Keys implements store.Store.Keys with optional custom behavior.
func (m *MockStore) Keys(ctx context.Context) ([]string, error) {
	atomic.AddInt64(&m.keysCalls, 1)
	if m.KeysFunc != nil {
		return m.KeysFunc(ctx)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.data))
	for key := range m.data {
		keys = append(keys, key)
	}
	return keys, nil
}

// Name implements store.Store.Name.
func (m *MockStore) Name() string {
	return "mock"
}

// Close implements store.Store.Close.
func (m *MockStore) Close() error {
	return nil
}

// Contains reports whether the backing map holds the given key.
func (m *MockStore) Contains(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, exists := m.data[key]
	return exists
}

// Len returns the number of entries in the backing map.
func (m *MockStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

// GetCalls returns the number of Get calls (thread-safe).
func (m *MockStore) GetCalls() int {
	return int(atomic.LoadInt64(&m.getCalls))
}

// SetCalls returns the number of Set calls (thread-safe).
func (m *MockStore) SetCalls() int {
	return int(atomic.LoadInt64(&m.setCalls))
}

// RemoveCalls returns the number of Remove calls (thread-safe).
func (m *MockStore) RemoveCalls() int {
	return int(atomic.LoadInt64(&m.removeCalls))
}

// ClearCalls returns the number of Clear calls (thread-safe).
func (m *MockStore) ClearCalls() int {
	return int(atomic.LoadInt64(&m.clearCalls))
}

// KeysCalls returns the number of Keys calls (thread-safe).
func (m *MockStore) KeysCalls() int {
	return int(atomic.LoadInt64(&m.keysCalls))
}
