package store

import (
	"context"
	"errors"
	"fmt"
)

// Store defines the interface for a durable key-value store.
// Values are raw bytes; the cache layer above is responsible for
// JSON encode/decode.
type Store interface {
	// Get retrieves the value stored under key.
	// Returns ErrKeyNotFound if the key does not exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, replacing any existing value.
	Set(ctx context.Context, key string, value []byte) error

	// Remove deletes the value stored under key.
	// Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error

	// Clear deletes every key in the store.
	Clear(ctx context.Context) error

	// Keys returns all keys currently in the store.
	Keys(ctx context.Context) ([]string, error)

	// Name returns the identifier for this store (e.g., "memory", "sqlite").
	// Used for logging and metrics.
	Name() string

	// Close releases any resources held by the store.
	Close() error
}

// Common store operation errors.
var (
	// ErrKeyNotFound is returned when a requested key does not exist in the store
	ErrKeyNotFound = errors.New("store: key not found")

	// ErrClosed is returned when an operation is attempted on a closed store
	ErrClosed = errors.New("store: closed")

	// ErrUnavailable is returned when the store is temporarily unreachable
	ErrUnavailable = errors.New("store: unavailable")
)

// IsNotFound checks if the given error indicates that a key was not found.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrKeyNotFound)
}

// WrapError wraps an error with the store name and operation.
func WrapError(err error, name string, operation string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("store %s %s: %w", name, operation, err)
}
