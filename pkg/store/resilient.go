package store

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"sofra-client/pkg/logging"
	"sofra-client/pkg/metrics"
)

// ResilientStore wraps a Store with a circuit breaker and per-operation
// timeout. A misbehaving durable store (locked database file, unreachable
// Redis) then fails fast instead of stalling every cache access.
//
// Key-not-found results count as successes; only real I/O failures feed
// the breaker.
type ResilientStore struct {
	inner   Store
	cb      *gobreaker.CircuitBreaker
	timeout time.Duration
	logger  *logging.Logger
	metrics metrics.Collector
}

// ResilientConfig configures the resilient store wrapper.
type ResilientConfig struct {
	// Timeout applies to every store operation. Default: 2s.
	Timeout time.Duration

	// MaxRequests allowed through while half-open. Default: 3.
	MaxRequests uint32

	// OpenTimeout is how long the breaker stays open before probing.
	// Default: 30s.
	OpenTimeout time.Duration

	// ConsecutiveFailures trips the breaker. Default: 5.
	ConsecutiveFailures uint32

	// Logger defaults to a no-op logger.
	Logger *logging.Logger

	// Metrics defaults to a no-op collector.
	Metrics metrics.Collector
}

// DefaultResilientConfig returns sensible defaults.
func DefaultResilientConfig() ResilientConfig {
	return ResilientConfig{
		Timeout:             2 * time.Second,
		MaxRequests:         3,
		OpenTimeout:         30 * time.Second,
		ConsecutiveFailures: 5,
	}
}

// NewResilientStore wraps inner with breaker and timeout protection.
func NewResilientStore(inner Store, config ResilientConfig) *ResilientStore {
	if config.Timeout <= 0 {
		config.Timeout = 2 * time.Second
	}
	if config.MaxRequests == 0 {
		config.MaxRequests = 3
	}
	if config.OpenTimeout <= 0 {
		config.OpenTimeout = 30 * time.Second
	}
	if config.ConsecutiveFailures == 0 {
		config.ConsecutiveFailures = 5
	}
	if config.Logger == nil {
		config.Logger = logging.NewNoOpLogger()
	}
	if config.Metrics == nil {
		config.Metrics = metrics.NoOpCollector{}
	}

	rs := &ResilientStore{
		inner:   inner,
		timeout: config.Timeout,
		logger:  config.Logger.Named("store").Named(inner.Name()),
		metrics: config.Metrics,
	}

	rs.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        inner.Name(),
		MaxRequests: config.MaxRequests,
		Timeout:     config.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= config.ConsecutiveFailures
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrKeyNotFound)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			rs.logger.Warn("breaker state changed",
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
			rs.metrics.RecordBreakerState(name, breakerState(to))
		},
	})

	return rs
}

func breakerState(s gobreaker.State) metrics.BreakerState {
	switch s {
	case gobreaker.StateOpen:
		return metrics.BreakerOpen
	case gobreaker.StateHalfOpen:
		return metrics.BreakerHalfOpen
	default:
		return metrics.BreakerClosed
	}
}

// execute runs op through the breaker with the configured timeout.
func (rs *ResilientStore) execute(ctx context.Context, op func(ctx context.Context) (interface{}, error)) (interface{}, error) {
	if rs.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, rs.timeout)
		defer cancel()
	}

	result, err := rs.cb.Execute(func() (interface{}, error) {
		return op(ctx)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, ErrUnavailable
	}
	return result, err
}

// Get retrieves the value stored under key.
func (rs *ResilientStore) Get(ctx context.Context, key string) ([]byte, error) {
	result, err := rs.execute(ctx, func(ctx context.Context) (interface{}, error) {
		return rs.inner.Get(ctx, key)
	})
	if err != nil {
		return nil, err
	}
	return result.([]byte), nil
}

// Set stores value under key.
func (rs *ResilientStore) Set(ctx context.Context, key string, value []byte) error {
	_, err := rs.execute(ctx, func(ctx context.Context) (interface{}, error) {
		return nil, rs.inner.Set(ctx, key, value)
	})
	return err
}

// Remove deletes the value stored under key.
func (rs *ResilientStore) Remove(ctx context.Context, key string) error {
	_, err := rs.execute(ctx, func(ctx context.Context) (interface{}, error) {
		return nil, rs.inner.Remove(ctx, key)
	})
	return err
}

// Clear deletes every key in the store.
func (rs *ResilientStore) Clear(ctx context.Context) error {
	_, err := rs.execute(ctx, func(ctx context.Context) (interface{}, error) {
		return nil, rs.inner.Clear(ctx)
	})
	return err
}

// Keys returns all keys currently in the store.
func (rs *ResilientStore) Keys(ctx context.Context) ([]string, error) {
	result, err := rs.execute(ctx, func(ctx context.Context) (interface{}, error) {
		return rs.inner.Keys(ctx)
	})
	if err != nil {
		return nil, err
	}
	return result.([]string), nil
}

// Name returns the inner store's name.
func (rs *ResilientStore) Name() string {
	return rs.inner.Name()
}

// Close closes the inner store.
func (rs *ResilientStore) Close() error {
	return rs.inner.Close()
}
