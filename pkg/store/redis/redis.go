package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/rueidis"

	"sofra-client/pkg/store"
)

// RedisStore is a Store backed by Redis. It fits deployments where the
// client state should be shared across devices (kiosk terminals, waiter
// tablets behind one account) rather than kept on-device.
type RedisStore struct {
	client rueidis.Client
	name   string
	config RedisStoreConfig
}

// RedisStoreConfig holds connection settings for the Redis store.
type RedisStoreConfig struct {
	Name string
	// Addr is the Redis server address, e.g. "localhost:6379".
	Addr     string
	Username string
	Password string
	// DB is the Redis database number (0-15).
	DB int
	// KeyPrefix namespaces every key written by this store.
	KeyPrefix    string
	DialTimeout  time.Duration
	WriteTimeout time.Duration
}

// DefaultRedisStoreConfig returns a configuration with sane defaults.
func DefaultRedisStoreConfig() RedisStoreConfig {
	return RedisStoreConfig{
		Name:         "redis",
		Addr:         "localhost:6379",
		KeyPrefix:    "sofra:",
		DialTimeout:  5 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}

// NewRedisStore connects to Redis and verifies the connection with a ping.
func NewRedisStore(config RedisStoreConfig) (*RedisStore, error) {
	if config.Name == "" {
		config.Name = "redis"
	}
	if config.Addr == "" {
		return nil, fmt.Errorf("redis: no address configured")
	}

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:      []string{config.Addr},
		Username:         config.Username,
		Password:         config.Password,
		SelectDB:         config.DB,
		ConnWriteTimeout: config.WriteTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("redis: failed to create client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.DialTimeout)
	defer cancel()

	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis: failed to ping server: %w", err)
	}

	return &RedisStore{
		client: client,
		name:   config.Name,
		config: config,
	}, nil
}

// Get retrieves the value stored under key.
func (r *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	cmd := r.client.B().Get().Key(r.config.KeyPrefix + key).Build()
	resp := r.client.Do(ctx, cmd)

	if err := resp.Error(); err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, store.ErrKeyNotFound
		}
		return nil, store.WrapError(err, r.name, "get")
	}

	data, err := resp.AsBytes()
	if err != nil {
		return nil, store.WrapError(err, r.name, "get")
	}
	return data, nil
}

// Set stores value under key. Entries carry their own expiry metadata, so
// no Redis-side TTL is applied.
func (r *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	cmd := r.client.B().Set().Key(r.config.KeyPrefix + key).Value(string(value)).Build()
	if err := r.client.Do(ctx, cmd).Error(); err != nil {
		return store.WrapError(err, r.name, "set")
	}
	return nil
}

// Remove deletes the value stored under key.
func (r *RedisStore) Remove(ctx context.Context, key string) error {
	cmd := r.client.B().Del().Key(r.config.KeyPrefix + key).Build()
	if err := r.client.Do(ctx, cmd).Error(); err != nil {
		return store.WrapError(err, r.name, "remove")
	}
	return nil
}

// Clear deletes every key under this store's prefix.
func (r *RedisStore) Clear(ctx context.Context) error {
	keys, err := r.scanKeys(ctx)
	if err != nil {
		return store.WrapError(err, r.name, "clear")
	}
	if len(keys) == 0 {
		return nil
	}

	cmd := r.client.B().Del().Key(keys...).Build()
	if err := r.client.Do(ctx, cmd).Error(); err != nil {
		return store.WrapError(err, r.name, "clear")
	}
	return nil
}

// Keys returns all keys under this store's prefix, with the prefix stripped.
func (r *RedisStore) Keys(ctx context.Context) ([]string, error) {
	fullKeys, err := r.scanKeys(ctx)
	if err != nil {
		return nil, store.WrapError(err, r.name, "keys")
	}

	keys := make([]string, 0, len(fullKeys))
	for _, fullKey := range fullKeys {
		keys = append(keys, strings.TrimPrefix(fullKey, r.config.KeyPrefix))
	}
	return keys, nil
}

// scanKeys iterates SCAN over the store's prefix and returns full keys.
func (r *RedisStore) scanKeys(ctx context.Context) ([]string, error) {
	var keys []string
	var cursor uint64

	for {
		cmd := r.client.B().Scan().Cursor(cursor).Match(r.config.KeyPrefix + "*").Count(256).Build()
		entry, err := r.client.Do(ctx, cmd).AsScanEntry()
		if err != nil {
			return nil, err
		}

		keys = append(keys, entry.Elements...)
		cursor = entry.Cursor
		if cursor == 0 {
			break
		}
	}

	return keys, nil
}

// Name returns the configured store name.
func (r *RedisStore) Name() string {
	return r.name
}

// Close closes the Redis client.
func (r *RedisStore) Close() error {
	r.client.Close()
	return nil
}
