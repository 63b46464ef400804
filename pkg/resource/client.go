// Package resource provides the generic read-through/write-invalidate
// client every domain service is built from. One tested implementation
// replaces the per-resource request/cache boilerplate that would
// otherwise be repeated for each entity family.
package resource

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"golang.org/x/sync/singleflight"

	"sofra-client/pkg/api"
	"sofra-client/pkg/cache"
	"sofra-client/pkg/logging"
)

// Client combines the cache layer and the HTTP client into read-through
// caching and write-invalidation for one resource family.
//
// Reads served from cache make zero network calls. Reads that miss fetch
// from the network and populate the cache; a miss-then-fail is a hard
// failure, never silently degraded to stale data. Writes always go to
// the network and invalidate the affected keys only after success.
type Client[T any] struct {
	api      api.Doer
	cache    *cache.Cache
	name     string
	basePath string
	ttl      time.Duration
	sf       singleflight.Group
	logger   *logging.Logger
}

// Config holds construction parameters for a resource client.
type Config struct {
	// API performs the network calls. Required.
	API api.Doer

	// Cache backs the read path. Required.
	Cache *cache.Cache

	// Name is the entity type used as the cache key prefix, e.g.
	// "restaurant". Required.
	Name string

	// BasePath is the collection endpoint, e.g. "/restaurants". Required.
	BasePath string

	// TTL overrides the cache default for this resource when > 0.
	TTL time.Duration

	// Logger defaults to a no-op logger.
	Logger *logging.Logger
}

// NewClient creates a resource client for one entity family.
func NewClient[T any](config Config) (*Client[T], error) {
	if config.API == nil || config.Cache == nil {
		return nil, errors.New("resource: api and cache are required")
	}
	if config.Name == "" || config.BasePath == "" {
		return nil, errors.New("resource: name and base path are required")
	}
	if config.Logger == nil {
		config.Logger = logging.NewNoOpLogger()
	}

	return &Client[T]{
		api:      config.API,
		cache:    config.Cache,
		name:     config.Name,
		basePath: config.BasePath,
		ttl:      config.TTL,
		logger:   config.Logger.Named("resource").Named(config.Name),
	}, nil
}

// EntityKey returns the cache key for a single entity, e.g. "table_9".
func (c *Client[T]) EntityKey(id string) string {
	return cache.Key(c.name, id)
}

// CollectionKey returns the cache key for the full collection,
// e.g. "table_all".
func (c *Client[T]) CollectionKey() string {
	return cache.Key(c.name, "all")
}

// Get fetches a single entity by id, read-through cached.
func (c *Client[T]) Get(ctx context.Context, id string) (*T, error) {
	return c.GetAt(ctx, c.basePath+"/"+id, c.EntityKey(id))
}

// List fetches the full collection, read-through cached.
func (c *Client[T]) List(ctx context.Context) ([]T, error) {
	return c.ListAt(ctx, c.basePath, c.CollectionKey())
}

// GetAt fetches a single entity from an arbitrary path under an
// arbitrary cache key. Domain services use it for nested endpoints
// such as /users/7/cart.
func (c *Client[T]) GetAt(ctx context.Context, path, key string) (*T, error) {
	if value, ok := fromCache[T](ctx, c, key); ok {
		return value, nil
	}

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		var value T
		if err := c.api.Do(ctx, http.MethodGet, path, nil, &value); err != nil {
			return nil, err
		}
		c.cache.Set(ctx, key, value, c.ttl)
		return value, nil
	})
	if err != nil {
		return nil, err
	}

	value := result.(T)
	return &value, nil
}

// ListAt fetches a collection from an arbitrary path under an arbitrary
// cache key, e.g. /restaurants/42/reviews under "restaurant_42_reviews".
func (c *Client[T]) ListAt(ctx context.Context, path, key string) ([]T, error) {
	if values, ok := fromCache[[]T](ctx, c, key); ok {
		return *values, nil
	}

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		var values []T
		if err := c.api.Do(ctx, http.MethodGet, path, nil, &values); err != nil {
			return nil, err
		}
		c.cache.Set(ctx, key, values, c.ttl)
		return values, nil
	})
	if err != nil {
		return nil, err
	}

	return result.([]T), nil
}

// Create posts a new entity and invalidates the collection key.
func (c *Client[T]) Create(ctx context.Context, body interface{}) (*T, error) {
	var created T
	if err := c.api.Do(ctx, http.MethodPost, c.basePath, body, &created); err != nil {
		return nil, err
	}
	c.cache.Remove(ctx, c.CollectionKey())
	return &created, nil
}

// Update puts an entity and invalidates its key and the collection key.
func (c *Client[T]) Update(ctx context.Context, id string, body interface{}) (*T, error) {
	var updated T
	if err := c.api.Do(ctx, http.MethodPut, c.basePath+"/"+id, body, &updated); err != nil {
		return nil, err
	}
	c.cache.Remove(ctx, c.EntityKey(id))
	c.cache.Remove(ctx, c.CollectionKey())
	return &updated, nil
}

// Delete removes an entity and invalidates its key and the collection key.
func (c *Client[T]) Delete(ctx context.Context, id string) error {
	if err := c.api.Do(ctx, http.MethodDelete, c.basePath+"/"+id, nil, nil); err != nil {
		return err
	}
	c.cache.Remove(ctx, c.EntityKey(id))
	c.cache.Remove(ctx, c.CollectionKey())
	return nil
}

// Mutate performs an arbitrary write and, on success only, invalidates
// the given stale keys. A failed write leaves the cache untouched.
func (c *Client[T]) Mutate(ctx context.Context, method, path string, body interface{}, out interface{}, staleKeys ...string) error {
	if err := c.api.Do(ctx, method, path, body, out); err != nil {
		return err
	}
	for _, key := range staleKeys {
		c.cache.Remove(ctx, key)
	}
	return nil
}

// Invalidate removes the given keys. Realtime refresh handlers use it
// when the server signals that data changed.
func (c *Client[T]) Invalidate(ctx context.Context, keys ...string) {
	for _, key := range keys {
		c.cache.Remove(ctx, key)
	}
}

// fromCache attempts a cache read and decode. A payload that no longer
// decodes is purged and treated as a miss.
func fromCache[V any, T any](ctx context.Context, c *Client[T], key string) (*V, bool) {
	raw, ok := c.cache.Get(ctx, key)
	if !ok {
		return nil, false
	}

	var value V
	if err := json.Unmarshal(raw, &value); err != nil {
		c.logger.Warn("cached payload no longer decodes, purging: " + key)
		c.cache.Remove(ctx, key)
		return nil, false
	}
	return &value, true
}
