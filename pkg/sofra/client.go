// Package sofra is the top-level client for the restaurant backend. It
// wires the HTTP core, the two-tier cache, the credential store, and the
// per-resource services into one handle.
package sofra

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"sofra-client/pkg/api"
	"sofra-client/pkg/auth"
	"sofra-client/pkg/cache"
	"sofra-client/pkg/logging"
	"sofra-client/pkg/realtime"
	"sofra-client/pkg/store"
	"sofra-client/pkg/store/memory"
	"sofra-client/pkg/store/sqlite"
)

// Client bundles every service of the backend behind one constructor.
// All services share a single cache and a single HTTP core, so a write
// through one service invalidates reads through another.
type Client struct {
	Auth         *auth.Service
	Restaurants  *RestaurantService
	Orders       *OrderService
	Cart         *CartService
	Tables       *TableService
	Reservations *ReservationService
	Reviews      *ReviewService
	Friends      *FriendService
	Payments     *PaymentService
	Waiter       *WaiterService

	api      *api.Client
	cache    *cache.Cache
	tokens   *auth.StoreTokenStore
	durable  store.Store
	secure   store.Store
	listener *realtime.Listener
	config   Config
	logger   *logging.Logger
}

// New constructs a Client. The zero-value Config is not usable; BaseURL
// is required.
func New(config Config) (*Client, error) {
	if config.BaseURL == "" {
		return nil, errors.New("sofra: base URL is required")
	}

	logger := config.Logger
	if logger == nil {
		logger = logging.NewNoOpLogger()
	}

	durable, err := openStore(config.Store, config.CachePath)
	if err != nil {
		return nil, fmt.Errorf("sofra: open cache store: %w", err)
	}
	if !config.DisableBreaker {
		durable = store.NewResilientStore(durable, store.ResilientConfig{
			Logger:  logger.Named("store"),
			Metrics: config.Metrics,
		})
	}

	c, err := cache.New(cache.Config{
		Store:         durable,
		DefaultTTL:    config.CacheTTL,
		Logger:        logger.Named("cache"),
		Metrics:       config.Metrics,
		BloomCapacity: config.BloomCapacity,
	})
	if err != nil {
		return nil, fmt.Errorf("sofra: build cache: %w", err)
	}

	secure, err := openStore(config.SecureStore, config.TokenPath)
	if err != nil {
		return nil, fmt.Errorf("sofra: open token store: %w", err)
	}
	tokens := auth.NewStoreTokenStore(secure)

	// The 401 hook needs the auth service, which needs the API client.
	// Late-bind through a closure to break the cycle.
	var authSvc *auth.Service
	apiClient, err := api.NewClient(api.Config{
		BaseURL:   config.BaseURL,
		Timeout:   config.Timeout,
		UserAgent: config.UserAgent,
		Tokens:    tokens,
		OnUnauthorized: func() {
			if authSvc != nil {
				authSvc.HandleUnauthorized()
			}
		},
		Logger:  logger.Named("api"),
		Metrics: config.Metrics,
	})
	if err != nil {
		return nil, err
	}
	authSvc = auth.NewService(apiClient, tokens, c, logger.Named("auth"))

	client := &Client{
		Auth:    authSvc,
		api:     apiClient,
		cache:   c,
		tokens:  tokens,
		durable: durable,
		secure:  secure,
		config:  config,
		logger:  logger,
	}

	if client.Restaurants, err = newRestaurantService(apiClient, c, logger); err != nil {
		return nil, err
	}
	if client.Orders, err = newOrderService(apiClient, c, logger); err != nil {
		return nil, err
	}
	if client.Cart, err = newCartService(apiClient, c, logger); err != nil {
		return nil, err
	}
	if client.Tables, err = newTableService(apiClient, c, logger); err != nil {
		return nil, err
	}
	if client.Reservations, err = newReservationService(apiClient, c, logger); err != nil {
		return nil, err
	}
	if client.Reviews, err = newReviewService(apiClient, c, logger); err != nil {
		return nil, err
	}
	if client.Friends, err = newFriendService(apiClient, c, logger); err != nil {
		return nil, err
	}
	if client.Payments, err = newPaymentService(apiClient, c, logger); err != nil {
		return nil, err
	}
	if client.Waiter, err = newWaiterService(apiClient, c, logger); err != nil {
		return nil, err
	}

	return client, nil
}

func openStore(override store.Store, path string) (store.Store, error) {
	if override != nil {
		return override, nil
	}
	if path != "" {
		return sqlite.NewSQLiteStore(path)
	}
	return memory.NewMemoryStore(), nil
}

// API exposes the request core for endpoints not covered by a service.
func (c *Client) API() api.Doer {
	return c.api
}

// Cache exposes the shared cache, mainly for direct invalidation.
func (c *Client) Cache() *cache.Cache {
	return c.cache
}

// StartRealtime connects the websocket listener. The returned listener
// is also retained by the client so services can be watched through it;
// Close tears it down. Calling StartRealtime with no RealtimeURL
// configured is an error.
func (c *Client) StartRealtime(ctx context.Context) (*realtime.Listener, error) {
	if c.config.RealtimeURL == "" {
		return nil, errors.New("sofra: no realtime URL configured")
	}
	if c.listener != nil {
		return c.listener, nil
	}

	header := http.Header{}
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("sofra: read token for realtime: %w", err)
	}
	if token != "" {
		header.Set("Authorization", "Bearer "+token)
	}

	listener, err := realtime.NewListener(realtime.Config{
		URL:     c.config.RealtimeURL,
		Header:  header,
		Logger:  c.logger.Named("realtime"),
		Metrics: c.config.Metrics,
	})
	if err != nil {
		return nil, err
	}
	if err := listener.Start(ctx); err != nil {
		return nil, err
	}
	c.listener = listener
	return listener, nil
}

// Close releases the websocket, the cache, and both stores. The client
// must not be used afterwards.
func (c *Client) Close() error {
	var firstErr error
	if c.listener != nil {
		if err := c.listener.Close(); err != nil {
			firstErr = err
		}
		c.listener = nil
	}
	if err := c.cache.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := c.durable.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := c.secure.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
