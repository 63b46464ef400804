package sofra

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"sofra-client/pkg/logging"
	"sofra-client/pkg/metrics"
	"sofra-client/pkg/store"
)

// Config holds construction parameters for a Client.
type Config struct {
	// BaseURL of the backend API, e.g. "https://api.sofra.example".
	// Required.
	BaseURL string

	// RealtimeURL of the websocket endpoint. Empty disables realtime.
	RealtimeURL string

	// Timeout per request. Defaults to the api package default.
	Timeout time.Duration

	// UserAgent sent with every request.
	UserAgent string

	// CachePath is the on-disk location of the durable cache. Empty
	// means an in-memory durable tier (caching does not survive
	// restarts).
	CachePath string

	// TokenPath is the on-disk location of the credential store. Empty
	// means tokens are held in memory only.
	TokenPath string

	// CacheTTL is the default freshness window for cached reads.
	CacheTTL time.Duration

	// Store overrides the durable cache tier entirely. When set,
	// CachePath is ignored.
	Store store.Store

	// SecureStore overrides the credential store. When set, TokenPath
	// is ignored.
	SecureStore store.Store

	// DisableBreaker skips the circuit breaker around the durable tier.
	DisableBreaker bool

	// BloomCapacity enables the durable-tier membership filter when > 0.
	BloomCapacity uint

	// Logger defaults to a no-op logger.
	Logger *logging.Logger

	// Metrics defaults to a no-op collector.
	Metrics metrics.Collector
}

// ConfigFromEnv builds a Config from environment variables, loading a
// .env file first if one is present:
//
//	SOFRA_API_URL        backend base URL (required)
//	SOFRA_WS_URL         websocket URL (optional)
//	SOFRA_TIMEOUT        request timeout, e.g. "10s"
//	SOFRA_CACHE_PATH     durable cache file path
//	SOFRA_TOKEN_PATH     credential store file path
//	SOFRA_CACHE_TTL      default cache TTL, e.g. "5m"
//	SOFRA_USER_AGENT     User-Agent header value
//	SOFRA_BLOOM_CAPACITY membership filter capacity, 0 disables
func ConfigFromEnv() Config {
	_ = godotenv.Load()

	config := Config{
		BaseURL:     os.Getenv("SOFRA_API_URL"),
		RealtimeURL: os.Getenv("SOFRA_WS_URL"),
		CachePath:   os.Getenv("SOFRA_CACHE_PATH"),
		TokenPath:   os.Getenv("SOFRA_TOKEN_PATH"),
		UserAgent:   os.Getenv("SOFRA_USER_AGENT"),
	}

	if v := os.Getenv("SOFRA_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.Timeout = d
		}
	}
	if v := os.Getenv("SOFRA_CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.CacheTTL = d
		}
	}
	if v := os.Getenv("SOFRA_BLOOM_CAPACITY"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 32); err == nil {
			config.BloomCapacity = uint(n)
		}
	}

	return config
}
