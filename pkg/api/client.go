package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"sofra-client/pkg/logging"
	"sofra-client/pkg/metrics"
)

// DefaultTimeout applies when Config.Timeout is zero.
const DefaultTimeout = 10 * time.Second

// DefaultAuthPrefix is the path prefix of authentication endpoints.
// Requests under it never carry a bearer token.
const DefaultAuthPrefix = "/auth/"

// TokenStore reads and writes the bearer token in a secure credential
// store. It is kept separate from the general cache store so credentials
// never share a backend with cached payloads.
type TokenStore interface {
	// Token returns the current bearer token, or "" when none is stored.
	Token(ctx context.Context) (string, error)

	// SetToken persists a new bearer token.
	SetToken(ctx context.Context, token string) error

	// ClearToken removes the stored token. Clearing an absent token is
	// not an error.
	ClearToken(ctx context.Context) error
}

// Doer is the request surface the resource and service layers depend on.
type Doer interface {
	Do(ctx context.Context, method, path string, body interface{}, out interface{}) error
}

// Config holds construction parameters for a Client.
type Config struct {
	// BaseURL of the backend, e.g. "https://api.sofra.example". Required.
	BaseURL string

	// Timeout per request. Defaults to DefaultTimeout.
	Timeout time.Duration

	// UserAgent sent with every request.
	UserAgent string

	// Tokens supplies the bearer token. Nil means an unauthenticated
	// client; no Authorization header is ever attached.
	Tokens TokenStore

	// AuthPrefix marks authentication endpoints that must not carry a
	// bearer token. Defaults to DefaultAuthPrefix.
	AuthPrefix string

	// OnUnauthorized is invoked (synchronously) whenever the server
	// answers 401, so the auth layer can discard the stored token.
	OnUnauthorized func()

	// HTTPClient overrides the underlying client. Used in tests; the
	// configured Timeout is applied to it.
	HTTPClient *http.Client

	// Logger defaults to a no-op logger.
	Logger *logging.Logger

	// Metrics defaults to a no-op collector.
	Metrics metrics.Collector
}

// Client is the single point of egress for all network calls. It injects
// the bearer token, enforces the request timeout, and normalizes every
// failure into *NetworkError or *APIError.
type Client struct {
	baseURL        *url.URL
	httpClient     *http.Client
	userAgent      string
	tokens         TokenStore
	authPrefix     string
	onUnauthorized func()
	logger         *logging.Logger
	metrics        metrics.Collector
}

// NewClient creates a Client from config.
func NewClient(config Config) (*Client, error) {
	if config.BaseURL == "" {
		return nil, errors.New("api: base URL is required")
	}
	base, err := url.Parse(config.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("api: invalid base URL: %w", err)
	}

	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	if config.AuthPrefix == "" {
		config.AuthPrefix = DefaultAuthPrefix
	}
	if config.Logger == nil {
		config.Logger = logging.NewNoOpLogger()
	}
	if config.Metrics == nil {
		config.Metrics = metrics.NoOpCollector{}
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	httpClient.Timeout = config.Timeout

	return &Client{
		baseURL:        base,
		httpClient:     httpClient,
		userAgent:      config.UserAgent,
		tokens:         config.Tokens,
		authPrefix:     config.AuthPrefix,
		onUnauthorized: config.OnUnauthorized,
		logger:         config.Logger.Named("api"),
		metrics:        config.Metrics,
	}, nil
}

// Do performs one request: body is JSON-encoded when non-nil, the
// response is decoded into out when non-nil. Errors are always
// *NetworkError or *APIError, except for the fail-closed token lookup.
func (c *Client) Do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	start := time.Now()

	var bodyReader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("api: failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	target := c.resolve(path)
	req, err := http.NewRequestWithContext(ctx, method, target, bodyReader)
	if err != nil {
		return fmt.Errorf("api: failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	if err := c.attachToken(ctx, req, path); err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.RecordRequest(method, 0, time.Since(start))
		return &NetworkError{URL: target, Err: err}
	}
	defer resp.Body.Close()

	c.metrics.RecordRequest(method, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.classify(resp, method, path)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("api: failed to decode response: %w", err)
		}
	}
	return nil
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, out interface{}) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

// Post performs a POST request.
func (c *Client) Post(ctx context.Context, path string, body interface{}, out interface{}) error {
	return c.Do(ctx, http.MethodPost, path, body, out)
}

// Put performs a PUT request.
func (c *Client) Put(ctx context.Context, path string, body interface{}, out interface{}) error {
	return c.Do(ctx, http.MethodPut, path, body, out)
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, out interface{}) error {
	return c.Do(ctx, http.MethodDelete, path, nil, out)
}

// attachToken adds the Authorization header unless the path is an
// authentication endpoint. A failing token lookup aborts the request:
// sending it unauthenticated would silently downgrade privilege.
func (c *Client) attachToken(ctx context.Context, req *http.Request, path string) error {
	if c.tokens == nil || strings.HasPrefix(path, c.authPrefix) {
		return nil
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return fmt.Errorf("api: token lookup failed: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return nil
}

// errorBody is the conventional error response shape.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// classify turns a non-2xx response into an *APIError.
func (c *Client) classify(resp *http.Response, method, path string) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))

	var parsed errorBody
	message := ""
	if json.Unmarshal(raw, &parsed) == nil {
		message = parsed.Message
		if message == "" {
			message = parsed.Error
		}
	}

	switch resp.StatusCode {
	case http.StatusForbidden:
		c.logger.Warn("permission denied",
			zap.String("method", method),
			zap.String("path", path),
		)
	case http.StatusUnauthorized:
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
	}

	return &APIError{Status: resp.StatusCode, Message: message}
}

// resolve joins the base URL with a request path.
func (c *Client) resolve(path string) string {
	ref, err := url.Parse(path)
	if err != nil {
		return c.baseURL.String() + path
	}
	return c.baseURL.ResolveReference(ref).String()
}
