// Package realtime receives "data changed" signals from the backend's
// socket channel. The only contract relied upon is the event name:
// a received event triggers the subscribed refresh handlers, which
// invalidate and re-fetch through the service layer. Payloads are
// never parsed beyond the name.
package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"sofra-client/pkg/logging"
	"sofra-client/pkg/metrics"
)

// Handler is a refresh callback. It receives the context of the
// listener's run loop.
type Handler func(ctx context.Context)

// Config holds construction parameters for a Listener.
type Config struct {
	// URL of the socket endpoint, e.g. "wss://api.sofra.example/ws".
	// Required.
	URL string

	// Header is attached to the dial request (typically the bearer token).
	Header http.Header

	// ReconnectDelay is the initial delay between reconnect attempts.
	// It doubles up to MaxReconnectDelay. Default: 1s.
	ReconnectDelay time.Duration

	// MaxReconnectDelay caps the backoff. Default: 30s.
	MaxReconnectDelay time.Duration

	// MaxRetries limits consecutive failed reconnects before the
	// listener gives up. 0 means retry forever.
	MaxRetries int

	// PingInterval and PongWait control keepalive. Defaults: 30s / 60s.
	PingInterval time.Duration
	PongWait     time.Duration

	// Logger defaults to a no-op logger.
	Logger *logging.Logger

	// Metrics defaults to a no-op collector.
	Metrics metrics.Collector
}

// Listener maintains a socket connection to the backend and dispatches
// named change events to subscribed handlers. It reconnects with
// exponential backoff and resubscriptions survive reconnects (they are
// client-side only).
type Listener struct {
	config Config

	conn   *websocket.Conn
	connMu sync.Mutex

	handlers   map[string][]Handler
	handlersMu sync.RWMutex

	cancel context.CancelFunc
	done   chan struct{}

	logger  *logging.Logger
	metrics metrics.Collector
}

// envelope is the minimal wire shape: everything but the event name is
// ignored.
type envelope struct {
	Event string `json:"event"`
}

// NewListener creates a Listener. Call Start to connect.
func NewListener(config Config) (*Listener, error) {
	if config.URL == "" {
		return nil, errors.New("realtime: URL is required")
	}
	if config.ReconnectDelay <= 0 {
		config.ReconnectDelay = time.Second
	}
	if config.MaxReconnectDelay <= 0 {
		config.MaxReconnectDelay = 30 * time.Second
	}
	if config.PingInterval <= 0 {
		config.PingInterval = 30 * time.Second
	}
	if config.PongWait <= 0 {
		config.PongWait = 60 * time.Second
	}
	if config.Logger == nil {
		config.Logger = logging.NewNoOpLogger()
	}
	if config.Metrics == nil {
		config.Metrics = metrics.NoOpCollector{}
	}

	return &Listener{
		config:   config,
		handlers: make(map[string][]Handler),
		logger:   config.Logger.Named("realtime"),
		metrics:  config.Metrics,
	}, nil
}

// Subscribe registers a refresh handler for the named event
// (e.g. "newOrder", "orderStatusChanged"). Safe to call before or after
// Start.
func (l *Listener) Subscribe(event string, handler Handler) {
	l.handlersMu.Lock()
	defer l.handlersMu.Unlock()
	l.handlers[event] = append(l.handlers[event], handler)
}

// Start dials the socket and runs the read loop in the background.
// The initial dial is synchronous so callers learn immediately whether
// the channel is available; later disconnects reconnect with backoff.
func (l *Listener) Start(ctx context.Context) error {
	if err := l.dial(ctx); err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.done = make(chan struct{})

	go l.run(runCtx)
	return nil
}

// Close stops the read loop and closes the connection.
func (l *Listener) Close() error {
	if l.cancel != nil {
		l.cancel()
	}

	l.connMu.Lock()
	if l.conn != nil {
		l.conn.Close()
		l.conn = nil
	}
	l.connMu.Unlock()

	if l.done != nil {
		<-l.done
	}
	return nil
}

func (l *Listener) dial(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, l.config.URL, l.config.Header)
	if err != nil {
		return err
	}

	conn.SetReadDeadline(time.Now().Add(l.config.PongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(l.config.PongWait))
		return nil
	})

	l.connMu.Lock()
	l.conn = conn
	l.connMu.Unlock()

	l.logger.Info("connected", zap.String("url", l.config.URL))
	return nil
}

// run reads until the connection drops, then reconnects with backoff.
func (l *Listener) run(ctx context.Context) {
	defer close(l.done)

	pingTicker := time.NewTicker(l.config.PingInterval)
	defer pingTicker.Stop()

	go l.pingLoop(ctx, pingTicker)

	delay := l.config.ReconnectDelay
	retries := 0

	for {
		err := l.readLoop(ctx)
		if ctx.Err() != nil {
			return
		}
		l.logger.Warn("connection lost", zap.Error(err))

		for {
			if l.config.MaxRetries > 0 && retries >= l.config.MaxRetries {
				l.logger.Error("giving up after max reconnect attempts",
					zap.Int("attempts", retries))
				return
			}

			select {
			case <-ctx.Done():
				return
			case <-time.After(delay):
			}

			retries++
			if err := l.dial(ctx); err != nil {
				l.logger.Warn("reconnect failed",
					zap.Int("attempt", retries), zap.Error(err))
				delay *= 2
				if delay > l.config.MaxReconnectDelay {
					delay = l.config.MaxReconnectDelay
				}
				continue
			}

			delay = l.config.ReconnectDelay
			retries = 0
			break
		}
	}
}

// readLoop reads and dispatches messages until the connection errors.
func (l *Listener) readLoop(ctx context.Context) error {
	for {
		l.connMu.Lock()
		conn := l.conn
		l.connMu.Unlock()
		if conn == nil {
			return errors.New("realtime: no connection")
		}

		_, message, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		var env envelope
		if err := json.Unmarshal(message, &env); err != nil || env.Event == "" {
			continue
		}

		l.dispatch(ctx, env.Event)
	}
}

func (l *Listener) dispatch(ctx context.Context, event string) {
	l.handlersMu.RLock()
	handlers := l.handlers[event]
	l.handlersMu.RUnlock()

	l.metrics.RecordRealtimeEvent(event)
	l.logger.Debug("event received",
		zap.String("event", event), zap.Int("handlers", len(handlers)))

	for _, handler := range handlers {
		handler(ctx)
	}
}

// pingLoop keeps the connection alive.
func (l *Listener) pingLoop(ctx context.Context, ticker *time.Ticker) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.connMu.Lock()
			conn := l.conn
			l.connMu.Unlock()
			if conn == nil {
				continue
			}
			deadline := time.Now().Add(10 * time.Second)
			if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				l.logger.Debug("ping failed", zap.Error(err))
			}
		}
	}
}
