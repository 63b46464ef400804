package auth

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"sofra-client/pkg/api"
	"sofra-client/pkg/cache"
	"sofra-client/pkg/logging"
)

// Session is the backend's answer to a successful authentication call.
type Session struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
	Role   string `json:"role"`
}

// Credentials is the login payload.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the sign-up payload.
type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role,omitempty"`
}

// Service owns the bearer-token lifecycle: set on successful
// login/registration/refresh, cleared on logout or detected
// invalidation (401).
type Service struct {
	api    api.Doer
	tokens api.TokenStore
	cache  *cache.Cache
	logger *logging.Logger
}

// NewService creates an auth service. The cache is used to wipe
// user-scoped entries on logout and may be nil.
func NewService(doer api.Doer, tokens api.TokenStore, c *cache.Cache, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.NewNoOpLogger()
	}
	return &Service{
		api:    doer,
		tokens: tokens,
		cache:  c,
		logger: logger.Named("auth"),
	}
}

// Login authenticates with email and password and persists the returned
// token. A token that cannot be persisted fails the login: every
// subsequent request would silently run unauthenticated otherwise.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	var session Session
	if err := s.api.Do(ctx, "POST", "/auth/login", Credentials{Email: email, Password: password}, &session); err != nil {
		return nil, err
	}
	if err := s.tokens.SetToken(ctx, session.Token); err != nil {
		return nil, fmt.Errorf("auth: failed to persist token: %w", err)
	}
	return &session, nil
}

// Register creates an account and persists the returned token.
func (s *Service) Register(ctx context.Context, reg Registration) (*Session, error) {
	var session Session
	if err := s.api.Do(ctx, "POST", "/auth/register", reg, &session); err != nil {
		return nil, err
	}
	if err := s.tokens.SetToken(ctx, session.Token); err != nil {
		return nil, fmt.Errorf("auth: failed to persist token: %w", err)
	}
	return &session, nil
}

// Refresh exchanges the current token for a fresh one.
func (s *Service) Refresh(ctx context.Context) (*Session, error) {
	current, err := s.tokens.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("auth: token lookup failed: %w", err)
	}

	var session Session
	body := map[string]string{"token": current}
	if err := s.api.Do(ctx, "POST", "/auth/refresh", body, &session); err != nil {
		return nil, err
	}
	if err := s.tokens.SetToken(ctx, session.Token); err != nil {
		return nil, fmt.Errorf("auth: failed to persist token: %w", err)
	}
	return &session, nil
}

// Logout tells the backend to end the session, then clears the stored
// token and wipes user-scoped cache entries. The network call is
// best-effort; local state is cleared regardless.
func (s *Service) Logout(ctx context.Context) error {
	if err := s.api.Do(ctx, "POST", "/auth/logout", nil, nil); err != nil {
		s.logger.Warn("logout request failed, clearing local session anyway", zap.Error(err))
	}

	if s.cache != nil {
		s.cache.ClearByPattern(ctx, "user_")
	}

	return s.tokens.ClearToken(ctx)
}

// HandleUnauthorized clears the stored token. Wire it to the api
// client's OnUnauthorized hook so a 401 ends the local session.
func (s *Service) HandleUnauthorized() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := s.tokens.ClearToken(ctx); err != nil {
		s.logger.Warn("failed to clear invalidated token", zap.Error(err))
	}
}
