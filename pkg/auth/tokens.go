package auth

import (
	"context"

	"sofra-client/pkg/store"
)

// tokenKey is the well-known key the bearer token lives under.
const tokenKey = "auth_token"

// StoreTokenStore adapts a store.Store into an api.TokenStore. The store
// handed here should be a dedicated secure store instance, not the one
// backing the general cache, so credentials stay isolated from cached
// payloads.
type StoreTokenStore struct {
	store store.Store
}

// NewStoreTokenStore creates a token store over the given secure store.
func NewStoreTokenStore(secure store.Store) *StoreTokenStore {
	return &StoreTokenStore{store: secure}
}

// Token returns the current bearer token, or "" when none is stored.
// A storage failure is returned as-is so the request pipeline can fail
// closed.
func (t *StoreTokenStore) Token(ctx context.Context) (string, error) {
	value, err := t.store.Get(ctx, tokenKey)
	if store.IsNotFound(err) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return string(value), nil
}

// SetToken persists a new bearer token, replacing any previous one.
// At most one token is active per device session.
func (t *StoreTokenStore) SetToken(ctx context.Context, token string) error {
	return t.store.Set(ctx, tokenKey, []byte(token))
}

// ClearToken removes the stored token.
func (t *StoreTokenStore) ClearToken(ctx context.Context) error {
	return t.store.Remove(ctx, tokenKey)
}
