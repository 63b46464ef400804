package auth

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"sofra-client/pkg/cache"
	"sofra-client/pkg/store/mock"
)

// fakeDoer is an api.Doer with injectable behavior.
type fakeDoer struct {
	DoFunc func(ctx context.Context, method, path string, body interface{}, out interface{}) error
	paths  []string
}

func (f *fakeDoer) Do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	f.paths = append(f.paths, method+" "+path)
	if f.DoFunc != nil {
		return f.DoFunc(ctx, method, path, body, out)
	}
	return nil
}

func respondSession(out interface{}, session Session) error {
	raw, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

func TestService_LoginPersistsToken(t *testing.T) {
	ctx := context.Background()
	doer := &fakeDoer{
		DoFunc: func(ctx context.Context, method, path string, body, out interface{}) error {
			return respondSession(out, Session{Token: "tok-1", UserID: "u1", Role: "diner"})
		},
	}
	secure := mock.NewMockStore()
	tokens := NewStoreTokenStore(secure)
	svc := NewService(doer, tokens, nil, nil)

	session, err := svc.Login(ctx, "a@b.c", "pw")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if session.UserID != "u1" {
		t.Errorf("UserID = %q, want %q", session.UserID, "u1")
	}

	stored, err := tokens.Token(ctx)
	if err != nil {
		t.Fatalf("Token() error = %v", err)
	}
	if stored != "tok-1" {
		t.Errorf("stored token = %q, want %q", stored, "tok-1")
	}
}

func TestService_LoginFailsWhenTokenNotPersistable(t *testing.T) {
	ctx := context.Background()
	doer := &fakeDoer{
		DoFunc: func(ctx context.Context, method, path string, body, out interface{}) error {
			return respondSession(out, Session{Token: "tok-1"})
		},
	}
	secure := mock.NewMockStore()
	secure.SetFunc = func(ctx context.Context, key string, value []byte) error {
		return errors.New("keychain locked")
	}
	svc := NewService(doer, NewStoreTokenStore(secure), nil, nil)

	if _, err := svc.Login(ctx, "a@b.c", "pw"); err == nil {
		t.Error("Login() succeeded with unpersistable token, want failure")
	}
}

func TestService_LoginFailurePropagates(t *testing.T) {
	ctx := context.Background()
	wantErr := errors.New("invalid credentials")
	doer := &fakeDoer{
		DoFunc: func(ctx context.Context, method, path string, body, out interface{}) error {
			return wantErr
		},
	}
	secure := mock.NewMockStore()
	svc := NewService(doer, NewStoreTokenStore(secure), nil, nil)

	if _, err := svc.Login(ctx, "a@b.c", "wrong"); !errors.Is(err, wantErr) {
		t.Errorf("Login() error = %v, want %v", err, wantErr)
	}
	if secure.SetCalls() != 0 {
		t.Error("token written despite failed login")
	}
}

func TestService_LogoutClearsLocalState(t *testing.T) {
	ctx := context.Background()
	doer := &fakeDoer{}

	cacheStore := mock.NewMockStore()
	c, err := cache.New(cache.Config{Store: cacheStore})
	if err != nil {
		t.Fatal(err)
	}
	c.Set(ctx, "user_1_cart", "v", time.Minute)
	c.Set(ctx, "user_1_orders", "v", time.Minute)
	c.Set(ctx, "restaurant_1", "v", time.Minute)

	secure := mock.NewMockStore()
	tokens := NewStoreTokenStore(secure)
	if err := tokens.SetToken(ctx, "tok-1"); err != nil {
		t.Fatal(err)
	}

	svc := NewService(doer, tokens, c, nil)
	if err := svc.Logout(ctx); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}

	if token, _ := tokens.Token(ctx); token != "" {
		t.Errorf("token = %q after logout, want empty", token)
	}
	if cacheStore.Contains("user_1_cart") || cacheStore.Contains("user_1_orders") {
		t.Error("user-scoped cache entries survived logout")
	}
	if !cacheStore.Contains("restaurant_1") {
		t.Error("shared cache entry wiped on logout")
	}
}

func TestService_LogoutClearsEvenWhenRequestFails(t *testing.T) {
	ctx := context.Background()
	doer := &fakeDoer{
		DoFunc: func(ctx context.Context, method, path string, body, out interface{}) error {
			return errors.New("offline")
		},
	}

	secure := mock.NewMockStore()
	tokens := NewStoreTokenStore(secure)
	if err := tokens.SetToken(ctx, "tok-1"); err != nil {
		t.Fatal(err)
	}

	svc := NewService(doer, tokens, nil, nil)
	if err := svc.Logout(ctx); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if token, _ := tokens.Token(ctx); token != "" {
		t.Error("token survived offline logout")
	}
}

func TestService_RefreshSendsCurrentToken(t *testing.T) {
	ctx := context.Background()
	var sentToken string
	doer := &fakeDoer{
		DoFunc: func(ctx context.Context, method, path string, body, out interface{}) error {
			sentToken = body.(map[string]string)["token"]
			return respondSession(out, Session{Token: "tok-2"})
		},
	}

	secure := mock.NewMockStore()
	tokens := NewStoreTokenStore(secure)
	if err := tokens.SetToken(ctx, "tok-1"); err != nil {
		t.Fatal(err)
	}

	svc := NewService(doer, tokens, nil, nil)
	if _, err := svc.Refresh(ctx); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if sentToken != "tok-1" {
		t.Errorf("refresh sent token %q, want %q", sentToken, "tok-1")
	}
	if stored, _ := tokens.Token(ctx); stored != "tok-2" {
		t.Errorf("stored token = %q, want rotated %q", stored, "tok-2")
	}
}

func TestService_HandleUnauthorizedClearsToken(t *testing.T) {
	ctx := context.Background()
	secure := mock.NewMockStore()
	tokens := NewStoreTokenStore(secure)
	if err := tokens.SetToken(ctx, "tok-1"); err != nil {
		t.Fatal(err)
	}

	svc := NewService(&fakeDoer{}, tokens, nil, nil)
	svc.HandleUnauthorized()

	if token, _ := tokens.Token(ctx); token != "" {
		t.Errorf("token = %q after 401, want empty", token)
	}
}

func TestStoreTokenStore_MissingTokenIsEmpty(t *testing.T) {
	tokens := NewStoreTokenStore(mock.NewMockStore())
	token, err := tokens.Token(context.Background())
	if err != nil {
		t.Fatalf("Token() error = %v", err)
	}
	if token != "" {
		t.Errorf("Token() = %q, want empty", token)
	}
}

func TestStoreTokenStore_LookupErrorPropagates(t *testing.T) {
	secure := mock.NewMockStore()
	secure.GetFunc = func(ctx context.Context, key string) ([]byte, error) {
		return nil, errors.New("keychain locked")
	}
	tokens := NewStoreTokenStore(secure)

	if _, err := tokens.Token(context.Background()); err == nil {
		t.Error("Token() succeeded, want the storage error")
	}
}
