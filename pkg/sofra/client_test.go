package sofra

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNew_RequiresBaseURL(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Error("New() without base URL should fail")
	}
}

func TestNew_WiresAllServices(t *testing.T) {
	client, err := New(Config{BaseURL: "http://localhost:8080"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer client.Close()

	if client.Auth == nil || client.Restaurants == nil || client.Orders == nil ||
		client.Cart == nil || client.Tables == nil || client.Reservations == nil ||
		client.Reviews == nil || client.Friends == nil || client.Payments == nil ||
		client.Waiter == nil {
		t.Error("New() left a service nil")
	}
	if client.API() == nil || client.Cache() == nil {
		t.Error("New() left the core accessors nil")
	}
}

func TestNew_UnauthorizedResponseEndsSession(t *testing.T) {
	ctx := context.Background()

	var status int = http.StatusOK
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/login" {
			w.Write([]byte(`{"token":"tok-1","userId":"u1","role":"diner"}`))
			return
		}
		w.WriteHeader(status)
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client, err := New(Config{BaseURL: server.URL})
	if err != nil {
		t.Fatal(err)
	}
	defer client.Close()

	if _, err := client.Auth.Login(ctx, "a@b.c", "pw"); err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	status = http.StatusUnauthorized
	if _, err := client.Restaurants.List(ctx); err == nil {
		t.Fatal("List() succeeded, want 401")
	}

	// The 401 hook must have cleared the stored token.
	token, err := client.tokens.Token(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if token != "" {
		t.Errorf("token = %q after 401, want empty", token)
	}
}

func TestStartRealtime_RequiresURL(t *testing.T) {
	client, err := New(Config{BaseURL: "http://localhost:8080"})
	if err != nil {
		t.Fatal(err)
	}
	defer client.Close()

	if _, err := client.StartRealtime(context.Background()); err == nil {
		t.Error("StartRealtime() without a realtime URL should fail")
	}
}
