package cache

import (
	"errors"
	"strings"
	"testing"
)

func TestKey(t *testing.T) {
	tests := []struct {
		name     string
		parts    []string
		expected string
	}{
		{"entity", []string{"restaurant", "42"}, "restaurant_42"},
		{"subresource", []string{"user", "7", "cart"}, "user_7_cart"},
		{"collection", []string{"restaurant", "all"}, "restaurant_all"},
		{"single part", []string{"auth_token"}, "auth_token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Key(tt.parts...); got != tt.expected {
				t.Errorf("Key(%v) = %q, want %q", tt.parts, got, tt.expected)
			}
		})
	}
}

func TestKeyf(t *testing.T) {
	if got := Keyf("%d", 42); got != "42" {
		t.Errorf("Keyf() = %q, want %q", got, "42")
	}
}

func TestValidateKey(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr bool
	}{
		{"valid key", "restaurant_42_menu", false},
		{"empty", "", true},
		{"too long", strings.Repeat("a", 251), true},
		{"max length", strings.Repeat("a", 250), false},
		{"control character", "user\n42", true},
		{"tab", "user\t42", true},
		{"leading whitespace", " user_42", true},
		{"trailing whitespace", "user_42 ", true},
		{"interior space is fine", "user 42", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateKey(tt.key)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateKey(%q) error = %v, wantErr %v", tt.key, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidKey) {
				t.Errorf("error %v should wrap ErrInvalidKey", err)
			}
		})
	}
}
