package cache

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// ErrInvalidKey is returned when a cache key is invalid (empty, too long,
// contains control characters or surrounding whitespace).
var ErrInvalidKey = errors.New("cache: invalid key")

// KeySeparator joins the parts of a cache key.
// Keys follow the <entityType>_<id>_<subresource> convention, e.g.
// "restaurant_42_menu" or "user_7_cart", so pattern-based invalidation
// can target an entity prefix.
const KeySeparator = "_"

// Key builds a cache key from its parts: Key("user", "42", "cart")
// returns "user_42_cart".
func Key(parts ...string) string {
	return strings.Join(parts, KeySeparator)
}

// Keyf builds a single key part from a formatted value, typically an id:
// Key("restaurant", Keyf("%d", id), "menu").
func Keyf(format string, args ...interface{}) string {
	return fmt.Sprintf(format, args...)
}

// ValidateKey checks if a cache key is valid.
// Returns nil if the key is valid, or an error describing the problem.
//
// Rules:
// - Non-empty string
// - Maximum length of 250 characters
// - No control characters
// - No leading or trailing whitespace
func ValidateKey(key string) error {
	if key == "" {
		return ErrInvalidKey
	}

	if len(key) > 250 {
		return fmt.Errorf("%w: key too long (max 250 characters)", ErrInvalidKey)
	}

	for _, r := range key {
		if unicode.IsControl(r) {
			return fmt.Errorf("%w: key contains control character", ErrInvalidKey)
		}
	}

	if strings.TrimSpace(key) != key {
		return fmt.Errorf("%w: key has leading or trailing whitespace", ErrInvalidKey)
	}

	return nil
}
