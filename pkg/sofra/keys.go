package sofra

import "sofra-client/pkg/cache"

// Cache keys follow one uniform convention across every service:
// <entityType>_<id>[_<subresource>], e.g. "restaurant_42_menu" or
// "user_7_cart". Pattern-based invalidation (logout wiping "user_"
// entries) depends on it.

func restaurantKey(id string) string {
	return cache.Key("restaurant", id)
}

func restaurantSubKey(id, sub string) string {
	return cache.Key("restaurant", id, sub)
}

func userSubKey(id, sub string) string {
	return cache.Key("user", id, sub)
}

func orderKey(id string) string {
	return cache.Key("order", id)
}
