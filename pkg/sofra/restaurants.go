package sofra

import (
	"context"
	"fmt"
	"net/http"

	"sofra-client/pkg/api"
	"sofra-client/pkg/cache"
	"sofra-client/pkg/logging"
	"sofra-client/pkg/resource"
)

// RestaurantService reads venue listings and menus, and exposes the
// owner-side menu operations.
type RestaurantService struct {
	restaurants *resource.Client[Restaurant]
	menu        *resource.Client[MenuItem]
}

// UpdateMenuItemRequest is the owner-side menu edit payload.
type UpdateMenuItemRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Price       float64 `json:"price" validate:"gt=0"`
	Available   bool    `json:"available"`
}

func newRestaurantService(doer api.Doer, c *cache.Cache, logger *logging.Logger) (*RestaurantService, error) {
	restaurants, err := resource.NewClient[Restaurant](resource.Config{
		API: doer, Cache: c, Name: "restaurant", BasePath: "/restaurants", Logger: logger,
	})
	if err != nil {
		return nil, err
	}
	menu, err := resource.NewClient[MenuItem](resource.Config{
		API: doer, Cache: c, Name: "menuitem", BasePath: "/menu-items", Logger: logger,
	})
	if err != nil {
		return nil, err
	}
	return &RestaurantService{restaurants: restaurants, menu: menu}, nil
}

// List returns all restaurants.
func (s *RestaurantService) List(ctx context.Context) ([]Restaurant, error) {
	return s.restaurants.List(ctx)
}

// Get returns one restaurant by id.
func (s *RestaurantService) Get(ctx context.Context, id string) (*Restaurant, error) {
	return s.restaurants.Get(ctx, id)
}

// Menu returns a restaurant's menu.
func (s *RestaurantService) Menu(ctx context.Context, restaurantID string) ([]MenuItem, error) {
	return s.menu.ListAt(ctx,
		fmt.Sprintf("/restaurants/%s/menu", restaurantID),
		restaurantSubKey(restaurantID, "menu"),
	)
}

// UpdateMenuItem edits a dish (owner role) and invalidates the menu.
func (s *RestaurantService) UpdateMenuItem(ctx context.Context, restaurantID, itemID string, req UpdateMenuItemRequest) (*MenuItem, error) {
	if err := checkStruct(req); err != nil {
		return nil, err
	}

	var updated MenuItem
	err := s.menu.Mutate(ctx, http.MethodPut,
		fmt.Sprintf("/restaurants/%s/menu/%s", restaurantID, itemID),
		req, &updated,
		restaurantSubKey(restaurantID, "menu"),
	)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// SetItemAvailability toggles a dish on or off the menu (owner role).
func (s *RestaurantService) SetItemAvailability(ctx context.Context, restaurantID, itemID string, available bool) (*MenuItem, error) {
	var updated MenuItem
	body := map[string]bool{"available": available}
	err := s.menu.Mutate(ctx, http.MethodPut,
		fmt.Sprintf("/restaurants/%s/menu/%s/availability", restaurantID, itemID),
		body, &updated,
		restaurantSubKey(restaurantID, "menu"),
	)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}
