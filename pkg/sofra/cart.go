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

// CartService manages the user's cart. Totals are computed server-side.
type CartService struct {
	carts *resource.Client[Cart]
}

// AddCartItemRequest adds a dish to the cart.
type AddCartItemRequest struct {
	MenuItemID string `json:"menuItemId" validate:"required"`
	Quantity   int    `json:"quantity" validate:"gte=1"`
}

func newCartService(doer api.Doer, c *cache.Cache, logger *logging.Logger) (*CartService, error) {
	carts, err := resource.NewClient[Cart](resource.Config{
		API: doer, Cache: c, Name: "cart", BasePath: "/carts", Logger: logger,
	})
	if err != nil {
		return nil, err
	}
	return &CartService{carts: carts}, nil
}

func cartPath(userID string) string {
	return fmt.Sprintf("/users/%s/cart", userID)
}

// Get returns the user's current cart.
func (s *CartService) Get(ctx context.Context, userID string) (*Cart, error) {
	return s.carts.GetAt(ctx, cartPath(userID), userSubKey(userID, "cart"))
}

// AddItem adds a dish to the cart and invalidates the cart key.
func (s *CartService) AddItem(ctx context.Context, userID string, req AddCartItemRequest) (*Cart, error) {
	if err := checkStruct(req); err != nil {
		return nil, err
	}

	var updated Cart
	err := s.carts.Mutate(ctx, http.MethodPost, cartPath(userID)+"/items", req, &updated,
		userSubKey(userID, "cart"),
	)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// UpdateItem changes the quantity of a cart line.
func (s *CartService) UpdateItem(ctx context.Context, userID, menuItemID string, quantity int) (*Cart, error) {
	if quantity < 1 {
		return nil, &ValidationError{Fields: []string{"Quantity"}}
	}

	var updated Cart
	body := map[string]int{"quantity": quantity}
	err := s.carts.Mutate(ctx, http.MethodPut,
		fmt.Sprintf("%s/items/%s", cartPath(userID), menuItemID),
		body, &updated,
		userSubKey(userID, "cart"),
	)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// RemoveItem deletes a cart line.
func (s *CartService) RemoveItem(ctx context.Context, userID, menuItemID string) (*Cart, error) {
	var updated Cart
	err := s.carts.Mutate(ctx, http.MethodDelete,
		fmt.Sprintf("%s/items/%s", cartPath(userID), menuItemID),
		nil, &updated,
		userSubKey(userID, "cart"),
	)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Clear empties the cart.
func (s *CartService) Clear(ctx context.Context, userID string) error {
	return s.carts.Mutate(ctx, http.MethodDelete, cartPath(userID), nil, nil,
		userSubKey(userID, "cart"),
	)
}
