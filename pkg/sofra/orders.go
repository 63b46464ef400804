package sofra

import (
	"context"
	"fmt"
	"net/http"

	"sofra-client/pkg/api"
	"sofra-client/pkg/cache"
	"sofra-client/pkg/logging"
	"sofra-client/pkg/realtime"
	"sofra-client/pkg/resource"
)

// OrderService places and tracks orders. State transitions (pending →
// preparing → ready → served) are enforced server-side; the client only
// requests them.
type OrderService struct {
	orders *resource.Client[Order]
}

// CreateOrderRequest places an order from the user's current cart.
type CreateOrderRequest struct {
	UserID       string `json:"userId" validate:"required"`
	RestaurantID string `json:"restaurantId" validate:"required"`
	TableID      string `json:"tableId,omitempty"`
	Note         string `json:"note,omitempty"`
}

func newOrderService(doer api.Doer, c *cache.Cache, logger *logging.Logger) (*OrderService, error) {
	orders, err := resource.NewClient[Order](resource.Config{
		API: doer, Cache: c, Name: "order", BasePath: "/orders", Logger: logger,
	})
	if err != nil {
		return nil, err
	}
	return &OrderService{orders: orders}, nil
}

// Get returns one order by id.
func (s *OrderService) Get(ctx context.Context, id string) (*Order, error) {
	return s.orders.Get(ctx, id)
}

// ListByUser returns a user's order history.
func (s *OrderService) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	return s.orders.ListAt(ctx,
		fmt.Sprintf("/users/%s/orders", userID),
		userSubKey(userID, "orders"),
	)
}

// ListByRestaurant returns a restaurant's open and recent orders
// (owner and waiter roles).
func (s *OrderService) ListByRestaurant(ctx context.Context, restaurantID string) ([]Order, error) {
	return s.orders.ListAt(ctx,
		fmt.Sprintf("/restaurants/%s/orders", restaurantID),
		restaurantSubKey(restaurantID, "orders"),
	)
}

// Create places the order. On success the user's cart is consumed
// server-side, so the cart key is invalidated along with both order
// lists.
func (s *OrderService) Create(ctx context.Context, req CreateOrderRequest) (*Order, error) {
	if err := checkStruct(req); err != nil {
		return nil, err
	}

	var created Order
	err := s.orders.Mutate(ctx, http.MethodPost, "/orders", req, &created,
		userSubKey(req.UserID, "orders"),
		userSubKey(req.UserID, "cart"),
		restaurantSubKey(req.RestaurantID, "orders"),
	)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateStatus requests a state transition (owner and waiter roles).
// The server decides whether the transition is legal.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID, status string) (*Order, error) {
	var updated Order
	body := map[string]string{"status": status}
	err := s.orders.Mutate(ctx, http.MethodPut,
		fmt.Sprintf("/orders/%s/status", orderID),
		body, &updated,
		orderKey(orderID),
	)
	if err != nil {
		return nil, err
	}

	// The affected lists are only known from the server's answer.
	s.orders.Invalidate(ctx,
		userSubKey(updated.UserID, "orders"),
		restaurantSubKey(updated.RestaurantID, "orders"),
	)
	return &updated, nil
}

// Cancel cancels a pending order.
func (s *OrderService) Cancel(ctx context.Context, orderID string) (*Order, error) {
	return s.UpdateStatus(ctx, orderID, OrderStatusCancelled)
}

// WatchRestaurant re-fetches the restaurant's order list whenever the
// realtime channel signals a change.
func (s *OrderService) WatchRestaurant(listener *realtime.Listener, restaurantID string) {
	refresh := func(ctx context.Context) {
		s.orders.Invalidate(ctx, restaurantSubKey(restaurantID, "orders"))
		_, _ = s.ListByRestaurant(ctx, restaurantID)
	}
	listener.Subscribe("newOrder", refresh)
	listener.Subscribe("orderStatusChanged", refresh)
}

// WatchUser re-fetches the user's order list whenever the realtime
// channel signals a change.
func (s *OrderService) WatchUser(listener *realtime.Listener, userID string) {
	refresh := func(ctx context.Context) {
		s.orders.Invalidate(ctx, userSubKey(userID, "orders"))
		_, _ = s.ListByUser(ctx, userID)
	}
	listener.Subscribe("orderStatusChanged", refresh)
}
