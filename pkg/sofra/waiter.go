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

// WaiterService raises and resolves table-side waiter calls.
type WaiterService struct {
	calls *resource.Client[WaiterCall]
}

// CallWaiterRequest signals that a table needs attention.
type CallWaiterRequest struct {
	RestaurantID string `json:"restaurantId" validate:"required"`
	TableID      string `json:"tableId" validate:"required"`
	Reason       string `json:"reason,omitempty" validate:"max=200"`
}

func newWaiterService(doer api.Doer, c *cache.Cache, logger *logging.Logger) (*WaiterService, error) {
	calls, err := resource.NewClient[WaiterCall](resource.Config{
		API: doer, Cache: c, Name: "waitercall", BasePath: "/waiter-calls", Logger: logger,
	})
	if err != nil {
		return nil, err
	}
	return &WaiterService{calls: calls}, nil
}

// CallWaiter raises a call for the given table.
func (s *WaiterService) CallWaiter(ctx context.Context, req CallWaiterRequest) (*WaiterCall, error) {
	if err := checkStruct(req); err != nil {
		return nil, err
	}

	var created WaiterCall
	err := s.calls.Mutate(ctx, http.MethodPost, "/waiter-calls", req, &created,
		restaurantSubKey(req.RestaurantID, "calls"),
	)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// ListCalls returns a restaurant's open calls (waiter and owner roles).
func (s *WaiterService) ListCalls(ctx context.Context, restaurantID string) ([]WaiterCall, error) {
	return s.calls.ListAt(ctx,
		fmt.Sprintf("/restaurants/%s/waiter-calls", restaurantID),
		restaurantSubKey(restaurantID, "calls"),
	)
}

// ResolveCall marks a call as handled.
func (s *WaiterService) ResolveCall(ctx context.Context, restaurantID, callID string) error {
	return s.calls.Mutate(ctx, http.MethodPut,
		fmt.Sprintf("/waiter-calls/%s/resolve", callID),
		nil, nil,
		restaurantSubKey(restaurantID, "calls"),
	)
}

// WatchCalls re-fetches the restaurant's call list whenever a new call
// comes in over the realtime channel.
func (s *WaiterService) WatchCalls(listener *realtime.Listener, restaurantID string) {
	listener.Subscribe("waiterCalled", func(ctx context.Context) {
		s.calls.Invalidate(ctx, restaurantSubKey(restaurantID, "calls"))
		_, _ = s.ListCalls(ctx, restaurantID)
	})
}
