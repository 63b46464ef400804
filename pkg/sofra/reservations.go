package sofra

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"sofra-client/pkg/api"
	"sofra-client/pkg/cache"
	"sofra-client/pkg/logging"
	"sofra-client/pkg/resource"
)

// ReservationService books table slots. Availability rules live
// server-side; the client only submits requests.
type ReservationService struct {
	reservations *resource.Client[Reservation]
}

// CreateReservationRequest books a slot.
type CreateReservationRequest struct {
	UserID       string    `json:"userId" validate:"required"`
	RestaurantID string    `json:"restaurantId" validate:"required"`
	PartySize    int       `json:"partySize" validate:"gte=1,lte=50"`
	Time         time.Time `json:"time" validate:"required"`
}

func newReservationService(doer api.Doer, c *cache.Cache, logger *logging.Logger) (*ReservationService, error) {
	reservations, err := resource.NewClient[Reservation](resource.Config{
		API: doer, Cache: c, Name: "reservation", BasePath: "/reservations", Logger: logger,
	})
	if err != nil {
		return nil, err
	}
	return &ReservationService{reservations: reservations}, nil
}

// ListByUser returns a user's reservations.
func (s *ReservationService) ListByUser(ctx context.Context, userID string) ([]Reservation, error) {
	return s.reservations.ListAt(ctx,
		fmt.Sprintf("/users/%s/reservations", userID),
		userSubKey(userID, "reservations"),
	)
}

// ListByRestaurant returns a restaurant's reservations (owner role).
func (s *ReservationService) ListByRestaurant(ctx context.Context, restaurantID string) ([]Reservation, error) {
	return s.reservations.ListAt(ctx,
		fmt.Sprintf("/restaurants/%s/reservations", restaurantID),
		restaurantSubKey(restaurantID, "reservations"),
	)
}

// Create books a slot.
func (s *ReservationService) Create(ctx context.Context, req CreateReservationRequest) (*Reservation, error) {
	if err := checkStruct(req); err != nil {
		return nil, err
	}

	var created Reservation
	err := s.reservations.Mutate(ctx, http.MethodPost, "/reservations", req, &created,
		userSubKey(req.UserID, "reservations"),
		restaurantSubKey(req.RestaurantID, "reservations"),
	)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// Cancel withdraws a reservation.
func (s *ReservationService) Cancel(ctx context.Context, reservationID string) (*Reservation, error) {
	var cancelled Reservation
	err := s.reservations.Mutate(ctx, http.MethodPut,
		fmt.Sprintf("/reservations/%s/cancel", reservationID),
		nil, &cancelled,
	)
	if err != nil {
		return nil, err
	}

	s.reservations.Invalidate(ctx,
		userSubKey(cancelled.UserID, "reservations"),
		restaurantSubKey(cancelled.RestaurantID, "reservations"),
	)
	return &cancelled, nil
}
