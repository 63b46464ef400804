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

// ReviewService reads and posts restaurant reviews. The aggregate
// rating shown on a restaurant is recomputed server-side.
type ReviewService struct {
	reviews *resource.Client[Review]
}

// CreateReviewRequest posts a review.
type CreateReviewRequest struct {
	UserID       string `json:"userId" validate:"required"`
	RestaurantID string `json:"restaurantId" validate:"required"`
	Rating       int    `json:"rating" validate:"gte=1,lte=5"`
	Comment      string `json:"comment" validate:"max=2000"`
}

func newReviewService(doer api.Doer, c *cache.Cache, logger *logging.Logger) (*ReviewService, error) {
	reviews, err := resource.NewClient[Review](resource.Config{
		API: doer, Cache: c, Name: "review", BasePath: "/reviews", Logger: logger,
	})
	if err != nil {
		return nil, err
	}
	return &ReviewService{reviews: reviews}, nil
}

// ListByRestaurant returns a restaurant's reviews.
func (s *ReviewService) ListByRestaurant(ctx context.Context, restaurantID string) ([]Review, error) {
	return s.reviews.ListAt(ctx,
		fmt.Sprintf("/restaurants/%s/reviews", restaurantID),
		restaurantSubKey(restaurantID, "reviews"),
	)
}

// Create posts a review. The restaurant entity is invalidated too since
// its aggregate rating changes.
func (s *ReviewService) Create(ctx context.Context, req CreateReviewRequest) (*Review, error) {
	if err := checkStruct(req); err != nil {
		return nil, err
	}

	var created Review
	err := s.reviews.Mutate(ctx, http.MethodPost, "/reviews", req, &created,
		restaurantSubKey(req.RestaurantID, "reviews"),
		restaurantKey(req.RestaurantID),
	)
	if err != nil {
		return nil, err
	}
	return &created, nil
}
