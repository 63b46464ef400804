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

// FriendService manages the social graph: friend lists, requests, and
// responses.
type FriendService struct {
	friends *resource.Client[Friendship]
}

// FriendRequest sends a friend request by email.
type FriendRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func newFriendService(doer api.Doer, c *cache.Cache, logger *logging.Logger) (*FriendService, error) {
	friends, err := resource.NewClient[Friendship](resource.Config{
		API: doer, Cache: c, Name: "friendship", BasePath: "/friendships", Logger: logger,
	})
	if err != nil {
		return nil, err
	}
	return &FriendService{friends: friends}, nil
}

// List returns a user's accepted friendships.
func (s *FriendService) List(ctx context.Context, userID string) ([]Friendship, error) {
	return s.friends.ListAt(ctx,
		fmt.Sprintf("/users/%s/friends", userID),
		userSubKey(userID, "friends"),
	)
}

// Requests returns a user's pending incoming requests.
func (s *FriendService) Requests(ctx context.Context, userID string) ([]Friendship, error) {
	return s.friends.ListAt(ctx,
		fmt.Sprintf("/users/%s/friend-requests", userID),
		userSubKey(userID, "friend_requests"),
	)
}

// SendRequest sends a friend request by email.
func (s *FriendService) SendRequest(ctx context.Context, userID string, req FriendRequest) (*Friendship, error) {
	if err := checkStruct(req); err != nil {
		return nil, err
	}

	var created Friendship
	err := s.friends.Mutate(ctx, http.MethodPost,
		fmt.Sprintf("/users/%s/friend-requests", userID),
		req, &created,
		userSubKey(userID, "friend_requests"),
	)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// Respond accepts or declines a pending request.
func (s *FriendService) Respond(ctx context.Context, userID, requestID string, accept bool) (*Friendship, error) {
	var updated Friendship
	body := map[string]bool{"accept": accept}
	err := s.friends.Mutate(ctx, http.MethodPut,
		fmt.Sprintf("/friendships/%s", requestID),
		body, &updated,
		userSubKey(userID, "friends"),
		userSubKey(userID, "friend_requests"),
	)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Remove ends a friendship.
func (s *FriendService) Remove(ctx context.Context, userID, friendshipID string) error {
	return s.friends.Mutate(ctx, http.MethodDelete,
		fmt.Sprintf("/friendships/%s", friendshipID),
		nil, nil,
		userSubKey(userID, "friends"),
	)
}
