package api

import (
	"context"
	"net/http"

	"github.com/habitx-app/habitx-cli/internal/models"
)

// sendFriendRequest is the payload of POST /friends/request.
type sendFriendRequest struct {
	Username string `json:"username"`
}

// respondFriendRequest is the payload of PUT /friends/request/{id}.
type respondFriendRequest struct {
	Status models.FriendRequestStatus `json:"status"`
}

// FriendRequests fetches pending friend requests. The call is guarded by the
// friend-request circuit breaker: while the breaker is open the fetch is
// suppressed and breaker.ErrOpen is returned without touching the network.
func (c *Client) FriendRequests(ctx context.Context) (models.FriendRequestList, error) {
	var list models.FriendRequestList
	err := c.friendBreaker.Do(func() error {
		return c.do(ctx, http.MethodGet, "/friends/requests", nil, &list)
	})
	if err != nil {
		return models.FriendRequestList{}, err
	}
	return list, nil
}

// ListFriends returns accepted friendships.
func (c *Client) ListFriends(ctx context.Context) ([]models.Friend, error) {
	var friends []models.Friend
	if err := c.do(ctx, http.MethodGet, "/friends", nil, &friends); err != nil {
		return nil, err
	}
	return friends, nil
}

// SendFriendRequest sends a request to the named user.
func (c *Client) SendFriendRequest(ctx context.Context, username string) (models.FriendRequest, error) {
	var fr models.FriendRequest
	if err := c.do(ctx, http.MethodPost, "/friends/request", sendFriendRequest{Username: username}, &fr); err != nil {
		return models.FriendRequest{}, err
	}
	return fr, nil
}

// AcceptFriendRequest accepts a pending request.
func (c *Client) AcceptFriendRequest(ctx context.Context, requestID string) error {
	return c.do(ctx, http.MethodPut, "/friends/request/"+requestID,
		respondFriendRequest{Status: models.FriendRequestAccepted}, nil)
}

// DeclineFriendRequest declines a pending request.
func (c *Client) DeclineFriendRequest(ctx context.Context, requestID string) error {
	return c.do(ctx, http.MethodPut, "/friends/request/"+requestID,
		respondFriendRequest{Status: models.FriendRequestDeclined}, nil)
}

// CancelFriendRequest withdraws a request the caller sent.
func (c *Client) CancelFriendRequest(ctx context.Context, requestID string) error {
	return c.do(ctx, http.MethodDelete, "/friends/request/"+requestID, nil, nil)
}
