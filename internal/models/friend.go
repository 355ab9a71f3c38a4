package models

import "time"

type FriendRequestStatus string

const (
	FriendRequestPending  FriendRequestStatus = "pending"
	FriendRequestAccepted FriendRequestStatus = "accepted"
	FriendRequestDeclined FriendRequestStatus = "declined"
)

// FriendRequest is never owned by the client: it is fetched, displayed, and
// actioned, with an optimistic local removal on cancel/accept/decline.
type FriendRequest struct {
	ID        string              `json:"id"`
	Requester User                `json:"requester"`
	Recipient User                `json:"recipient"`
	Status    FriendRequestStatus `json:"status"`
	CreatedAt time.Time           `json:"created_at"`
}

// FriendRequestList is the response shape of GET /friends/requests.
type FriendRequestList struct {
	Received      []FriendRequest `json:"received"`
	Sent          []FriendRequest `json:"sent"`
	ReceivedCount int             `json:"received_count"`
}

// Friend is an accepted friendship edge.
type Friend struct {
	User    User      `json:"user"`
	Since   time.Time `json:"since"`
	Streak  int       `json:"streak"`
	XPTotal int       `json:"xp_total"`
}
