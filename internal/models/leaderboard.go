package models

type LeaderboardScope string

const (
	LeaderboardGlobal  LeaderboardScope = "global"
	LeaderboardFriends LeaderboardScope = "friends"
)

// LeaderboardEntry is one row of GET /leaderboard/{scope}.
type LeaderboardEntry struct {
	Rank     int    `json:"rank"`
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	XP       int    `json:"xp"`
	Level    int    `json:"level"`
	Streak   int    `json:"streak"`
	IsSelf   bool   `json:"is_self"`
}
