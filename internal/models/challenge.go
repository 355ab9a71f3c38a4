package models

import "time"

type ChallengeStatus string

const (
	ChallengeUpcoming ChallengeStatus = "upcoming"
	ChallengeActive   ChallengeStatus = "active"
	ChallengeEnded    ChallengeStatus = "ended"
)

// Challenge is a group challenge users can join.
type Challenge struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Description      string          `json:"description,omitempty"`
	Status           ChallengeStatus `json:"status"`
	StartDate        string          `json:"start_date"` // YYYY-MM-DD
	EndDate          string          `json:"end_date"`   // YYYY-MM-DD
	ParticipantCount int             `json:"participant_count"`
	Joined           bool            `json:"joined"`
	CreatedAt        time.Time       `json:"created_at"`
}

// ChallengeDetail adds per-participant progress to a challenge.
type ChallengeDetail struct {
	Challenge    Challenge           `json:"challenge"`
	Participants []ChallengeStanding `json:"participants"`
}

// ChallengeStanding is one participant's progress within a challenge.
type ChallengeStanding struct {
	User          User `json:"user"`
	CompletedDays int  `json:"completed_days"`
	Rank          int  `json:"rank"`
}
