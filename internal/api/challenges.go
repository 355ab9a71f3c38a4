package api

import (
	"context"
	"net/http"

	"github.com/habitx-app/habitx-cli/internal/models"
)

// ListChallenges returns available group challenges.
func (c *Client) ListChallenges(ctx context.Context) ([]models.Challenge, error) {
	var challenges []models.Challenge
	if err := c.do(ctx, http.MethodGet, "/challenges", nil, &challenges); err != nil {
		return nil, err
	}
	return challenges, nil
}

// GetChallenge returns one challenge with participant standings.
func (c *Client) GetChallenge(ctx context.Context, challengeID string) (models.ChallengeDetail, error) {
	var detail models.ChallengeDetail
	if err := c.do(ctx, http.MethodGet, "/challenges/"+challengeID, nil, &detail); err != nil {
		return models.ChallengeDetail{}, err
	}
	return detail, nil
}

// JoinChallenge enrolls the caller in a challenge.
func (c *Client) JoinChallenge(ctx context.Context, challengeID string) error {
	return c.do(ctx, http.MethodPost, "/challenges/"+challengeID+"/join", nil, nil)
}

// LeaveChallenge withdraws the caller from a challenge.
func (c *Client) LeaveChallenge(ctx context.Context, challengeID string) error {
	return c.do(ctx, http.MethodPost, "/challenges/"+challengeID+"/leave", nil, nil)
}

// Leaderboard returns ranked entries for the given scope.
func (c *Client) Leaderboard(ctx context.Context, scope models.LeaderboardScope) ([]models.LeaderboardEntry, error) {
	var entries []models.LeaderboardEntry
	if err := c.do(ctx, http.MethodGet, "/leaderboard/"+string(scope), nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
