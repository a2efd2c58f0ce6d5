package primary

import (
	"context"

	"gitlab.com/cse-2025.net/internal/domain"
)

// UserDirectory looks up display information for leaderboard rendering.
// Implementations live outside the engine; a failed lookup must degrade to
// the raw user id, never fail leaderboard generation.
type UserDirectory interface {
	GetUser(ctx context.Context, userID string) (*domain.UserProfile, error)
}
