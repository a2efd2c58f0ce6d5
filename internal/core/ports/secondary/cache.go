package secondary

import (
	"context"

	"github.com/google/uuid"

	"gitlab.com/cse-2025.net/internal/domain"
)

// LeaderboardCache stores recently generated leaderboard snapshots. A miss
// is reported as (nil, nil); callers fall through to the generator.
type LeaderboardCache interface {
	GetLeaderboard(ctx context.Context, contestID uuid.UUID) ([]domain.LeaderboardEntry, error)
	SetLeaderboard(ctx context.Context, contestID uuid.UUID, entries []domain.LeaderboardEntry) error
	InvalidateLeaderboard(ctx context.Context, contestID uuid.UUID) error
}
