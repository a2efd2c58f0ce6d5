package leaderboard

import (
	"context"

	"github.com/google/uuid"

	"gitlab.com/cse-2025.net/internal/domain"
)

// ILeaderboardService recomputes the ranked view of a contest from the
// submission log. Generation is read-only over the log and safe to run
// concurrently with new submissions arriving; the result is an
// eventually-consistent snapshot.
type ILeaderboardService interface {
	// GenerateLeaderboard returns ranked entries for every enrolled
	// participant. Serves a cached snapshot when one is fresh.
	GenerateLeaderboard(ctx context.Context, contestID uuid.UUID) ([]domain.LeaderboardEntry, error)

	// UpdateRankings regenerates the leaderboard and persists each rank
	// onto the participant records. Per-participant write failures are
	// logged and skipped.
	UpdateRankings(ctx context.Context, contestID uuid.UUID) (bool, error)

	// GetAnalytics returns participation and per-problem statistics.
	GetAnalytics(ctx context.Context, contestID uuid.UUID) (*domain.ContestAnalytics, error)
}
