// Package sweeperengine runs the periodic maintenance passes: expiring
// overdue contests and refreshing persisted ranks.
package sweeperengine

import (
	"context"
	"time"

	"gitlab.com/cse-2025.net/internal/config"
	"gitlab.com/cse-2025.net/internal/core/ports/primary"
	"gitlab.com/cse-2025.net/internal/core/ports/secondary"
	"gitlab.com/cse-2025.net/internal/core/services/leaderboard"
	"gitlab.com/cse-2025.net/internal/core/services/lifecycle"
)

type SweeperEngine struct {
	SweeperCfg         *config.SweeperCfg
	lifecycleService   lifecycle.ILifecycleService
	leaderboardService leaderboard.ILeaderboardService
	contestRepo        secondary.ContestRepository
	logger             primary.Logger
}

func NewSweeperEngine(
	SweeperCfg *config.SweeperCfg,
	lifecycleService lifecycle.ILifecycleService,
	leaderboardService leaderboard.ILeaderboardService,
	contestRepo secondary.ContestRepository,
	logger primary.Logger,
) *SweeperEngine {
	return &SweeperEngine{
		SweeperCfg:         SweeperCfg,
		lifecycleService:   lifecycleService,
		leaderboardService: leaderboardService,
		contestRepo:        contestRepo,
		logger:             logger,
	}
}

// StartSweepEngine launches both background loops. They stop when ctx is
// cancelled.
func (s *SweeperEngine) StartSweepEngine(ctx context.Context) {
	expiryTicker := time.NewTicker(s.SweeperCfg.ExpirySweepInterval)
	go func() {
		defer expiryTicker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-expiryTicker.C:
				s.sweepExpiredContests(ctx)
			}
		}
	}()

	rankingTicker := time.NewTicker(s.SweeperCfg.RankingRefreshInterval)
	go func() {
		defer rankingTicker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-rankingTicker.C:
				s.refreshActiveRankings(ctx)
			}
		}
	}()
}

func (s *SweeperEngine) sweepExpiredContests(ctx context.Context) {
	result, err := s.lifecycleService.SweepExpired(ctx)
	if err != nil {
		s.logger.Error("Expiry sweep failed", "error", err)
		return
	}
	if result.Total > 0 {
		s.logger.Info("Expiry sweep finished", "updated", result.Updated, "total", result.Total)
	}
}

// refreshActiveRankings persists ranks for contests still running so the
// rank column stays close to the live leaderboard.
func (s *SweeperEngine) refreshActiveRankings(ctx context.Context) {
	contests, err := s.contestRepo.ListContests(ctx, secondary.ContestFilter{})
	if err != nil {
		s.logger.Error("Failed to list contests for ranking refresh", "error", err)
		return
	}

	now := time.Now()
	for _, contest := range contests {
		if !contest.Active(now) {
			continue
		}
		if _, err := s.leaderboardService.UpdateRankings(ctx, contest.ID); err != nil {
			s.logger.Error("Ranking refresh failed",
				"contestId", contest.ID, "error", err)
			continue
		}
		s.logger.Debug("Rankings refreshed", "contestId", contest.ID)
	}
}
