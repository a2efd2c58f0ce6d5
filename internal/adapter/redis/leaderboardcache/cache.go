// Package leaderboardcache stores generated leaderboard snapshots in Redis.
package leaderboardcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"gitlab.com/cse-2025.net/internal/core/ports/primary"
	"gitlab.com/cse-2025.net/internal/core/ports/secondary"
	"gitlab.com/cse-2025.net/internal/domain"
)

const (
	leaderboardKeyPrefix = "leaderboard:"
	defaultExpiration    = 30 * time.Second
)

var _ secondary.LeaderboardCache = (*LeaderboardCache)(nil)

// LeaderboardCache implements the LeaderboardCache interface with Redis.
// Entries expire on their own; the TTL only bounds staleness between the
// explicit invalidations issued by the scoring path.
type LeaderboardCache struct {
	redisClient *redis.Client
	logger      primary.Logger
	expiration  time.Duration
}

// NewLeaderboardCache creates a Redis leaderboard cache. A non-positive ttl
// falls back to the default expiration.
func NewLeaderboardCache(redisClient *redis.Client, logger primary.Logger, ttl time.Duration) *LeaderboardCache {
	if ttl <= 0 {
		ttl = defaultExpiration
	}
	return &LeaderboardCache{
		redisClient: redisClient,
		logger:      logger,
		expiration:  ttl,
	}
}

func leaderboardKey(contestID uuid.UUID) string {
	return leaderboardKeyPrefix + contestID.String()
}

// GetLeaderboard retrieves a cached snapshot. A miss is (nil, nil).
func (c *LeaderboardCache) GetLeaderboard(ctx context.Context, contestID uuid.UUID) ([]domain.LeaderboardEntry, error) {
	data, err := c.redisClient.Get(ctx, leaderboardKey(contestID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read cached leaderboard: %w", err)
	}

	var entries []domain.LeaderboardEntry
	if err := json.Unmarshal([]byte(data), &entries); err != nil {
		// A corrupt snapshot is treated as a miss so the generator can
		// overwrite it.
		c.logger.Warn("Dropping undecodable leaderboard snapshot",
			"contestId", contestID, "error", err)
		return nil, nil
	}
	return entries, nil
}

// SetLeaderboard stores a snapshot with the configured TTL.
func (c *LeaderboardCache) SetLeaderboard(ctx context.Context, contestID uuid.UUID, entries []domain.LeaderboardEntry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to marshal leaderboard: %w", err)
	}

	if err := c.redisClient.Set(ctx, leaderboardKey(contestID), data, c.expiration).Err(); err != nil {
		return fmt.Errorf("failed to cache leaderboard: %w", err)
	}
	return nil
}

// InvalidateLeaderboard drops the cached snapshot for a contest.
func (c *LeaderboardCache) InvalidateLeaderboard(ctx context.Context, contestID uuid.UUID) error {
	if err := c.redisClient.Del(ctx, leaderboardKey(contestID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate leaderboard: %w", err)
	}
	return nil
}
