package config

import (
	"os"
	"strconv"
	"time"
)

// SweeperCfg drives the background engine: how often expired contests are
// swept and how often persisted ranks are refreshed.
type SweeperCfg struct {
	ExpirySweepInterval    time.Duration
	RankingRefreshInterval time.Duration
	LeaderboardCacheTTL    time.Duration
}

func NewSweeperCfg() *SweeperCfg {
	return &SweeperCfg{
		ExpirySweepInterval:    secondsFromEnv("EXPIRY_SWEEP_INTERVAL_SEC", 60),
		RankingRefreshInterval: secondsFromEnv("RANKING_REFRESH_INTERVAL_SEC", 120),
		LeaderboardCacheTTL:    secondsFromEnv("LEADERBOARD_CACHE_TTL_SEC", 30),
	}
}

func secondsFromEnv(key string, fallback int) time.Duration {
	varInt, err := strconv.Atoi(os.Getenv(key))
	if err != nil || varInt <= 0 {
		varInt = fallback
	}
	return time.Duration(varInt) * time.Second
}
