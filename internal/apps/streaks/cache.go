package streaks

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	leaderboardKeyPrefix = "selfora:leaderboard:"
	cacheOpTimeout       = 2 * time.Second
)

// LeaderboardCache keeps the top MaxLeaderboardLimit rows per streak type in
// Redis. A nil cache, or a Redis error, behaves as a miss.
type LeaderboardCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewLeaderboardCache(rdb *redis.Client, ttl time.Duration) *LeaderboardCache {
	if rdb == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &LeaderboardCache{rdb: rdb, ttl: ttl}
}

func leaderboardKey(t StreakType) string {
	return leaderboardKeyPrefix + string(t)
}

func (c *LeaderboardCache) Get(ctx context.Context, t StreakType) ([]LeaderboardEntry, bool) {
	if c == nil {
		return nil, false
	}
	ctx, cancel := context.WithTimeout(ctx, cacheOpTimeout)
	defer cancel()

	b, err := c.rdb.Get(ctx, leaderboardKey(t)).Bytes()
	if err != nil {
		if err != redis.Nil {
			slog.Warn("leaderboard cache get failed", "streak_type", string(t), "error", err)
		}
		leaderboardCacheTotal.WithLabelValues("miss").Inc()
		return nil, false
	}

	var entries []LeaderboardEntry
	if err := json.Unmarshal(b, &entries); err != nil {
		leaderboardCacheTotal.WithLabelValues("miss").Inc()
		return nil, false
	}
	leaderboardCacheTotal.WithLabelValues("hit").Inc()
	return entries, true
}

func (c *LeaderboardCache) Set(ctx context.Context, t StreakType, entries []LeaderboardEntry) {
	if c == nil {
		return
	}
	b, err := json.Marshal(entries)
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, cacheOpTimeout)
	defer cancel()
	if err := c.rdb.Set(ctx, leaderboardKey(t), b, c.ttl).Err(); err != nil {
		slog.Warn("leaderboard cache set failed", "streak_type", string(t), "error", err)
	}
}

func (c *LeaderboardCache) Invalidate(ctx context.Context, t StreakType) {
	if c == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, cacheOpTimeout)
	defer cancel()
	if err := c.rdb.Del(ctx, leaderboardKey(t)).Err(); err != nil {
		slog.Warn("leaderboard cache invalidate failed", "streak_type", string(t), "error", err)
	}
}
