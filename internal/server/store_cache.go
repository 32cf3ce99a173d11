package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/closergame/countryquiz/internal/game"
)

const (
	leaderboardCacheKey = "leaderboard:top"
	leaderboardCacheTTL = 30 * time.Second
)

// CachedScoreStore wraps a score store with a redis cache for the top-N
// leaderboard read. Cache-aside: reads fill it, writes invalidate it.
// Cache failures fall through to the store; the game never depends on
// redis being up.
type CachedScoreStore struct {
	inner  *SQLiteStore
	rdb    *redis.Client
	logger *slog.Logger
}

func NewCachedScoreStore(inner *SQLiteStore, rdb *redis.Client, logger *slog.Logger) *CachedScoreStore {
	return &CachedScoreStore{inner: inner, rdb: rdb, logger: logger}
}

func (c *CachedScoreStore) Best(ctx context.Context, playerID string) (int, error) {
	return c.inner.Best(ctx, playerID)
}

func (c *CachedScoreStore) RaiseIfHigher(ctx context.Context, playerID string, score int) error {
	return c.inner.RaiseIfHigher(ctx, playerID, score)
}

func (c *CachedScoreStore) Nickname(ctx context.Context, playerID string) (string, error) {
	return c.inner.Nickname(ctx, playerID)
}

func (c *CachedScoreStore) UpsertIfNotLower(ctx context.Context, playerID, nickname string, score int) error {
	if err := c.inner.UpsertIfNotLower(ctx, playerID, nickname, score); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

func (c *CachedScoreStore) Top(ctx context.Context, n int) ([]game.Entry, error) {
	if data, err := c.rdb.Get(ctx, leaderboardCacheKey).Bytes(); err == nil {
		var entries []game.Entry
		if json.Unmarshal(data, &entries) == nil && len(entries) <= n {
			return entries, nil
		}
	}

	entries, err := c.inner.Top(ctx, n)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(entries); err == nil {
		if err := c.rdb.Set(ctx, leaderboardCacheKey, data, leaderboardCacheTTL).Err(); err != nil {
			c.logger.Warn("leaderboard cache write failed", "error", err)
		}
	}
	return entries, nil
}

func (c *CachedScoreStore) DeleteEntry(ctx context.Context, nickname string) error {
	if err := c.inner.DeleteEntry(ctx, nickname); err != nil {
		return err
	}
	c.invalidate(ctx)
	return nil
}

func (c *CachedScoreStore) invalidate(ctx context.Context) {
	if err := c.rdb.Del(ctx, leaderboardCacheKey).Err(); err != nil {
		c.logger.Warn("leaderboard cache invalidation failed", "error", err)
	}
}
