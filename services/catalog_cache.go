package services

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"

	"sportsevents/models"
)

const catalogCacheKey = "sports:catalog:games"

// CatalogCache holds the ordered game list served by GET /games. Failures are
// logged and treated as misses; the store stays the source of truth.
//
// GameService never refills the cache with a list read before one of its own
// writes. With several processes sharing one redis cache, a list read by one
// process before another process's write can still be stored after that
// write's invalidation, so readers may see it for up to the cache TTL. The
// registration ledger always reads the store and is not affected.
type CatalogCache interface {
	GetGames(ctx context.Context) ([]models.Game, bool)
	SetGames(ctx context.Context, games []models.Game)
	Invalidate(ctx context.Context)
}

// RedisCatalogCache stores the catalog as JSON under a single key.
type RedisCatalogCache struct {
	redis  *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewRedisCatalogCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *RedisCatalogCache {
	return &RedisCatalogCache{redis: client, ttl: ttl, logger: logger}
}

func (c *RedisCatalogCache) GetGames(ctx context.Context) ([]models.Game, bool) {
	data, err := c.redis.Get(ctx, catalogCacheKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("catalog cache read failed", slog.String("error", err.Error()))
		}
		return nil, false
	}

	var games []models.Game
	if err := json.Unmarshal(data, &games); err != nil {
		c.logger.Warn("catalog cache entry unreadable", slog.String("error", err.Error()))
		return nil, false
	}
	return games, true
}

func (c *RedisCatalogCache) SetGames(ctx context.Context, games []models.Game) {
	data, err := json.Marshal(games)
	if err != nil {
		c.logger.Warn("catalog cache encode failed", slog.String("error", err.Error()))
		return
	}
	if err := c.redis.Set(ctx, catalogCacheKey, data, c.ttl).Err(); err != nil {
		c.logger.Warn("catalog cache write failed", slog.String("error", err.Error()))
	}
}

func (c *RedisCatalogCache) Invalidate(ctx context.Context) {
	if err := c.redis.Del(ctx, catalogCacheKey).Err(); err != nil {
		c.logger.Warn("catalog cache invalidate failed", slog.String("error", err.Error()))
	}
}

// MemoryCatalogCache keeps the catalog in process memory.
type MemoryCatalogCache struct {
	cache *gocache.Cache
}

func NewMemoryCatalogCache(ttl time.Duration) *MemoryCatalogCache {
	return &MemoryCatalogCache{cache: gocache.New(ttl, 2*ttl)}
}

func (c *MemoryCatalogCache) GetGames(_ context.Context) ([]models.Game, bool) {
	value, found := c.cache.Get(catalogCacheKey)
	if !found {
		return nil, false
	}
	games, ok := value.([]models.Game)
	if !ok {
		return nil, false
	}
	// hand out a copy so callers cannot mutate the cached slice
	return copyGames(games), true
}

func (c *MemoryCatalogCache) SetGames(_ context.Context, games []models.Game) {
	c.cache.SetDefault(catalogCacheKey, copyGames(games))
}

func (c *MemoryCatalogCache) Invalidate(_ context.Context) {
	c.cache.Delete(catalogCacheKey)
}

func copyGames(games []models.Game) []models.Game {
	out := make([]models.Game, len(games))
	copy(out, games)
	return out
}
