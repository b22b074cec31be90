package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Abdurahmanit/GroupProject/umkm-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/umkm-service/internal/umkm/domain"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	statsKey      = "umkm:stats"
	topKeyPrefix  = "umkm:top:"
	topKeyPattern = topKeyPrefix + "*"
)

// StatsCache keeps the admin statistics and the most viewed listings
// in Redis. A miss is reported as (nil, nil).
type StatsCache struct {
	client   *redis.Client
	statsTTL time.Duration
	topTTL   time.Duration
	logger   *logger.Logger
}

func NewStatsCache(ctx context.Context, addr string, statsTTL, topTTL time.Duration, log *logger.Logger) (*StatsCache, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return NewStatsCacheWithClient(client, statsTTL, topTTL, log), nil
}

func NewStatsCacheWithClient(client *redis.Client, statsTTL, topTTL time.Duration, log *logger.Logger) *StatsCache {
	return &StatsCache{client: client, statsTTL: statsTTL, topTTL: topTTL, logger: log.Named("stats_cache")}
}

func (c *StatsCache) GetStatistics(ctx context.Context) (*domain.Statistics, error) {
	var st domain.Statistics
	ok, err := c.get(ctx, statsKey, &st)
	if err != nil || !ok {
		return nil, err
	}
	return &st, nil
}

func (c *StatsCache) SetStatistics(ctx context.Context, st *domain.Statistics) error {
	return c.set(ctx, statsKey, st, c.statsTTL)
}

func (c *StatsCache) GetTop(ctx context.Context, limit int64) ([]*domain.Listing, error) {
	var listings []*domain.Listing
	ok, err := c.get(ctx, topKey(limit), &listings)
	if err != nil || !ok {
		return nil, err
	}
	return listings, nil
}

func (c *StatsCache) SetTop(ctx context.Context, limit int64, listings []*domain.Listing) error {
	return c.set(ctx, topKey(limit), listings, c.topTTL)
}

// Invalidate drops the statistics and every cached top list.
func (c *StatsCache) Invalidate(ctx context.Context) error {
	keys := []string{statsKey}
	iter := c.client.Scan(ctx, 0, topKeyPattern, 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan top keys: %w", err)
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("cache invalidation failed", zap.Error(err))
		return err
	}
	return nil
}

func (c *StatsCache) Close() error {
	return c.client.Close()
}

func (c *StatsCache) get(ctx context.Context, key string, dst interface{}) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		c.logger.Warn("dropping undecodable cache entry", zap.String("key", key), zap.Error(err))
		_ = c.client.Del(ctx, key).Err()
		return false, nil
	}
	return true, nil
}

func (c *StatsCache) set(ctx context.Context, key string, v interface{}, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, ttl).Err()
}

func topKey(limit int64) string {
	return fmt.Sprintf("%s%d", topKeyPrefix, limit)
}
