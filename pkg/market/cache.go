package market

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pji114/jusik/internal/model"
)

// CachedFetcher wraps a Fetcher with a short-lived Redis cache. A cache
// failure never fails the request; it falls through to the inner fetcher.
type CachedFetcher struct {
	inner Fetcher
	rdb   *redis.Client
	ttl   time.Duration
}

func NewCachedFetcher(inner Fetcher, rdb *redis.Client, ttl time.Duration) *CachedFetcher {
	return &CachedFetcher{inner: inner, rdb: rdb, ttl: ttl}
}

func (c *CachedFetcher) FetchMovers(ctx context.Context, direction model.Direction, count int) ([]model.StockRecord, error) {
	key := fmt.Sprintf("jusik:movers:%s:%d", direction, count)

	cached, err := c.rdb.Get(ctx, key).Result()
	if err == nil {
		var records []model.StockRecord
		if err := json.Unmarshal([]byte(cached), &records); err == nil {
			return records, nil
		}
		slog.Warn("discarding unreadable movers cache entry", "key", key)
	} else if err != redis.Nil {
		slog.Warn("movers cache read failed", "key", key, "error", err)
	}

	records, err := c.inner.FetchMovers(ctx, direction, count)
	if err != nil {
		return nil, err
	}

	if encoded, err := json.Marshal(records); err == nil {
		if err := c.rdb.Set(ctx, key, encoded, c.ttl).Err(); err != nil {
			slog.Warn("movers cache write failed", "key", key, "error", err)
		}
	}

	return records, nil
}
