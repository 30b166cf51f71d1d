package util

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Deduper struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewDeduper(rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *Deduper {
	return &Deduper{
		rdb:    rdb,
		ttl:    ttl,
		logger: logger,
	}
}

// AcquireOnce claims key for the dedup window.
// returns true the first time the key is seen, false for a duplicate.
// A Redis failure never blocks processing.
func (d *Deduper) AcquireOnce(ctx context.Context, key string) bool {
	key = "dedup:" + key

	ok, err := d.rdb.SetNX(ctx, key, 1, d.ttl).Result()
	if err != nil {
		d.logger.Warn("Redis dedup check failed, allowing processing",
			zap.String("dedup_key", key),
			zap.Error(err),
		)
		return true
	}

	if !ok {
		d.logger.Info("Skipped duplicated event", zap.String("dedup_key", key))
	}
	return ok
}

// Release forgets key so a failed attempt can be redelivered.
func (d *Deduper) Release(ctx context.Context, key string) {
	if err := d.rdb.Del(ctx, "dedup:"+key).Err(); err != nil {
		d.logger.Warn("Redis dedup release failed", zap.String("dedup_key", key), zap.Error(err))
	}
}
