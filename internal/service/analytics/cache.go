// internal/service/analytics/cache.go
package analytics

import (
	"context"
	"encoding/json"
	"time"

	"promo-service/internal/domain/analytics"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const snapshotKey = "analytics:snapshot"

// SnapshotCache keeps the latest snapshot in Redis for a short TTL so the
// dashboard can poll without recomputing the blend on every request.
type SnapshotCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewSnapshotCache(rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *SnapshotCache {
	return &SnapshotCache{rdb: rdb, ttl: ttl, logger: logger}
}

func (c *SnapshotCache) Get(ctx context.Context) (*analytics.MetricsSnapshot, bool) {
	raw, err := c.rdb.Get(ctx, snapshotKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("snapshot cache read failed", zap.Error(err))
		}
		return nil, false
	}

	var snap analytics.MetricsSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		c.logger.Warn("snapshot cache entry corrupt, ignoring", zap.Error(err))
		return nil, false
	}
	return &snap, true
}

func (c *SnapshotCache) Set(ctx context.Context, snap *analytics.MetricsSnapshot) {
	raw, err := json.Marshal(snap)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, snapshotKey, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("snapshot cache write failed", zap.Error(err))
	}
}
