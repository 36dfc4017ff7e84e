// Package cache holds the advisory snapshot cache. Snapshots exist so the
// client can paint a screen before the database answers; the database row is
// always the source of truth and every successful fresh read overwrites the
// snapshot. Cache failures are logged and swallowed; a cold cache is a
// slower paint, never an error.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const snapshotTTL = 24 * time.Hour

// Screen names used as snapshot keys.
const (
	ScreenDashboard = "dashboard"
	ScreenProfile   = "profile"
	ScreenMedicalID = "medical_id"
	ScreenGoals     = "goals"
)

type SnapshotCache struct {
	rdb    *redis.Client
	logger *zap.Logger
}

func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

func NewSnapshotCache(rdb *redis.Client, logger *zap.Logger) *SnapshotCache {
	return &SnapshotCache{rdb: rdb, logger: logger}
}

func snapshotKey(screen string, userID int64) string {
	return fmt.Sprintf("snapshot:%s:%d", screen, userID)
}

// Read fills dest from the cached snapshot. Returns false when there is no
// usable snapshot.
func (c *SnapshotCache) Read(ctx context.Context, screen string, userID int64, dest any) bool {
	payload, err := c.rdb.Get(ctx, snapshotKey(screen, userID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("snapshot read failed",
				zap.String("screen", screen),
				zap.Int64("user_id", userID),
				zap.Error(err),
			)
		}
		return false
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		c.logger.Warn("snapshot decode failed",
			zap.String("screen", screen),
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		return false
	}
	return true
}

// Write overwrites the snapshot. Last write wins; there is no versioning.
func (c *SnapshotCache) Write(ctx context.Context, screen string, userID int64, value any) {
	payload, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("snapshot encode failed",
			zap.String("screen", screen),
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		return
	}
	if err := c.rdb.Set(ctx, snapshotKey(screen, userID), payload, snapshotTTL).Err(); err != nil {
		c.logger.Warn("snapshot write failed",
			zap.String("screen", screen),
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
	}
}

func (c *SnapshotCache) Invalidate(ctx context.Context, userID int64, screens ...string) {
	keys := make([]string, 0, len(screens))
	for _, screen := range screens {
		keys = append(keys, snapshotKey(screen, userID))
	}
	if len(keys) == 0 {
		return
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("snapshot invalidate failed", zap.Int64("user_id", userID), zap.Error(err))
	}
}
