package services

import (
	"context"
	"time"

	"github.com/himesh-bhushan/catchup-backend/internal/cache"
	"github.com/himesh-bhushan/catchup-backend/internal/models"
)

type activityLogStore interface {
	ListRange(ctx context.Context, userID int64, from, to time.Time) ([]models.ActivityLog, error)
	Upsert(ctx context.Context, log *models.ActivityLog) error
}

type heartRateLogStore interface {
	ListRange(ctx context.Context, userID int64, from, to time.Time) ([]models.HeartRateLog, error)
	Upsert(ctx context.Context, log *models.HeartRateLog) error
}

// LogsService fronts the per-day log rows. Every write drops the dashboard
// snapshot so the next read rebuilds from the database instead of serving
// stale numbers until the TTL runs out.
type LogsService struct {
	activityRepo  activityLogStore
	heartRateRepo heartRateLogStore
	snapshots     *cache.SnapshotCache
}

func NewLogsService(activityRepo activityLogStore, heartRateRepo heartRateLogStore, snapshots *cache.SnapshotCache) *LogsService {
	return &LogsService{
		activityRepo:  activityRepo,
		heartRateRepo: heartRateRepo,
		snapshots:     snapshots,
	}
}

func (s *LogsService) ListActivity(ctx context.Context, userID int64, from, to time.Time) ([]models.ActivityLog, error) {
	return s.activityRepo.ListRange(ctx, userID, from, to)
}

func (s *LogsService) UpsertActivity(ctx context.Context, log *models.ActivityLog) error {
	if err := s.activityRepo.Upsert(ctx, log); err != nil {
		return err
	}
	if s.snapshots != nil {
		s.snapshots.Invalidate(ctx, log.UserID, cache.ScreenDashboard)
	}
	return nil
}

func (s *LogsService) ListHeartRate(ctx context.Context, userID int64, from, to time.Time) ([]models.HeartRateLog, error) {
	return s.heartRateRepo.ListRange(ctx, userID, from, to)
}

func (s *LogsService) UpsertHeartRate(ctx context.Context, log *models.HeartRateLog) error {
	if err := s.heartRateRepo.Upsert(ctx, log); err != nil {
		return err
	}
	if s.snapshots != nil {
		s.snapshots.Invalidate(ctx, log.UserID, cache.ScreenDashboard)
	}
	return nil
}
