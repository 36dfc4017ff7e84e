package services

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/himesh-bhushan/catchup-backend/internal/cache"
	"github.com/himesh-bhushan/catchup-backend/internal/models"
	"github.com/himesh-bhushan/catchup-backend/internal/repository"
)

// Default targets for a freshly created day.
const (
	DefaultStepsTarget    = 10000
	DefaultSleepTarget    = 8.0
	DefaultExerciseTarget = 60
	DefaultWaterTarget    = 3.0
)

type dailyGoalsStore interface {
	GetByDate(ctx context.Context, userID int64, date time.Time) (*models.DailyGoals, error)
	InsertDefaults(ctx context.Context, userID int64, date time.Time, goals *models.DailyGoals) (*models.DailyGoals, error)
	Update(ctx context.Context, userID int64, date time.Time, req repository.UpdateDailyGoalsInput) (*models.DailyGoals, error)
}

type GoalsService struct {
	goalsRepo dailyGoalsStore
	snapshots *cache.SnapshotCache
}

func NewGoalsService(goalsRepo dailyGoalsStore, snapshots *cache.SnapshotCache) *GoalsService {
	return &GoalsService{goalsRepo: goalsRepo, snapshots: snapshots}
}

// GetOrCreate returns the day's goals, creating the row with default targets
// on first access. Reading a day is what brings it into existence.
func (s *GoalsService) GetOrCreate(ctx context.Context, userID int64, date time.Time) (*models.DailyGoals, error) {
	date = date.UTC().Truncate(24 * time.Hour)

	goals, err := s.goalsRepo.GetByDate(ctx, userID, date)
	if err == nil {
		return goals, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	return s.goalsRepo.InsertDefaults(ctx, userID, date, &models.DailyGoals{
		StepsTarget:    DefaultStepsTarget,
		SleepTarget:    DefaultSleepTarget,
		ExerciseTarget: DefaultExerciseTarget,
		WaterTarget:    DefaultWaterTarget,
	})
}

func (s *GoalsService) Update(ctx context.Context, userID int64, date time.Time, req repository.UpdateDailyGoalsInput) (*models.DailyGoals, error) {
	date = date.UTC().Truncate(24 * time.Hour)

	// Make sure the row exists so a partial update of a brand new day works.
	if _, err := s.GetOrCreate(ctx, userID, date); err != nil {
		return nil, err
	}

	goals, err := s.goalsRepo.Update(ctx, userID, date, req)
	if err != nil {
		return nil, err
	}
	if s.snapshots != nil {
		s.snapshots.Invalidate(ctx, userID, cache.ScreenGoals, cache.ScreenDashboard)
	}
	return goals, nil
}
