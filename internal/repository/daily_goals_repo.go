package repository

import (
	"context"
	"time"

	"github.com/himesh-bhushan/catchup-backend/internal/models"
)

const dailyGoalsColumns = `id, user_id, date, steps_current, steps_target,
		   sleep_current, sleep_target, exercise_current, exercise_target,
		   water_current, water_target, created_at, updated_at`

type DailyGoalsRepository struct {
	db DBTX
}

func NewDailyGoalsRepository(db DBTX) *DailyGoalsRepository {
	return &DailyGoalsRepository{db: db}
}

func scanDailyGoals(row interface{ Scan(dest ...any) error }) (*models.DailyGoals, error) {
	var g models.DailyGoals
	err := row.Scan(
		&g.ID,
		&g.UserID,
		&g.Date,
		&g.StepsCurrent,
		&g.StepsTarget,
		&g.SleepCurrent,
		&g.SleepTarget,
		&g.ExerciseCurrent,
		&g.ExerciseTarget,
		&g.WaterCurrent,
		&g.WaterTarget,
		&g.CreatedAt,
		&g.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *DailyGoalsRepository) GetByDate(ctx context.Context, userID int64, date time.Time) (*models.DailyGoals, error) {
	query := `
		SELECT ` + dailyGoalsColumns + `
		FROM daily_goals
		WHERE user_id = $1 AND date = $2
	`
	return scanDailyGoals(r.db.QueryRow(ctx, query, userID, date))
}

// InsertDefaults creates the row for a date with zero progress and the given
// targets. ON CONFLICT keeps it race safe when two requests lazily create the
// same day; the existing row wins.
func (r *DailyGoalsRepository) InsertDefaults(ctx context.Context, userID int64, date time.Time, goals *models.DailyGoals) (*models.DailyGoals, error) {
	query := `
		INSERT INTO daily_goals (user_id, date, steps_target, sleep_target, exercise_target, water_target)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, date) DO UPDATE SET updated_at = daily_goals.updated_at
		RETURNING ` + dailyGoalsColumns + `
	`
	return scanDailyGoals(r.db.QueryRow(ctx, query,
		userID, date, goals.StepsTarget, goals.SleepTarget, goals.ExerciseTarget, goals.WaterTarget,
	))
}

func (r *DailyGoalsRepository) Update(ctx context.Context, userID int64, date time.Time, req UpdateDailyGoalsInput) (*models.DailyGoals, error) {
	query := `
		UPDATE daily_goals
		SET steps_current = COALESCE($1, steps_current),
			steps_target = COALESCE($2, steps_target),
			sleep_current = COALESCE($3, sleep_current),
			sleep_target = COALESCE($4, sleep_target),
			exercise_current = COALESCE($5, exercise_current),
			exercise_target = COALESCE($6, exercise_target),
			water_current = COALESCE($7, water_current),
			water_target = COALESCE($8, water_target),
			updated_at = NOW()
		WHERE user_id = $9 AND date = $10
		RETURNING ` + dailyGoalsColumns + `
	`
	return scanDailyGoals(r.db.QueryRow(ctx, query,
		req.StepsCurrent,
		req.StepsTarget,
		req.SleepCurrent,
		req.SleepTarget,
		req.ExerciseCurrent,
		req.ExerciseTarget,
		req.WaterCurrent,
		req.WaterTarget,
		userID,
		date,
	))
}

type UpdateDailyGoalsInput struct {
	StepsCurrent    *int
	StepsTarget     *int
	SleepCurrent    *float64
	SleepTarget     *float64
	ExerciseCurrent *int
	ExerciseTarget  *int
	WaterCurrent    *float64
	WaterTarget     *float64
}
