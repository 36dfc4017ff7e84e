package repository

import (
	"context"
	"time"

	"github.com/himesh-bhushan/catchup-backend/internal/models"
)

type ActivityLogRepository struct {
	db DBTX
}

func NewActivityLogRepository(db DBTX) *ActivityLogRepository {
	return &ActivityLogRepository{db: db}
}

// ListRange returns logs for [from, to] inclusive, oldest first. Dates with
// no row are simply absent from the result.
func (r *ActivityLogRepository) ListRange(ctx context.Context, userID int64, from, to time.Time) ([]models.ActivityLog, error) {
	query := `
		SELECT id, user_id, date, calories, steps, distance_km, created_at, updated_at
		FROM activity_logs
		WHERE user_id = $1 AND date BETWEEN $2 AND $3
		ORDER BY date ASC
	`
	rows, err := r.db.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := make([]models.ActivityLog, 0)
	for rows.Next() {
		var l models.ActivityLog
		if err := rows.Scan(
			&l.ID,
			&l.UserID,
			&l.Date,
			&l.Calories,
			&l.Steps,
			&l.DistanceKM,
			&l.CreatedAt,
			&l.UpdatedAt,
		); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *ActivityLogRepository) GetByDate(ctx context.Context, userID int64, date time.Time) (*models.ActivityLog, error) {
	query := `
		SELECT id, user_id, date, calories, steps, distance_km, created_at, updated_at
		FROM activity_logs
		WHERE user_id = $1 AND date = $2
	`
	var l models.ActivityLog
	err := r.db.QueryRow(ctx, query, userID, date).Scan(
		&l.ID,
		&l.UserID,
		&l.Date,
		&l.Calories,
		&l.Steps,
		&l.DistanceKM,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// Upsert overwrites the row for (user, date). Last write wins.
func (r *ActivityLogRepository) Upsert(ctx context.Context, log *models.ActivityLog) error {
	query := `
		INSERT INTO activity_logs (user_id, date, calories, steps, distance_km)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, date)
		DO UPDATE SET calories = EXCLUDED.calories,
			steps = EXCLUDED.steps,
			distance_km = EXCLUDED.distance_km,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`
	return r.db.QueryRow(ctx, query,
		log.UserID, log.Date, log.Calories, log.Steps, log.DistanceKM,
	).Scan(&log.ID, &log.CreatedAt, &log.UpdatedAt)
}
