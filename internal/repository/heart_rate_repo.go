package repository

import (
	"context"
	"time"

	"github.com/himesh-bhushan/catchup-backend/internal/models"
)

type HeartRateRepository struct {
	db DBTX
}

func NewHeartRateRepository(db DBTX) *HeartRateRepository {
	return &HeartRateRepository{db: db}
}

func (r *HeartRateRepository) ListRange(ctx context.Context, userID int64, from, to time.Time) ([]models.HeartRateLog, error) {
	query := `
		SELECT id, user_id, date, bpm, created_at, updated_at
		FROM heart_rate_logs
		WHERE user_id = $1 AND date BETWEEN $2 AND $3
		ORDER BY date ASC
	`
	rows, err := r.db.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := make([]models.HeartRateLog, 0)
	for rows.Next() {
		var l models.HeartRateLog
		if err := rows.Scan(&l.ID, &l.UserID, &l.Date, &l.BPM, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *HeartRateRepository) GetLatest(ctx context.Context, userID int64) (*models.HeartRateLog, error) {
	query := `
		SELECT id, user_id, date, bpm, created_at, updated_at
		FROM heart_rate_logs
		WHERE user_id = $1
		ORDER BY date DESC
		LIMIT 1
	`
	var l models.HeartRateLog
	err := r.db.QueryRow(ctx, query, userID).
		Scan(&l.ID, &l.UserID, &l.Date, &l.BPM, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *HeartRateRepository) Upsert(ctx context.Context, log *models.HeartRateLog) error {
	query := `
		INSERT INTO heart_rate_logs (user_id, date, bpm)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, date)
		DO UPDATE SET bpm = EXCLUDED.bpm, updated_at = NOW()
		RETURNING id, created_at, updated_at
	`
	return r.db.QueryRow(ctx, query, log.UserID, log.Date, log.BPM).
		Scan(&log.ID, &log.CreatedAt, &log.UpdatedAt)
}
