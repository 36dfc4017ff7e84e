package repository

import (
	"context"
	"time"

	"github.com/himesh-bhushan/catchup-backend/internal/models"
)

type SharingRepository struct {
	db DBTX
}

func NewSharingRepository(db DBTX) *SharingRepository {
	return &SharingRepository{db: db}
}

// TopBySteps aggregates step counts over [from, to] across all users and
// returns the top rows, highest first. Handle falls back to the account email
// when the profile has no name yet.
func (r *SharingRepository) TopBySteps(ctx context.Context, from, to time.Time, limit int) ([]models.LeaderboardEntry, error) {
	query := `
		SELECT a.user_id,
			   COALESCE(NULLIF(TRIM(CONCAT(p.first_name, ' ', p.last_name)), ''), u.email) AS handle,
			   SUM(a.steps) AS score
		FROM activity_logs a
		JOIN users u ON u.id = a.user_id
		LEFT JOIN profiles p ON p.user_id = a.user_id
		WHERE a.date BETWEEN $1 AND $2
		GROUP BY a.user_id, handle
		ORDER BY score DESC, a.user_id ASC
		LIMIT $3
	`
	rows, err := r.db.Query(ctx, query, from, to, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]models.LeaderboardEntry, 0)
	for rows.Next() {
		var e models.LeaderboardEntry
		if err := rows.Scan(&e.UserID, &e.Handle, &e.Score); err != nil {
			return nil, err
		}
		e.Rank = len(entries) + 1
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *SharingRepository) CreateInvite(ctx context.Context, invite *models.Invite) error {
	query := `
		INSERT INTO invites (user_id, email)
		VALUES ($1, $2)
		RETURNING id, created_at
	`
	return r.db.QueryRow(ctx, query, invite.UserID, invite.Email).
		Scan(&invite.ID, &invite.CreatedAt)
}
