package repository

import (
	"context"
	"time"

	"github.com/himesh-bhushan/catchup-backend/internal/models"
)

const profileColumns = `id, user_id, first_name, last_name, dob, gender, phone,
		   height_cm, weight_kg, blood_type, conditions, medications, allergies,
		   emergency_name, emergency_phone, avatar_ref, calorie_goal,
		   device_connected, last_synced_at, onboarding_complete, created_at, updated_at`

type ProfileRepository struct {
	db DBTX
}

func NewProfileRepository(db DBTX) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func scanProfile(row interface{ Scan(dest ...any) error }) (*models.Profile, error) {
	var p models.Profile
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.FirstName,
		&p.LastName,
		&p.DOB,
		&p.Gender,
		&p.Phone,
		&p.HeightCM,
		&p.WeightKG,
		&p.BloodType,
		&p.Conditions,
		&p.Medications,
		&p.Allergies,
		&p.EmergencyName,
		&p.EmergencyPhone,
		&p.AvatarRef,
		&p.CalorieGoal,
		&p.DeviceConnected,
		&p.LastSyncedAt,
		&p.OnboardingComplete,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProfileRepository) CreateEmpty(ctx context.Context, userID int64) error {
	query := `INSERT INTO profiles (user_id) VALUES ($1)`
	_, err := r.db.Exec(ctx, query, userID)
	return err
}

func (r *ProfileRepository) GetByUserID(ctx context.Context, userID int64) (*models.Profile, error) {
	query := `
		SELECT ` + profileColumns + `
		FROM profiles
		WHERE user_id = $1
	`
	return scanProfile(r.db.QueryRow(ctx, query, userID))
}

func (r *ProfileRepository) UpdatePartial(ctx context.Context, userID int64, req UpdateProfileInput) (*models.Profile, error) {
	query := `
		UPDATE profiles
		SET first_name = COALESCE($1, first_name),
			last_name = COALESCE($2, last_name),
			dob = COALESCE($3, dob),
			gender = COALESCE($4, gender),
			phone = COALESCE($5, phone),
			height_cm = COALESCE($6, height_cm),
			weight_kg = COALESCE($7, weight_kg),
			blood_type = COALESCE($8, blood_type),
			conditions = COALESCE($9, conditions),
			medications = COALESCE($10, medications),
			allergies = COALESCE($11, allergies),
			emergency_name = COALESCE($12, emergency_name),
			emergency_phone = COALESCE($13, emergency_phone),
			avatar_ref = COALESCE($14, avatar_ref),
			updated_at = NOW()
		WHERE user_id = $15
		RETURNING ` + profileColumns + `
	`
	return scanProfile(r.db.QueryRow(ctx, query,
		req.FirstName,
		req.LastName,
		req.DOB,
		req.Gender,
		req.Phone,
		req.HeightCM,
		req.WeightKG,
		req.BloodType,
		req.Conditions,
		req.Medications,
		req.Allergies,
		req.EmergencyName,
		req.EmergencyPhone,
		req.AvatarRef,
		userID,
	))
}

func (r *ProfileRepository) CompleteOnboarding(ctx context.Context, userID int64) error {
	query := `
		UPDATE profiles
		SET onboarding_complete = TRUE, updated_at = NOW()
		WHERE user_id = $1
	`
	_, err := r.db.Exec(ctx, query, userID)
	return err
}

func (r *ProfileRepository) SetCalorieGoal(ctx context.Context, userID int64, goal int) error {
	query := `
		UPDATE profiles
		SET calorie_goal = $1, updated_at = NOW()
		WHERE user_id = $2
	`
	_, err := r.db.Exec(ctx, query, goal, userID)
	return err
}

func (r *ProfileRepository) SetDeviceConnected(ctx context.Context, userID int64, connected bool) error {
	query := `
		UPDATE profiles
		SET device_connected = $1, updated_at = NOW()
		WHERE user_id = $2
	`
	_, err := r.db.Exec(ctx, query, connected, userID)
	return err
}

func (r *ProfileRepository) TouchLastSynced(ctx context.Context, userID int64, at time.Time) error {
	query := `
		UPDATE profiles
		SET last_synced_at = $1, updated_at = NOW()
		WHERE user_id = $2
	`
	_, err := r.db.Exec(ctx, query, at, userID)
	return err
}

type UpdateProfileInput struct {
	FirstName      *string
	LastName       *string
	DOB            *time.Time
	Gender         *string
	Phone          *string
	HeightCM       *float64
	WeightKG       *float64
	BloodType      *string
	Conditions     *[]string
	Medications    *string
	Allergies      *string
	EmergencyName  *string
	EmergencyPhone *string
	AvatarRef      *string
}
