package models

import "time"

// Profile is the single identity + health-summary record per user. Every
// editor screen (personal details, medical ID, dashboard header) is a view
// over a subset of these columns.
type Profile struct {
	ID              int64      `json:"id"`
	UserID          int64      `json:"user_id"`
	FirstName       *string    `json:"first_name"`
	LastName        *string    `json:"last_name"`
	DOB             *time.Time `json:"dob"`
	Gender          *string    `json:"gender"`
	Phone           *string    `json:"phone"`
	HeightCM        *float64   `json:"height_cm"`
	WeightKG        *float64   `json:"weight_kg"`
	BloodType       *string    `json:"blood_type"`
	Conditions      *[]string  `json:"conditions"`
	Medications     *string    `json:"medications"`
	Allergies       *string    `json:"allergies"`
	EmergencyName   *string    `json:"emergency_name"`
	EmergencyPhone  *string    `json:"emergency_phone"`
	AvatarRef       *string    `json:"avatar_ref"`
	CalorieGoal     int        `json:"calorie_goal"`
	DeviceConnected bool       `json:"device_connected"`
	LastSyncedAt    *time.Time `json:"last_synced_at"`

	OnboardingComplete bool      `json:"onboarding_complete"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func (p *Profile) FullName() string {
	first, last := "", ""
	if p.FirstName != nil {
		first = *p.FirstName
	}
	if p.LastName != nil {
		last = *p.LastName
	}
	switch {
	case first != "" && last != "":
		return first + " " + last
	case first != "":
		return first
	default:
		return last
	}
}
