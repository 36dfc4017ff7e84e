package models

import "time"

// One row per (user, calendar date). A missing row for a date is valid and
// means "no data"; presenters render zeros, the store never synthesizes rows.
type ActivityLog struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user_id"`
	Date       time.Time `json:"date"`
	Calories   int       `json:"calories"`
	Steps      int       `json:"steps"`
	DistanceKM float64   `json:"distance"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type HeartRateLog struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Date      time.Time `json:"date"`
	BPM       int       `json:"bpm"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DailyGoals holds four independent current/target pairs for one calendar
// date. Current values are only meaningful within their own date; nothing
// rolls over.
type DailyGoals struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"user_id"`
	Date            time.Time `json:"date"`
	StepsCurrent    int       `json:"steps_current"`
	StepsTarget     int       `json:"steps_target"`
	SleepCurrent    float64   `json:"sleep_current"`
	SleepTarget     float64   `json:"sleep_target"`
	ExerciseCurrent int       `json:"exercise_current"`
	ExerciseTarget  int       `json:"exercise_target"`
	WaterCurrent    float64   `json:"water_current"`
	WaterTarget     float64   `json:"water_target"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
