package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/himesh-bhushan/catchup-backend/internal/models"
)

type stubProfileReader struct {
	profile *models.Profile
}

func (s *stubProfileReader) GetByUserID(_ context.Context, _ int64) (*models.Profile, error) {
	return s.profile, nil
}

type recordingNotifier struct {
	userIDs   []int64
	summaries []string
}

func (n *recordingNotifier) PushMedicalSummary(userID int64, summary string) {
	n.userIDs = append(n.userIDs, userID)
	n.summaries = append(n.summaries, summary)
}

func strPtr(s string) *string { return &s }

func TestAgeFromDOB(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		dob  time.Time
		want int
	}{
		{"birthday already passed", time.Date(1990, 4, 12, 0, 0, 0, 0, time.UTC), 36},
		{"birthday later this year", time.Date(1990, 11, 2, 0, 0, 0, 0, time.UTC), 35},
		{"birthday today", time.Date(1990, 8, 30, 0, 0, 0, 0, time.UTC), 36},
		{"born this year", time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), 0},
		{"future dob clamps to zero", time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AgeFromDOB(tt.dob, now))
		})
	}
}

func TestFormatMedicalSummary(t *testing.T) {
	now := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	dob := time.Date(1990, 4, 12, 0, 0, 0, 0, time.UTC)
	conditions := []string{"Migraine", "Asthma"}

	profile := &models.Profile{
		FirstName:      strPtr("Ada"),
		LastName:       strPtr("Ng"),
		DOB:            &dob,
		BloodType:      strPtr("O+"),
		Conditions:     &conditions,
		Allergies:      strPtr("Peanuts"),
		EmergencyName:  strPtr("Sam Ng"),
		EmergencyPhone: strPtr("+15551234"),
	}

	summary := FormatMedicalSummary(profile, now)
	assert.Equal(t,
		"Name: Ada Ng\nAge: 36\nBlood Type: O+\nConditions: Migraine, Asthma\nAllergies: Peanuts\nEmergency Contact: Sam Ng (+15551234)",
		summary)

	// Medications was empty and must not appear as a blank line.
	assert.NotContains(t, summary, "Medications")
}

func TestSetLockVisibilityPushesSummary(t *testing.T) {
	notifier := &recordingNotifier{}
	reader := &stubProfileReader{profile: &models.Profile{FirstName: strPtr("Ada")}}
	svc := NewMedicalService(reader, notifier, zap.NewNop())

	require.NoError(t, svc.SetLockVisibility(context.Background(), 3, true))
	require.Len(t, notifier.summaries, 1)
	assert.Contains(t, notifier.summaries[0], "Name: Ada")
	assert.True(t, svc.LockVisible(3))

	// Turning the flag off pushes nothing.
	require.NoError(t, svc.SetLockVisibility(context.Background(), 3, false))
	assert.Len(t, notifier.summaries, 1)
	assert.False(t, svc.LockVisible(3))
}

func TestRefreshLockScreenOnlyWhenVisible(t *testing.T) {
	notifier := &recordingNotifier{}
	reader := &stubProfileReader{profile: &models.Profile{FirstName: strPtr("Ada")}}
	svc := NewMedicalService(reader, notifier, zap.NewNop())

	svc.RefreshLockScreen(context.Background(), 3)
	assert.Empty(t, notifier.summaries)

	require.NoError(t, svc.SetLockVisibility(context.Background(), 3, true))
	svc.RefreshLockScreen(context.Background(), 3)
	assert.Len(t, notifier.summaries, 2)
}
