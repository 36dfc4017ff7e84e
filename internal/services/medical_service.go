package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/himesh-bhushan/catchup-backend/internal/models"
)

// MedicalNotifier receives the formatted summary whenever it should appear on
// a paired lock screen.
type MedicalNotifier interface {
	PushMedicalSummary(userID int64, summary string)
}

// MedicalID is the emergency view of a profile. Age is derived for display
// only; the date of birth stays the stored value.
type MedicalID struct {
	FullName       string   `json:"full_name"`
	Age            *int     `json:"age"`
	BloodType      *string  `json:"blood_type"`
	Conditions     []string `json:"conditions"`
	Medications    *string  `json:"medications"`
	Allergies      *string  `json:"allergies"`
	EmergencyName  *string  `json:"emergency_name"`
	EmergencyPhone *string  `json:"emergency_phone"`
	ShowOnLock     bool     `json:"show_on_lock"`
}

// MedicalService serves the medical ID screen and owns the lock screen
// visibility flag. The flag is process state, not a profile column: it
// resets on restart the same way the paired device pairing does.
type MedicalService struct {
	profileRepo profileReader
	notifier    MedicalNotifier
	logger      *zap.Logger

	mu          sync.RWMutex
	lockVisible map[int64]bool
}

func NewMedicalService(profileRepo profileReader, notifier MedicalNotifier, logger *zap.Logger) *MedicalService {
	return &MedicalService{
		profileRepo: profileRepo,
		notifier:    notifier,
		logger:      logger,
		lockVisible: make(map[int64]bool),
	}
}

// AgeFromDOB returns whole years elapsed at now, never rounding up.
func AgeFromDOB(dob, now time.Time) int {
	years := now.Year() - dob.Year()
	anniversary := dob.AddDate(years, 0, 0)
	if anniversary.After(now) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}

// FormatMedicalSummary renders the lock screen text. Empty fields are left
// out entirely rather than printed as blanks.
func FormatMedicalSummary(p *models.Profile, now time.Time) string {
	var lines []string
	if name := p.FullName(); name != "" {
		lines = append(lines, "Name: "+name)
	}
	if p.DOB != nil {
		lines = append(lines, fmt.Sprintf("Age: %d", AgeFromDOB(*p.DOB, now)))
	}
	if p.BloodType != nil && *p.BloodType != "" {
		lines = append(lines, "Blood Type: "+*p.BloodType)
	}
	if p.Conditions != nil && len(*p.Conditions) > 0 {
		lines = append(lines, "Conditions: "+strings.Join(*p.Conditions, ", "))
	}
	if p.Medications != nil && *p.Medications != "" {
		lines = append(lines, "Medications: "+*p.Medications)
	}
	if p.Allergies != nil && *p.Allergies != "" {
		lines = append(lines, "Allergies: "+*p.Allergies)
	}
	if p.EmergencyName != nil && *p.EmergencyName != "" {
		contact := "Emergency Contact: " + *p.EmergencyName
		if p.EmergencyPhone != nil && *p.EmergencyPhone != "" {
			contact += " (" + *p.EmergencyPhone + ")"
		}
		lines = append(lines, contact)
	}
	return strings.Join(lines, "\n")
}

func (s *MedicalService) Get(ctx context.Context, userID int64) (*MedicalID, error) {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	id := &MedicalID{
		FullName:       profile.FullName(),
		BloodType:      profile.BloodType,
		Medications:    profile.Medications,
		Allergies:      profile.Allergies,
		EmergencyName:  profile.EmergencyName,
		EmergencyPhone: profile.EmergencyPhone,
		ShowOnLock:     s.LockVisible(userID),
	}
	if profile.Conditions != nil {
		id.Conditions = *profile.Conditions
	}
	if profile.DOB != nil {
		age := AgeFromDOB(*profile.DOB, time.Now().UTC())
		id.Age = &age
	}
	return id, nil
}

func (s *MedicalService) LockVisible(userID int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lockVisible[userID]
}

// SetLockVisibility flips the flag. Turning it on pushes the current summary
// immediately so the lock screen never shows the flag without content.
func (s *MedicalService) SetLockVisibility(ctx context.Context, userID int64, visible bool) error {
	s.mu.Lock()
	s.lockVisible[userID] = visible
	s.mu.Unlock()

	if !visible {
		return nil
	}
	return s.pushSummary(ctx, userID)
}

// RefreshLockScreen re-pushes the summary after a medical save, but only for
// users who have the flag on.
func (s *MedicalService) RefreshLockScreen(ctx context.Context, userID int64) {
	if !s.LockVisible(userID) {
		return
	}
	if err := s.pushSummary(ctx, userID); err != nil {
		s.logger.Warn("lock screen refresh failed", zap.Int64("user_id", userID), zap.Error(err))
	}
}

func (s *MedicalService) pushSummary(ctx context.Context, userID int64) error {
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if s.notifier != nil {
		s.notifier.PushMedicalSummary(userID, FormatMedicalSummary(profile, time.Now().UTC()))
	}
	return nil
}
