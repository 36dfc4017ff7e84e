package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/himesh-bhushan/catchup-backend/internal/models"
	"github.com/himesh-bhushan/catchup-backend/internal/repository"
)

// OtherConditionOption is the catch-all entry the condition picker offers.
// It is a placeholder, never a stored value: on submit it is replaced by the
// free-text the user typed, or dropped when that text is blank.
const OtherConditionOption = "Others..."

// Wizard step names. Credentials are step one and are handled by
// registration; the draft covers the rest.
const (
	StepIdentity    = "identity"
	StepBiometrics  = "biometrics"
	StepConditions  = "conditions"
	StepMedications = "medications"
	StepEmergency   = "emergency"
)

type IdentityStep struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	DOB       string `json:"dob"`
	Gender    string `json:"gender"`
	Phone     string `json:"phone"`
}

type BiometricsStep struct {
	HeightCM  float64 `json:"height_cm"`
	WeightKG  float64 `json:"weight_kg"`
	BloodType string  `json:"blood_type"`
}

type ConditionsStep struct {
	Conditions []string `json:"conditions"`
	OtherText  string   `json:"other_text"`
}

type MedicationsStep struct {
	Medications string `json:"medications"`
	Allergies   string `json:"allergies"`
}

type EmergencyStep struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// OnboardingDraft accumulates wizard answers between requests. Nil groups are
// steps the user has not completed yet.
type OnboardingDraft struct {
	Identity    *IdentityStep    `json:"identity,omitempty"`
	Biometrics  *BiometricsStep  `json:"biometrics,omitempty"`
	Conditions  *ConditionsStep  `json:"conditions,omitempty"`
	Medications *MedicationsStep `json:"medications,omitempty"`
	Emergency   *EmergencyStep   `json:"emergency,omitempty"`
}

// NextStep names the first step still missing, or "" when the draft is
// ready to submit.
func (d *OnboardingDraft) NextStep() string {
	switch {
	case d.Identity == nil:
		return StepIdentity
	case d.Biometrics == nil:
		return StepBiometrics
	case d.Conditions == nil:
		return StepConditions
	case d.Medications == nil:
		return StepMedications
	case d.Emergency == nil:
		return StepEmergency
	}
	return ""
}

// SubmitResult reports how far submission got. ProfileSaved is false when the
// detail write failed; the account and the completed flag stand regardless.
type SubmitResult struct {
	ProfileSaved bool            `json:"profile_saved"`
	Profile      *models.Profile `json:"profile,omitempty"`
}

type draftStore interface {
	Get(ctx context.Context, userID int64, dest any) error
	Put(ctx context.Context, userID int64, draft any) error
	Delete(ctx context.Context, userID int64) error
}

type onboardingProfileRepo interface {
	UpdatePartial(ctx context.Context, userID int64, req repository.UpdateProfileInput) (*models.Profile, error)
	CompleteOnboarding(ctx context.Context, userID int64) error
}

type OnboardingService struct {
	drafts      draftStore
	profileRepo onboardingProfileRepo
	logger      *zap.Logger
}

func NewOnboardingService(drafts draftStore, profileRepo onboardingProfileRepo, logger *zap.Logger) *OnboardingService {
	return &OnboardingService{drafts: drafts, profileRepo: profileRepo, logger: logger}
}

func (s *OnboardingService) GetDraft(ctx context.Context, userID int64) (*OnboardingDraft, error) {
	var draft OnboardingDraft
	if err := s.drafts.Get(ctx, userID, &draft); err != nil {
		if errors.Is(err, redis.Nil) {
			return &OnboardingDraft{}, nil
		}
		return nil, err
	}
	return &draft, nil
}

// SaveStep validates one step and merges it into the draft. A failed gate
// returns ErrInvalidInput with a message the handler can surface.
func (s *OnboardingService) SaveStep(ctx context.Context, userID int64, step string, payload any) (*OnboardingDraft, string, error) {
	draft, err := s.GetDraft(ctx, userID)
	if err != nil {
		return nil, "", err
	}

	var msg string
	switch step {
	case StepIdentity:
		v, ok := payload.(*IdentityStep)
		if !ok {
			return nil, "", ErrInvalidInput
		}
		msg = validateIdentity(v)
		if msg == "" {
			draft.Identity = v
		}
	case StepBiometrics:
		v, ok := payload.(*BiometricsStep)
		if !ok {
			return nil, "", ErrInvalidInput
		}
		msg = validateBiometrics(v)
		if msg == "" {
			draft.Biometrics = v
		}
	case StepConditions:
		v, ok := payload.(*ConditionsStep)
		if !ok {
			return nil, "", ErrInvalidInput
		}
		draft.Conditions = v
	case StepMedications:
		v, ok := payload.(*MedicationsStep)
		if !ok {
			return nil, "", ErrInvalidInput
		}
		draft.Medications = v
	case StepEmergency:
		v, ok := payload.(*EmergencyStep)
		if !ok {
			return nil, "", ErrInvalidInput
		}
		msg = validateEmergency(v)
		if msg == "" {
			draft.Emergency = v
		}
	default:
		return nil, "unknown step", ErrInvalidInput
	}

	if msg != "" {
		return nil, msg, ErrInvalidInput
	}
	if err := s.drafts.Put(ctx, userID, draft); err != nil {
		return nil, "", err
	}
	return draft, "", nil
}

func validateIdentity(v *IdentityStep) string {
	if strings.TrimSpace(v.FirstName) == "" {
		return "first name is required"
	}
	if strings.TrimSpace(v.LastName) == "" {
		return "last name is required"
	}
	if strings.TrimSpace(v.Gender) == "" {
		return "gender is required"
	}
	if strings.TrimSpace(v.Phone) == "" {
		return "phone number is required"
	}
	if v.DOB == "" {
		return "date of birth is required"
	}
	dob, err := time.Parse("2006-01-02", v.DOB)
	if err != nil {
		return "date of birth must be YYYY-MM-DD"
	}
	if dob.After(time.Now()) {
		return "date of birth cannot be in the future"
	}
	return ""
}

func validateBiometrics(v *BiometricsStep) string {
	if v.HeightCM <= 0 {
		return "height must be positive"
	}
	if v.WeightKG <= 0 {
		return "weight must be positive"
	}
	if strings.TrimSpace(v.BloodType) == "" {
		return "blood type is required"
	}
	return ""
}

func validateEmergency(v *EmergencyStep) string {
	if strings.TrimSpace(v.Name) == "" {
		return "emergency contact name is required"
	}
	if strings.TrimSpace(v.Phone) == "" {
		return "emergency contact phone is required"
	}
	return ""
}

// ResolveConditions rewrites the picker output into stored values: the
// catch-all entry becomes the trimmed free-text, or disappears when the text
// is blank. Duplicates introduced by the rewrite are collapsed.
func ResolveConditions(selected []string, otherText string) []string {
	resolved := make([]string, 0, len(selected))
	seen := make(map[string]struct{}, len(selected))
	for _, c := range selected {
		if c == OtherConditionOption {
			c = strings.TrimSpace(otherText)
			if c == "" {
				continue
			}
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		resolved = append(resolved, c)
	}
	return resolved
}

// Submit finalizes the wizard. The completed flag is written even when the
// detail write fails: the account outlives its first profile save, and the
// client is told via ProfileSaved so it can prompt a retry from settings.
func (s *OnboardingService) Submit(ctx context.Context, userID int64) (*SubmitResult, error) {
	draft, err := s.GetDraft(ctx, userID)
	if err != nil {
		return nil, err
	}
	if draft.Identity == nil || draft.Biometrics == nil || draft.Conditions == nil ||
		draft.Medications == nil || draft.Emergency == nil {
		return nil, ErrStepIncomplete
	}

	input := draftToInput(draft)

	result := &SubmitResult{ProfileSaved: true}
	profile, err := s.profileRepo.UpdatePartial(ctx, userID, input)
	if err != nil {
		s.logger.Error("onboarding detail write failed",
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		result.ProfileSaved = false
	} else {
		result.Profile = profile
	}

	if err := s.profileRepo.CompleteOnboarding(ctx, userID); err != nil {
		return nil, err
	}

	if err := s.drafts.Delete(ctx, userID); err != nil {
		s.logger.Warn("draft cleanup failed", zap.Int64("user_id", userID), zap.Error(err))
	}
	return result, nil
}

func draftToInput(draft *OnboardingDraft) repository.UpdateProfileInput {
	input := repository.UpdateProfileInput{}

	id := draft.Identity
	input.FirstName = optionalString(id.FirstName)
	input.LastName = optionalString(id.LastName)
	input.Gender = optionalString(id.Gender)
	input.Phone = optionalString(id.Phone)
	if id.DOB != "" {
		if dob, err := time.Parse("2006-01-02", id.DOB); err == nil {
			input.DOB = &dob
		}
	}

	bio := draft.Biometrics
	input.HeightCM = &bio.HeightCM
	input.WeightKG = &bio.WeightKG
	input.BloodType = optionalString(bio.BloodType)

	conditions := ResolveConditions(draft.Conditions.Conditions, draft.Conditions.OtherText)
	input.Conditions = &conditions

	input.Medications = optionalString(draft.Medications.Medications)
	input.Allergies = optionalString(draft.Medications.Allergies)

	input.EmergencyName = optionalString(draft.Emergency.Name)
	input.EmergencyPhone = optionalString(draft.Emergency.Phone)

	return input
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
