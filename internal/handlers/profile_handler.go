package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/himesh-bhushan/catchup-backend/internal/repository"
	"github.com/himesh-bhushan/catchup-backend/internal/services"
)

const maxAvatarSizeBytes = 5 * 1024 * 1024

type ProfileHandler struct {
	profileService *services.ProfileService
	medicalService *services.MedicalService
}

func NewProfileHandler(profileService *services.ProfileService, medicalService *services.MedicalService) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		medicalService: medicalService,
	}
}

type updateProfileRequest struct {
	FirstName      *string   `json:"first_name"`
	LastName       *string   `json:"last_name"`
	DOB            *string   `json:"dob"`
	Gender         *string   `json:"gender"`
	Phone          *string   `json:"phone"`
	HeightCM       *float64  `json:"height_cm"`
	WeightKG       *float64  `json:"weight_kg"`
	BloodType      *string   `json:"blood_type"`
	Conditions     *[]string `json:"conditions"`
	Medications    *string   `json:"medications"`
	Allergies      *string   `json:"allergies"`
	EmergencyName  *string   `json:"emergency_name"`
	EmergencyPhone *string   `json:"emergency_phone"`
	AvatarRef      *string   `json:"avatar_ref"`
}

// GetProfile returns the whole record, or the subset named by ?fields= so
// lightweight screens do not drag the full row across the wire.
func (h *ProfileHandler) GetProfile(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	profile, err := h.profileService.Get(c.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Profile not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch profile"})
	}

	avatarURL := h.profileService.ResolveAvatar(c.Context(), profile.AvatarRef)

	if fields := c.Query("fields"); fields != "" {
		subset, err := selectFields(profile, strings.Split(fields, ","))
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch profile"})
		}
		return c.JSON(fiber.Map{"profile": subset, "avatar_url": avatarURL})
	}

	return c.JSON(fiber.Map{
		"profile":             profile,
		"avatar_url":          avatarURL,
		"onboarding_complete": profile.OnboardingComplete,
	})
}

func (h *ProfileHandler) UpdateProfile(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req updateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if validationErr := validateProfileUpdateRequest(req); validationErr != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validationErr})
	}

	input := repository.UpdateProfileInput{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Gender:         req.Gender,
		Phone:          req.Phone,
		HeightCM:       req.HeightCM,
		WeightKG:       req.WeightKG,
		BloodType:      req.BloodType,
		Conditions:     req.Conditions,
		Medications:    req.Medications,
		Allergies:      req.Allergies,
		EmergencyName:  req.EmergencyName,
		EmergencyPhone: req.EmergencyPhone,
		AvatarRef:      req.AvatarRef,
	}
	if req.DOB != nil {
		dob, err := time.Parse("2006-01-02", *req.DOB)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "dob must be YYYY-MM-DD"})
		}
		input.DOB = &dob
	}

	profile, err := h.profileService.Update(c.Context(), userID, input)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Profile not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update profile"})
	}

	// Saving medical fields while the lock screen flag is on re-pushes the
	// summary so the paired device never shows stale data.
	h.medicalService.RefreshLockScreen(c.Context(), userID)

	return c.JSON(fiber.Map{
		"profile":             profile,
		"onboarding_complete": profile.OnboardingComplete,
	})
}

func (h *ProfileHandler) UploadAvatar(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "avatar file is required"})
	}
	if fileHeader.Size <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "avatar file is empty"})
	}
	if fileHeader.Size > maxAvatarSizeBytes {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "avatar file exceeds 5MB limit"})
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "avatar must be a jpg, jpeg, png, or webp file"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to open avatar file"})
	}
	defer file.Close()

	filename := fmt.Sprintf("%d%s", time.Now().UnixNano(), ext)
	profile, err := h.profileService.UploadAvatar(c.Context(), userID, file, filename)
	if err != nil {
		if errors.Is(err, services.ErrStorageUnavailable) {
			return c.Status(fiber.StatusServiceUnavailable).
				JSON(fiber.Map{"error": "Storage service is not configured"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to upload avatar"})
	}

	return c.JSON(fiber.Map{
		"avatar_url": h.profileService.ResolveAvatar(c.Context(), profile.AvatarRef),
		"profile":    profile,
	})
}

func (h *ProfileHandler) GetMedicalID(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	id, err := h.medicalService.Get(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch medical ID"})
	}
	return c.JSON(fiber.Map{"medical_id": id})
}

type lockVisibilityRequest struct {
	Visible *bool `json:"visible"`
}

func (h *ProfileHandler) SetLockVisibility(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req lockVisibilityRequest
	if err := c.BodyParser(&req); err != nil || req.Visible == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "visible is required"})
	}

	if err := h.medicalService.SetLockVisibility(c.Context(), userID, *req.Visible); err != nil {
		return c.Status(fiber.StatusInternalServerError).
			JSON(fiber.Map{"error": "Failed to update lock screen visibility"})
	}
	return c.JSON(fiber.Map{"show_on_lock": *req.Visible})
}

type calorieGoalRequest struct {
	CalorieGoal int `json:"calorie_goal"`
}

func (h *ProfileHandler) SetCalorieGoal(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req calorieGoalRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if err := h.profileService.SetCalorieGoal(c.Context(), userID, req.CalorieGoal); err != nil {
		if errors.Is(err, services.ErrInvalidInput) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "calorie goal must be positive"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update calorie goal"})
	}
	return c.JSON(fiber.Map{"calorie_goal": req.CalorieGoal})
}

// selectFields projects the profile onto the requested json keys. Unknown
// keys are ignored rather than erroring so old clients keep working.
func selectFields(profile any, fields []string) (map[string]any, error) {
	raw, err := json.Marshal(profile)
	if err != nil {
		return nil, err
	}
	var full map[string]any
	if err := json.Unmarshal(raw, &full); err != nil {
		return nil, err
	}

	subset := make(map[string]any, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if v, ok := full[f]; ok {
			subset[f] = v
		}
	}
	return subset, nil
}
