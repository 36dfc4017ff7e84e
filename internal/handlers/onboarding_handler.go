package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/himesh-bhushan/catchup-backend/internal/services"
)

type OnboardingHandler struct {
	onboardingService *services.OnboardingService
}

func NewOnboardingHandler(onboardingService *services.OnboardingService) *OnboardingHandler {
	return &OnboardingHandler{onboardingService: onboardingService}
}

func (h *OnboardingHandler) GetDraft(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	draft, err := h.onboardingService.GetDraft(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load draft"})
	}
	return c.JSON(fiber.Map{
		"draft":     draft,
		"next_step": draft.NextStep(),
	})
}

// SaveStep accepts one wizard step. The step name picks the payload shape;
// a failed gate comes back as a 400 with the gate's message.
func (h *OnboardingHandler) SaveStep(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	step := c.Params("step")
	var payload any
	switch step {
	case services.StepIdentity:
		payload = new(services.IdentityStep)
	case services.StepBiometrics:
		payload = new(services.BiometricsStep)
	case services.StepConditions:
		payload = new(services.ConditionsStep)
	case services.StepMedications:
		payload = new(services.MedicationsStep)
	case services.StepEmergency:
		payload = new(services.EmergencyStep)
	default:
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Unknown step"})
	}

	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	draft, msg, err := h.onboardingService.SaveStep(c.Context(), userID, step, payload)
	if err != nil {
		if errors.Is(err, services.ErrInvalidInput) {
			if msg == "" {
				msg = "Invalid step payload"
			}
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save step"})
	}
	return c.JSON(fiber.Map{
		"draft":     draft,
		"next_step": draft.NextStep(),
	})
}

func (h *OnboardingHandler) Submit(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	result, err := h.onboardingService.Submit(c.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrStepIncomplete) {
			return c.Status(fiber.StatusBadRequest).
				JSON(fiber.Map{"error": "Complete every step before submitting"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to submit onboarding"})
	}

	body := fiber.Map{
		"onboarding_complete": true,
		"profile_saved":       result.ProfileSaved,
		"profile":             result.Profile,
	}
	if !result.ProfileSaved {
		body["message"] = "Your account is ready, but saving your details failed. You can retry from settings."
	}
	return c.JSON(body)
}
