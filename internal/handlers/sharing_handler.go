package handlers

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/himesh-bhushan/catchup-backend/internal/models"
	"github.com/himesh-bhushan/catchup-backend/internal/services"
)

const leaderboardLimit = 20

type sharingStore interface {
	TopBySteps(ctx context.Context, from, to time.Time, limit int) ([]models.LeaderboardEntry, error)
	CreateInvite(ctx context.Context, invite *models.Invite) error
}

type SharingHandler struct {
	sharingRepo sharingStore
}

func NewSharingHandler(sharingRepo sharingStore) *SharingHandler {
	return &SharingHandler{sharingRepo: sharingRepo}
}

// GetLeaderboard ranks everyone by steps over the current week.
func (h *SharingHandler) GetLeaderboard(c *fiber.Ctx) error {
	if _, err := currentUserID(c); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	weekStart := services.WeekStart(time.Now().UTC())
	entries, err := h.sharingRepo.TopBySteps(c.Context(), weekStart, weekStart.AddDate(0, 0, 6), leaderboardLimit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch leaderboard"})
	}
	return c.JSON(fiber.Map{"leaderboard": entries, "week_start": weekStart})
}

type inviteRequest struct {
	Email string `json:"email"`
}

func (h *SharingHandler) CreateInvite(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req inviteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	parsed, err := mail.ParseAddress(strings.TrimSpace(req.Email))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid email format"})
	}

	invite := &models.Invite{UserID: userID, Email: strings.ToLower(parsed.Address)}
	if err := h.sharingRepo.CreateInvite(c.Context(), invite); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create invite"})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"invite": invite})
}
