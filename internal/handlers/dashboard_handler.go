package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/himesh-bhushan/catchup-backend/internal/services"
)

type DashboardHandler struct {
	metricsService *services.MetricsService
}

func NewDashboardHandler(metricsService *services.MetricsService) *DashboardHandler {
	return &DashboardHandler{metricsService: metricsService}
}

func (h *DashboardHandler) GetDashboard(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	snapshot, err := h.metricsService.Dashboard(c.Context(), userID, time.Now().UTC())
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Profile not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to build dashboard"})
	}
	return c.JSON(snapshot)
}
