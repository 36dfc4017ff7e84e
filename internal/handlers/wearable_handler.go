package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/himesh-bhushan/catchup-backend/internal/services"
)

type WearableHandler struct {
	wearableService *services.WearableService
}

func NewWearableHandler(wearableService *services.WearableService) *WearableHandler {
	return &WearableHandler{wearableService: wearableService}
}

func (h *WearableHandler) GetConnectURL(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	return c.JSON(fiber.Map{"url": h.wearableService.ConnectURL(userID)})
}

func (h *WearableHandler) Connect(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	if err := h.wearableService.Connect(c.Context(), userID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to connect device"})
	}
	return c.JSON(fiber.Map{"device_connected": true})
}

// TriggerSync answers immediately; the pull happens in the background.
func (h *WearableHandler) TriggerSync(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	h.wearableService.TriggerSync(userID)
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"message": "Sync started"})
}

// Disconnect clears the pairing. Only one provider exists today, so the
// path param is validated but not stored.
func (h *WearableHandler) Disconnect(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	if c.Params("provider") != "google" {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Unknown provider"})
	}

	if err := h.wearableService.Disconnect(c.Context(), userID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to disconnect device"})
	}
	return c.JSON(fiber.Map{"device_connected": false})
}
