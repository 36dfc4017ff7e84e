package handlers

import (
	"strconv"

	websocket "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/himesh-bhushan/catchup-backend/internal/notify"
	"github.com/himesh-bhushan/catchup-backend/pkg/utils"
)

// NotifyHandler upgrades lock screen devices onto the push hub. Browsers
// cannot set headers on websocket dials, so the token rides in the query.
type NotifyHandler struct {
	hub       *notify.Hub
	jwtSecret string
}

func NewNotifyHandler(hub *notify.Hub, jwtSecret string) *NotifyHandler {
	return &NotifyHandler{hub: hub, jwtSecret: jwtSecret}
}

func (h *NotifyHandler) WebSocketAuth(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	token := c.Query("token")
	if token == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing token"})
	}

	claims, err := utils.ValidateToken(token, h.jwtSecret)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired token"})
	}

	c.Locals("user_id", claims.UserID)
	return c.Next()
}

func (h *NotifyHandler) HandleWebSocket(conn *websocket.Conn) {
	raw, ok := conn.Locals("user_id").(string)
	if !ok {
		_ = conn.Close()
		return
	}
	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		_ = conn.Close()
		return
	}

	client := notify.NewClient(h.hub, conn, userID)
	h.hub.Register(client)

	go client.WritePump()
	client.ReadPump()
}
