package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
)

var errNoUser = errors.New("no authenticated user")

// currentUserID reads the id the auth middleware stashed in locals.
func currentUserID(c *fiber.Ctx) (int64, error) {
	raw, ok := c.Locals("user_id").(string)
	if !ok {
		return 0, errNoUser
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errNoUser
	}
	return id, nil
}
