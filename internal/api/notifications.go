package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/tgienger/teamboard/internal/models"
)

func (h *Handler) listNotifications(c *fiber.Ctx) error {
	userID := actorID(c)
	unreadOnly := c.QueryBool("unread", false)
	limit := c.QueryInt("limit", 50)
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	list, err := h.db.ListNotifications(c.UserContext(), userID, unreadOnly, limit)
	if err != nil {
		return h.fail(c, err)
	}
	unread, err := h.db.UnreadCount(c.UserContext(), userID)
	if err != nil {
		return h.fail(c, err)
	}

	if list == nil {
		list = []models.Notification{}
	}
	return c.JSON(h.pollMeta(fiber.Map{
		"notifications": list,
		"unread_count":  unread,
	}))
}

func (h *Handler) markNotificationRead(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid notification id")
	}

	if err := h.db.MarkNotificationRead(c.UserContext(), id, actorID(c)); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
