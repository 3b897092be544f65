package api

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/tgienger/teamboard/internal/tasks"
)

// UserHeader carries the acting user's id. Session handling lives in front of
// this service; it forwards the authenticated user here.
const UserHeader = "X-User-ID"

// requireActor resolves the acting user and stores it in Locals
func (h *Handler) requireActor(c *fiber.Ctx) error {
	ok, err := h.resolveActor(c)
	if !ok {
		return err
	}
	return c.Next()
}

// resolveActor reads the acting user. When it returns false the response has
// already been written.
func (h *Handler) resolveActor(c *fiber.Ctx) (bool, error) {
	raw := c.Get(UserHeader)
	if raw == "" {
		return false, c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Missing " + UserHeader + " header",
		})
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return false, c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid " + UserHeader + " header",
		})
	}

	user, err := h.roles.User(c.UserContext(), h.db, id)
	if err != nil {
		if tasks.KindOf(tasksError(err)) == tasks.KindNotFound {
			return false, c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unknown user",
			})
		}
		return false, h.fail(c, err)
	}

	c.Locals("user_id", user.ID)
	c.Locals("user_role", user.Role)
	return true, nil
}

func actorID(c *fiber.Ctx) int64 {
	id, _ := c.Locals("user_id").(int64)
	return id
}

func actorIsAdmin(c *fiber.Ctx, h *Handler) bool {
	role, _ := c.Locals("user_role").(string)
	return h.roles.IsAdmin(role)
}

func paramID(c *fiber.Ctx, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	return id, err == nil && id > 0
}
