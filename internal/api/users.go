package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/tgienger/teamboard/internal/tasks"
)

type createUserRequest struct {
	Name        string `json:"name"`
	Role        string `json:"role"`
	AvatarColor string `json:"avatar_color"`
}

type roleRequest struct {
	Role string `json:"role"`
}

func (h *Handler) listUsers(c *fiber.Ctx) error {
	users, err := h.engine.ListUsers(c.UserContext())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"users": users})
}

func (h *Handler) getUser(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid user id")
	}

	user, err := h.engine.GetUser(c.UserContext(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"user": user})
}

// createUser is open while the team is empty so the first admin can be created;
// after that only admins add users
func (h *Handler) createUser(c *fiber.Ctx) error {
	if c.Get(UserHeader) == "" {
		return h.bootstrapUser(c)
	}

	ok, err := h.resolveActor(c)
	if !ok {
		return err
	}
	if !actorIsAdmin(c, h) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Only admins can add users",
			"kind":  "forbidden",
		})
	}

	var req createUserRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	user, err := h.engine.CreateUser(c.UserContext(), req.Name, req.Role, req.AvatarColor)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"user": user})
}

func (h *Handler) bootstrapUser(c *fiber.Ctx) error {
	var req createUserRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	user, err := h.engine.BootstrapUser(c.UserContext(), req.Name, req.Role, req.AvatarColor)
	if errors.Is(err, tasks.ErrTeamExists) {
		// Once the team exists an unauthenticated request is just missing its header
		_, err := h.resolveActor(c)
		return err
	}
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"user": user})
}

func (h *Handler) updateUserRole(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid user id")
	}

	var req roleRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	user, err := h.engine.UpdateUserRole(c.UserContext(), id, actorID(c), req.Role)
	if err != nil {
		return h.fail(c, err)
	}
	h.roles.Forget(id)
	return c.JSON(fiber.Map{"user": user})
}
