package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/tgienger/teamboard/internal/db"
	"github.com/tgienger/teamboard/internal/tasks"
)

// statusFor maps an engine error kind onto an HTTP status
func statusFor(kind tasks.Kind) int {
	switch kind {
	case tasks.KindValidation:
		return fiber.StatusBadRequest
	case tasks.KindNotFound:
		return fiber.StatusNotFound
	case tasks.KindForbidden:
		return fiber.StatusForbidden
	case tasks.KindInvalidState, tasks.KindConflict:
		return fiber.StatusConflict
	case tasks.KindInvalidGroup:
		return fiber.StatusUnprocessableEntity
	}
	return fiber.StatusInternalServerError
}

// tasksError gives storage errors from direct reads the same shape as engine errors
func tasksError(err error) error {
	if errors.Is(err, db.ErrNotFound) {
		var typed *tasks.Error
		if !errors.As(err, &typed) {
			return &tasks.Error{Kind: tasks.KindNotFound, Code: "not_found", Message: err.Error(), Err: err}
		}
	}
	return err
}

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	err = tasksError(err)
	kind := tasks.KindOf(err)
	status := statusFor(kind)

	if status == fiber.StatusInternalServerError {
		h.logger.Error("request failed", "method", c.Method(), "path", c.Path(), "error", err)
		return c.Status(status).JSON(fiber.Map{
			"error": "Internal server error",
			"kind":  kind,
		})
	}

	var typed *tasks.Error
	errors.As(err, &typed)
	return c.Status(status).JSON(fiber.Map{
		"error": typed.Message,
		"kind":  kind,
		"code":  typed.Code,
	})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": message,
		"kind":  tasks.KindValidation,
	})
}
