package api

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/tgienger/teamboard/internal/db"
	"github.com/tgienger/teamboard/internal/models"
	"github.com/tgienger/teamboard/internal/tasks"
)

type createTaskRequest struct {
	Title       string             `json:"title"`
	Description models.Description `json:"description"`
	Priority    models.Priority    `json:"priority"`
	Category    models.Category    `json:"category"`
	AssignedTo  *int64             `json:"assigned_to"`
	AssigneeIDs []int64            `json:"assignee_ids"`
	Unassigned  bool               `json:"unassigned"`
	StartDate   *string            `json:"start_date"`
	DueDate     *string            `json:"due_date"`
}

// updateTaskRequest leaves absent fields alone. An empty date string clears the date.
type updateTaskRequest struct {
	Title       *string             `json:"title"`
	Description *models.Description `json:"description"`
	Priority    *models.Priority    `json:"priority"`
	Category    *models.Category    `json:"category"`
	Status      *models.Status      `json:"status"`
	AssignedTo  *int64              `json:"assigned_to"`
	AssigneeIDs []int64             `json:"assignee_ids"`
	Unassigned  bool                `json:"unassigned"`
	StartDate   *string             `json:"start_date"`
	DueDate     *string             `json:"due_date"`
}

type statusRequest struct {
	Status  models.Status `json:"status"`
	Approve bool          `json:"approve"`
}

type assigneesRequest struct {
	AssignedTo  *int64  `json:"assigned_to"`
	AssigneeIDs []int64 `json:"assignee_ids"`
	Unassigned  bool    `json:"unassigned"`
}

type groupRequest struct {
	Title   string  `json:"title"`
	TaskIDs []int64 `json:"task_ids"`
}

type memberRequest struct {
	TaskID int64 `json:"task_id"`
}

// parseDate reads an optional date in the engine's zone
func (h *Handler) parseDate(s *string) (*models.Date, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	d, err := models.ParseDate(*s, h.engine.Location())
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (h *Handler) listTasks(c *fiber.Ctx) error {
	filter := db.TaskFilter{
		Status:       models.Status(c.Query("status")),
		TopLevelOnly: c.QueryBool("top_level", false),
	}
	if raw := c.Query("assignee"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return badRequest(c, "Invalid assignee id")
		}
		filter.AssigneeID = &id
	}

	views, err := h.engine.ListTasks(c.UserContext(), filter)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(h.pollMeta(fiber.Map{"tasks": views}))
}

func (h *Handler) getTask(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid task id")
	}

	view, err := h.engine.GetTask(c.UserContext(), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(h.pollMeta(fiber.Map{"task": view}))
}

func (h *Handler) createTask(c *fiber.Ctx) error {
	var req createTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	start, err := h.parseDate(req.StartDate)
	if err != nil {
		return badRequest(c, err.Error())
	}
	due, err := h.parseDate(req.DueDate)
	if err != nil {
		return badRequest(c, err.Error())
	}

	view, err := h.engine.CreateTask(c.UserContext(), tasks.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Category:    req.Category,
		Assignees: tasks.AssigneeSet{
			Primary:    req.AssignedTo,
			IDs:        req.AssigneeIDs,
			Unassigned: req.Unassigned,
		},
		StartDate: start,
		DueDate:   due,
		CreatedBy: actorID(c),
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"task": view})
}

func (h *Handler) updateTask(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid task id")
	}

	var req updateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	in := tasks.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Category:    req.Category,
		Status:      req.Status,
	}
	if req.AssignedTo != nil || req.AssigneeIDs != nil || req.Unassigned {
		in.Assignees = &tasks.AssigneeSet{Primary: req.AssignedTo, IDs: req.AssigneeIDs, Unassigned: req.Unassigned}
	}

	var err error
	if req.StartDate != nil {
		in.ClearStartDate = *req.StartDate == ""
		if in.StartDate, err = h.parseDate(req.StartDate); err != nil {
			return badRequest(c, err.Error())
		}
	}
	if req.DueDate != nil {
		in.ClearDueDate = *req.DueDate == ""
		if in.DueDate, err = h.parseDate(req.DueDate); err != nil {
			return badRequest(c, err.Error())
		}
	}

	view, err := h.engine.UpdateTask(c.UserContext(), id, actorID(c), in)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"task": view})
}

func (h *Handler) changeStatus(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid task id")
	}

	var req statusRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	view, err := h.engine.ChangeStatus(c.UserContext(), id, req.Status, actorID(c), req.Approve)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"task": view})
}

func (h *Handler) approve(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid task id")
	}

	view, err := h.engine.Approve(c.UserContext(), id, actorID(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"task": view})
}

func (h *Handler) updateAssignees(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid task id")
	}

	var req assigneesRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	view, err := h.engine.UpdateAssignment(c.UserContext(), id, actorID(c), tasks.AssigneeSet{
		Primary:    req.AssignedTo,
		IDs:        req.AssigneeIDs,
		Unassigned: req.Unassigned,
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(fiber.Map{"task": view})
}

func (h *Handler) deleteTask(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid task id")
	}

	if err := h.engine.DeleteTask(c.UserContext(), id); err != nil {
		return h.fail(c, err)
	}
	h.logger.Info("task deleted", "task_id", id, "actor_id", actorID(c))
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) createGroup(c *fiber.Ctx) error {
	var req groupRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	view, err := h.engine.CreateGroup(c.UserContext(), req.Title, actorID(c), req.TaskIDs)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"task": view})
}

func (h *Handler) addToGroup(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid super task id")
	}

	var req memberRequest
	if err := c.BodyParser(&req); err != nil || req.TaskID <= 0 {
		return badRequest(c, "Invalid request body")
	}

	if err := h.engine.AddMember(c.UserContext(), id, req.TaskID); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) removeFromGroup(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badRequest(c, "Invalid task id")
	}

	if err := h.engine.RemoveMember(c.UserContext(), id); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
