package tasks

import (
	"context"
	"fmt"
	"strings"

	"github.com/tgienger/teamboard/internal/db"
	"github.com/tgienger/teamboard/internal/models"
)

const maxTitleLength = 200

// CreateTaskInput describes a new leaf task
type CreateTaskInput struct {
	Title       string
	Description models.Description
	Priority    models.Priority // defaults to medium
	Category    models.Category // defaults to other
	Assignees   AssigneeSet
	StartDate   *models.Date
	DueDate     *models.Date
	CreatedBy   int64
}

// UpdateTaskInput carries optional field changes. Nil fields are left alone.
type UpdateTaskInput struct {
	Title       *string
	Description *models.Description
	Priority    *models.Priority
	Category    *models.Category
	Status      *models.Status
	Assignees   *AssigneeSet
	StartDate   *models.Date
	DueDate     *models.Date

	ClearStartDate bool
	ClearDueDate   bool
}

func cleanTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", validation("title_required", "title is required")
	}
	if len([]rune(title)) > maxTitleLength {
		return "", validation("title_too_long", "title must be at most %d characters", maxTitleLength)
	}
	return title, nil
}

func checkDates(start, due *models.Date) error {
	if start != nil && due != nil && due.Before(*start) {
		return validation("invalid_dates", "due date %s is before start date %s", due, start)
	}
	return nil
}

func checkDescription(d models.Description) error {
	if err := d.Validate(); err != nil {
		return validation("invalid_description", "%v", err)
	}
	return nil
}

// CreateTask creates a leaf task, allocates its identity code and stores its
// assignee set, all in one transaction. A failure anywhere leaves no task and
// consumes no code.
func (e *Engine) CreateTask(ctx context.Context, in CreateTaskInput) (*models.TaskView, error) {
	title, err := cleanTitle(in.Title)
	if err != nil {
		return nil, err
	}
	if in.Priority == "" {
		in.Priority = models.PriorityMedium
	}
	if !in.Priority.Valid() {
		return nil, validation("invalid_priority", "unknown priority %q", in.Priority)
	}
	if in.Category == "" {
		in.Category = models.CategoryOther
	}
	if !in.Category.Valid() {
		return nil, validation("invalid_category", "unknown category %q", in.Category)
	}
	if err := checkDescription(in.Description); err != nil {
		return nil, err
	}
	if err := checkDates(in.StartDate, in.DueDate); err != nil {
		return nil, err
	}

	var view *models.TaskView
	err = e.run(ctx, "create", in.CreatedBy, func(q *db.Queries, buf *eventBuffer) error {
		creator, err := e.getUser(ctx, q, in.CreatedBy)
		if err != nil {
			return err
		}
		ids, err := e.checkAssignees(ctx, q, in.Assignees, creator)
		if err != nil {
			return err
		}

		now := e.timestamp()
		code, err := e.allocateCode(ctx, q, creator, now)
		if err != nil {
			return err
		}

		t := &models.Task{
			Code:        code,
			Title:       title,
			Description: in.Description,
			Priority:    in.Priority,
			Category:    in.Category,
			Status:      models.StatusPending,
			StartDate:   in.StartDate,
			DueDate:     in.DueDate,
			CreatedBy:   creator.ID,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if t.ID, err = q.InsertTask(ctx, t); err != nil {
			return fmt.Errorf("insert task: %w", err)
		}
		if err := storeAssignees(ctx, q, t, ids); err != nil {
			return err
		}

		if view, err = loadView(ctx, q, t.ID); err != nil {
			return err
		}
		buf.add(EventTaskCreated, view, recipients(creator.ID, ids))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// UpdateTask applies field changes to a task. A status change follows the same
// rules as ChangeStatus and an assignee change the same rules as
// UpdateAssignment; everything commits together.
func (e *Engine) UpdateTask(ctx context.Context, id, actorID int64, in UpdateTaskInput) (*models.TaskView, error) {
	var view *models.TaskView
	err := e.run(ctx, "update", actorID, func(q *db.Queries, buf *eventBuffer) error {
		actor, err := e.getUser(ctx, q, actorID)
		if err != nil {
			return err
		}
		t, err := e.getTask(ctx, q, id)
		if err != nil {
			return err
		}

		if in.Title != nil {
			if t.Title, err = cleanTitle(*in.Title); err != nil {
				return err
			}
		}
		if in.Description != nil {
			if t.IsSuperTask && !in.Description.IsEmpty() {
				return validation("container_description", "a super task has no description")
			}
			if err := checkDescription(*in.Description); err != nil {
				return err
			}
			t.Description = *in.Description
		}
		if in.Priority != nil {
			if !in.Priority.Valid() {
				return validation("invalid_priority", "unknown priority %q", *in.Priority)
			}
			t.Priority = *in.Priority
		}
		if in.Category != nil {
			if !in.Category.Valid() {
				return validation("invalid_category", "unknown category %q", *in.Category)
			}
			t.Category = *in.Category
		}
		if in.ClearStartDate {
			t.StartDate = nil
		} else if in.StartDate != nil {
			t.StartDate = in.StartDate
		}
		if in.ClearDueDate {
			t.DueDate = nil
		} else if in.DueDate != nil {
			t.DueDate = in.DueDate
		}
		if err := checkDates(t.StartDate, t.DueDate); err != nil {
			return err
		}

		t.UpdatedAt = e.timestamp()
		if err := q.UpdateTask(ctx, t); err != nil {
			return err
		}

		var newlyAssigned []int64
		if in.Assignees != nil {
			before, err := q.ListAssignees(ctx, id)
			if err != nil {
				return err
			}
			ids, err := e.checkAssignees(ctx, q, *in.Assignees, actor)
			if err != nil {
				return err
			}
			if err := storeAssignees(ctx, q, t, ids); err != nil {
				return err
			}
			newlyAssigned = added(userIDs(before), ids)
		}

		if in.Status != nil {
			if err := e.setStatus(ctx, q, buf, t, actor, *in.Status, false); err != nil {
				return err
			}
		}

		if view, err = loadView(ctx, q, id); err != nil {
			return err
		}
		if len(newlyAssigned) > 0 {
			buf.add(EventTaskAssigned, view, recipients(actorID, newlyAssigned))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// ChangeStatus moves a leaf task to status. Completing a task leaves it
// awaiting approval unless the actor is an admin, in which case it is approved
// at once; any other status clears approval. approve asks for approval
// explicitly and requires an admin completing the task.
func (e *Engine) ChangeStatus(ctx context.Context, id int64, status models.Status, actorID int64, approve bool) (*models.TaskView, error) {
	var view *models.TaskView
	err := e.run(ctx, "change_status", actorID, func(q *db.Queries, buf *eventBuffer) error {
		actor, err := e.getUser(ctx, q, actorID)
		if err != nil {
			return err
		}
		t, err := e.getTask(ctx, q, id)
		if err != nil {
			return err
		}
		if err := e.setStatus(ctx, q, buf, t, actor, status, approve); err != nil {
			return err
		}
		view, err = loadView(ctx, q, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// setStatus writes a leaf status change and rolls it up into the parent
func (e *Engine) setStatus(ctx context.Context, q *db.Queries, buf *eventBuffer, t *models.Task, actor *models.User, status models.Status, approve bool) error {
	if !status.Valid() {
		return validation("invalid_status", "unknown status %q", status)
	}
	if t.IsSuperTask {
		return forbidden("derived_status", "status of super task %d is derived from its members", t.ID)
	}

	admin := e.roles.IsAdmin(actor.Role)
	if approve {
		if status != models.StatusCompleted {
			return invalidState("not_completed", "only a completed task can be approved")
		}
		if !admin {
			return forbidden("admin_required", "approving a task requires an admin")
		}
	}

	approved := status == models.StatusCompleted && admin
	now := e.timestamp()
	if err := q.SetTaskStatus(ctx, t.ID, status, approved, now); err != nil {
		return err
	}
	t.Status, t.AdminApproved, t.UpdatedAt = status, approved, now

	if t.ParentTaskID != nil {
		if err := e.rollup(ctx, q, buf, *t.ParentTaskID); err != nil {
			return err
		}
	}

	if status == models.StatusCompleted {
		view, err := loadView(ctx, q, t.ID)
		if err != nil {
			return err
		}
		if approved {
			buf.add(EventTaskCompleted, view, recipients(actor.ID, []int64{t.CreatedBy}, view.AssigneeIDs()))
		} else {
			admins, err := e.adminIDs(ctx, q)
			if err != nil {
				return err
			}
			buf.add(EventTaskCompleted, view, recipients(actor.ID, []int64{t.CreatedBy}, admins))
		}
	}
	return nil
}

// Approve marks a completed task as verified. The actor must be an admin.
func (e *Engine) Approve(ctx context.Context, id, actorID int64) (*models.TaskView, error) {
	var view *models.TaskView
	err := e.run(ctx, "approve", actorID, func(q *db.Queries, buf *eventBuffer) error {
		actor, err := e.getUser(ctx, q, actorID)
		if err != nil {
			return err
		}
		if !e.roles.IsAdmin(actor.Role) {
			return forbidden("admin_required", "approving a task requires an admin")
		}
		t, err := e.getTask(ctx, q, id)
		if err != nil {
			return err
		}
		if t.Status != models.StatusCompleted {
			return invalidState("not_completed", "task %d is %s, only a completed task can be approved", id, t.Status)
		}

		if err := q.SetTaskStatus(ctx, id, t.Status, true, e.timestamp()); err != nil {
			return err
		}

		if view, err = loadView(ctx, q, id); err != nil {
			return err
		}
		buf.add(EventTaskApproved, view, recipients(actorID, view.AssigneeIDs(), []int64{t.CreatedBy}))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// DeleteTask removes a task and its assignments. Deleting a super task orphans
// its members; deleting a member recomputes its former container.
func (e *Engine) DeleteTask(ctx context.Context, id int64) error {
	return e.run(ctx, "delete", 0, func(q *db.Queries, buf *eventBuffer) error {
		t, err := e.getTask(ctx, q, id)
		if err != nil {
			return err
		}

		now := e.timestamp()
		if t.IsSuperTask {
			n, err := q.OrphanChildren(ctx, id, now)
			if err != nil {
				return err
			}
			e.logger.Info("super task deleted, members orphaned", "task_id", id, "members", n)
		}

		if err := q.DeleteTask(ctx, id); err != nil {
			return err
		}

		if t.ParentTaskID != nil {
			return e.rollup(ctx, q, buf, *t.ParentTaskID)
		}
		return nil
	})
}
