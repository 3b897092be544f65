package tasks

import (
	"context"
	"fmt"

	"github.com/tgienger/teamboard/internal/db"
	"github.com/tgienger/teamboard/internal/models"
)

// minGroupSize is the number of distinct leaf tasks a new super task needs
const minGroupSize = 2

// CreateGroup creates a super task assigned to its creator and moves every
// listed leaf task into it. Super tasks cannot be nested and a task belongs
// to at most one super task.
func (e *Engine) CreateGroup(ctx context.Context, title string, creatorID int64, taskIDs []int64) (*models.TaskView, error) {
	title, err := cleanTitle(title)
	if err != nil {
		return nil, err
	}

	members := recipients(0, taskIDs)
	if len(members) < minGroupSize {
		return nil, invalidGroup("too_few_members", "a super task needs at least %d distinct tasks", minGroupSize)
	}

	var view *models.TaskView
	err = e.run(ctx, "create_group", creatorID, func(q *db.Queries, buf *eventBuffer) error {
		creator, err := e.getUser(ctx, q, creatorID)
		if err != nil {
			return err
		}

		for _, id := range members {
			t, err := e.getTask(ctx, q, id)
			if err != nil {
				return err
			}
			if t.IsSuperTask {
				return invalidGroup("nested_super_task", "task %d is a super task and cannot be grouped", id)
			}
			if t.ParentTaskID != nil {
				return withID(ErrAlreadyGrouped, id)
			}
		}

		now := e.timestamp()
		code, err := e.allocateCode(ctx, q, creator, now)
		if err != nil {
			return err
		}

		container := &models.Task{
			Code:        code,
			Title:       title,
			Priority:    models.PriorityMedium,
			Category:    models.CategoryOther,
			Status:      models.StatusPending,
			CreatedBy:   creator.ID,
			CreatedAt:   now,
			UpdatedAt:   now,
			IsSuperTask: true,
		}
		if container.ID, err = q.InsertTask(ctx, container); err != nil {
			return fmt.Errorf("insert super task: %w", err)
		}
		if err := storeAssignees(ctx, q, container, []int64{creator.ID}); err != nil {
			return err
		}

		for _, id := range members {
			if err := q.SetParent(ctx, id, &container.ID, now); err != nil {
				return err
			}
		}
		if err := e.rollup(ctx, q, buf, container.ID); err != nil {
			return err
		}

		view, err = loadView(ctx, q, container.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// AddMember moves a leaf task into a super task. Adding a task to the group it
// already belongs to changes nothing.
func (e *Engine) AddMember(ctx context.Context, superTaskID, taskID int64) error {
	return e.run(ctx, "add_member", 0, func(q *db.Queries, buf *eventBuffer) error {
		container, err := e.getTask(ctx, q, superTaskID)
		if err != nil {
			return err
		}
		if !container.IsSuperTask {
			return withID(ErrNotASuperTask, superTaskID)
		}

		t, err := e.getTask(ctx, q, taskID)
		if err != nil {
			return err
		}
		if t.IsSuperTask {
			return invalidGroup("nested_super_task", "task %d is a super task and cannot be grouped", taskID)
		}
		if t.ParentTaskID != nil {
			if *t.ParentTaskID == superTaskID {
				return nil
			}
			return withID(ErrAlreadyGrouped, taskID)
		}

		if err := q.SetParent(ctx, taskID, &superTaskID, e.timestamp()); err != nil {
			return err
		}
		return e.rollup(ctx, q, buf, superTaskID)
	})
}

// RemoveMember takes a task out of its super task. The task itself is kept;
// a container left without members stays as an empty pending super task.
func (e *Engine) RemoveMember(ctx context.Context, taskID int64) error {
	return e.run(ctx, "remove_member", 0, func(q *db.Queries, buf *eventBuffer) error {
		t, err := e.getTask(ctx, q, taskID)
		if err != nil {
			return err
		}
		if t.ParentTaskID == nil {
			return nil
		}

		if err := q.SetParent(ctx, taskID, nil, e.timestamp()); err != nil {
			return err
		}
		return e.rollup(ctx, q, buf, *t.ParentTaskID)
	})
}

// rollup recomputes a super task's status from its members and persists it.
// Approval is dropped whenever the container is no longer completed.
func (e *Engine) rollup(ctx context.Context, q *db.Queries, buf *eventBuffer, containerID int64) error {
	container, err := e.getTask(ctx, q, containerID)
	if err != nil {
		return err
	}
	if !container.IsSuperTask {
		return fmt.Errorf("rollup of task %d: %w", containerID, ErrNotASuperTask)
	}

	children, err := q.ListChildren(ctx, containerID)
	if err != nil {
		return err
	}

	derived := DeriveStatus(statuses(children))
	approved := container.AdminApproved && derived == models.StatusCompleted

	if e.metrics != nil {
		e.metrics.Rollups.WithLabelValues(string(derived)).Inc()
	}

	if derived == container.Status && approved == container.AdminApproved {
		return nil
	}
	if err := q.SetTaskStatus(ctx, containerID, derived, approved, e.timestamp()); err != nil {
		return err
	}

	if derived == models.StatusCompleted {
		view, err := loadView(ctx, q, containerID)
		if err != nil {
			return err
		}
		buf.add(EventGroupCompleted, view, recipients(0, view.AssigneeIDs(), []int64{container.CreatedBy}))
	}
	return nil
}
