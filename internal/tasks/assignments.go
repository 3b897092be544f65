package tasks

import (
	"context"
	"fmt"
	"strings"

	"github.com/tgienger/teamboard/internal/db"
	"github.com/tgienger/teamboard/internal/models"
)

// AssigneeSet is the requested assignment for a task. Primary, when set, is
// placed first and always included. Unassigned asks for an empty set, which
// only admins may request.
type AssigneeSet struct {
	Primary    *int64
	IDs        []int64
	Unassigned bool
}

// resolve orders the set primary first and drops duplicates
func (s AssigneeSet) resolve() []int64 {
	var lists [][]int64
	if s.Primary != nil {
		lists = append(lists, []int64{*s.Primary})
	}
	lists = append(lists, s.IDs)
	return recipients(0, lists...)
}

// checkAssignees validates the resolved set against the acting user and the
// user table. It returns the ordered ids to store.
func (e *Engine) checkAssignees(ctx context.Context, q *db.Queries, set AssigneeSet, actor *models.User) ([]int64, error) {
	ids := set.resolve()

	if len(ids) == 0 {
		if !set.Unassigned {
			return nil, validation("assignees_required", "at least one assignee is required")
		}
		if !e.roles.IsAdmin(actor.Role) {
			return nil, forbidden("admin_required", "only an admin can leave a task unassigned")
		}
		return nil, nil
	}
	if set.Unassigned {
		return nil, validation("assignees_conflict", "a task cannot be both unassigned and assigned")
	}

	var missing []string
	for _, id := range ids {
		if _, err := q.GetUser(ctx, id); err != nil {
			if KindOf(classify(err)) != KindNotFound {
				return nil, err
			}
			missing = append(missing, fmt.Sprint(id))
		}
	}
	if len(missing) > 0 {
		return nil, &Error{Kind: KindNotFound, Code: "assignee_not_found", Message: "unknown assignee ids: " + strings.Join(missing, ", ")}
	}
	return ids, nil
}

// storeAssignees replaces the assignment rows and keeps the legacy primary
// column pointing at the first assignee
func storeAssignees(ctx context.Context, q *db.Queries, t *models.Task, ids []int64) error {
	if err := q.ReplaceAssignees(ctx, t.ID, ids, t.UpdatedAt); err != nil {
		return fmt.Errorf("replace assignees of task %d: %w", t.ID, err)
	}

	var primary *int64
	if len(ids) > 0 {
		id := ids[0]
		primary = &id
	}
	t.AssignedTo = primary
	return q.UpdateTask(ctx, t)
}

// UpdateAssignment replaces the full assignee set of a task in one transaction.
// Newly added assignees other than the actor are notified.
func (e *Engine) UpdateAssignment(ctx context.Context, taskID, actorID int64, set AssigneeSet) (*models.TaskView, error) {
	var view *models.TaskView
	err := e.run(ctx, "update_assignment", actorID, func(q *db.Queries, buf *eventBuffer) error {
		actor, err := e.getUser(ctx, q, actorID)
		if err != nil {
			return err
		}
		t, err := e.getTask(ctx, q, taskID)
		if err != nil {
			return err
		}

		before, err := q.ListAssignees(ctx, taskID)
		if err != nil {
			return err
		}

		ids, err := e.checkAssignees(ctx, q, set, actor)
		if err != nil {
			return err
		}

		t.UpdatedAt = e.timestamp()
		if err := storeAssignees(ctx, q, t, ids); err != nil {
			return err
		}

		if view, err = loadView(ctx, q, taskID); err != nil {
			return err
		}
		if newIDs := added(userIDs(before), ids); len(newIDs) > 0 {
			buf.add(EventTaskAssigned, view, recipients(actorID, newIDs))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func userIDs(users []models.User) []int64 {
	ids := make([]int64, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	return ids
}
