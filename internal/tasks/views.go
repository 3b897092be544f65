package tasks

import (
	"context"

	"github.com/tgienger/teamboard/internal/db"
	"github.com/tgienger/teamboard/internal/models"
)

// loadView builds the snapshot of one task from q. Inside a transaction the
// container and its children are read at the same point.
func loadView(ctx context.Context, q *db.Queries, id int64) (*models.TaskView, error) {
	t, err := q.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	return expand(ctx, q, *t)
}

func expand(ctx context.Context, q *db.Queries, t models.Task) (*models.TaskView, error) {
	assignees, err := q.ListAssignees(ctx, t.ID)
	if err != nil {
		return nil, err
	}

	view := &models.TaskView{Task: t, Assignees: assignees}
	if view.Assignees == nil {
		view.Assignees = []models.User{}
	}

	if t.IsSuperTask {
		children, err := q.ListChildren(ctx, t.ID)
		if err != nil {
			return nil, err
		}
		if children == nil {
			children = []models.Task{}
		}
		view.Children = children
		view.Progress = progressOf(children)
	}
	return view, nil
}

// GetTask returns a self-consistent snapshot of a task, with its children
// when it is a super task
func (e *Engine) GetTask(ctx context.Context, id int64) (*models.TaskView, error) {
	var view *models.TaskView
	err := classify(e.db.WithTx(ctx, func(q *db.Queries) error {
		var err error
		view, err = loadView(ctx, q, id)
		return err
	}))
	if err != nil {
		return nil, err
	}
	return view, nil
}

// ListTasks returns snapshots of every task matching filter, all read in one
// transaction
func (e *Engine) ListTasks(ctx context.Context, filter db.TaskFilter) ([]models.TaskView, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, validation("invalid_status", "unknown status %q", filter.Status)
	}

	var views []models.TaskView
	err := classify(e.db.WithTx(ctx, func(q *db.Queries) error {
		list, err := q.ListTasks(ctx, filter)
		if err != nil {
			return err
		}
		views = make([]models.TaskView, 0, len(list))
		for _, t := range list {
			view, err := expand(ctx, q, t)
			if err != nil {
				return err
			}
			views = append(views, *view)
		}
		return nil
	}))
	if err != nil {
		return nil, err
	}
	return views, nil
}
