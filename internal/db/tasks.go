package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/tgienger/teamboard/internal/models"
)

const taskColumns = `
	t.id, t.code, t.title, t.description_kind, t.description_body, t.priority, t.category,
	t.status, t.admin_approved, t.start_date, t.due_date, t.assigned_to, t.created_by,
	t.created_at, t.updated_at, t.parent_task_id, t.is_super_task`

// TaskFilter narrows ListTasks
type TaskFilter struct {
	AssigneeID   *int64
	Status       models.Status
	TopLevelOnly bool // exclude tasks that belong to a super task
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner) (models.Task, error) {
	var (
		t         models.Task
		descKind  string
		descBody  string
		startDate *string
		dueDate   *string
		approved  int
		superTask int
	)
	err := s.Scan(&t.ID, &t.Code, &t.Title, &descKind, &descBody, &t.Priority, &t.Category,
		&t.Status, &approved, &startDate, &dueDate, &t.AssignedTo, &t.CreatedBy,
		&t.CreatedAt, &t.UpdatedAt, &t.ParentTaskID, &superTask)
	if err != nil {
		return t, err
	}

	t.AdminApproved = approved == 1
	t.IsSuperTask = superTask == 1

	if t.Description, err = models.DescriptionFromStored(descKind, descBody); err != nil {
		return t, fmt.Errorf("task %d: %w", t.ID, err)
	}
	if t.StartDate, err = parseStoredDate(startDate); err != nil {
		return t, fmt.Errorf("task %d start date: %w", t.ID, err)
	}
	if t.DueDate, err = parseStoredDate(dueDate); err != nil {
		return t, fmt.Errorf("task %d due date: %w", t.ID, err)
	}
	return t, nil
}

func parseStoredDate(s *string) (*models.Date, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	d, err := models.ParseDate(*s, time.UTC)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// InsertTask stores a new task row and returns its id. CreatedAt and
// UpdatedAt must already be set.
func (q *Queries) InsertTask(ctx context.Context, t *models.Task) (int64, error) {
	body, err := t.Description.Body()
	if err != nil {
		return 0, err
	}

	result, err := q.q.ExecContext(ctx, `
		INSERT INTO tasks (
			code, title, description_kind, description_body, priority, category, status,
			admin_approved, start_date, due_date, assigned_to, created_by, created_at,
			updated_at, parent_task_id, is_super_task
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, t.Code, t.Title, string(t.Description.Kind), body, t.Priority, t.Category, t.Status,
		boolInt(t.AdminApproved), models.DatePtrString(t.StartDate), models.DatePtrString(t.DueDate),
		t.AssignedTo, t.CreatedBy, ts(t.CreatedAt), ts(t.UpdatedAt), t.ParentTaskID, boolInt(t.IsSuperTask))
	if err != nil {
		return 0, err
	}

	return result.LastInsertId()
}

// GetTask retrieves a task by ID
func (q *Queries) GetTask(ctx context.Context, id int64) (*models.Task, error) {
	row := q.q.QueryRowContext(ctx, "SELECT "+taskColumns+" FROM tasks t WHERE t.id = ?", id)
	t, err := scanTask(row)
	if err != nil {
		return nil, notFound(err, "task", id)
	}
	return &t, nil
}

// ListTasks returns tasks ordered by due date (undated last) then creation time
func (q *Queries) ListTasks(ctx context.Context, filter TaskFilter) ([]models.Task, error) {
	query := "SELECT " + taskColumns + " FROM tasks t"
	var (
		where []string
		args  []any
	)

	if filter.AssigneeID != nil {
		query += " JOIN task_assignees ta ON t.id = ta.task_id"
		where = append(where, "ta.user_id = ?")
		args = append(args, *filter.AssigneeID)
	}
	if filter.Status != "" {
		where = append(where, "t.status = ?")
		args = append(args, filter.Status)
	}
	if filter.TopLevelOnly {
		where = append(where, "t.parent_task_id IS NULL")
	}

	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY t.due_date IS NULL, t.due_date, t.created_at, t.id"

	return q.queryTasks(ctx, query, args...)
}

// ListChildren returns the members of a super task in creation order
func (q *Queries) ListChildren(ctx context.Context, parentID int64) ([]models.Task, error) {
	return q.queryTasks(ctx, "SELECT "+taskColumns+`
		FROM tasks t WHERE t.parent_task_id = ?
		ORDER BY t.created_at, t.id
	`, parentID)
}

func (q *Queries) queryTasks(ctx context.Context, query string, args ...any) ([]models.Task, error) {
	rows, err := q.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// UpdateTask writes every mutable column of t
func (q *Queries) UpdateTask(ctx context.Context, t *models.Task) error {
	body, err := t.Description.Body()
	if err != nil {
		return err
	}

	result, err := q.q.ExecContext(ctx, `
		UPDATE tasks SET
			title = ?, description_kind = ?, description_body = ?, priority = ?, category = ?,
			status = ?, admin_approved = ?, start_date = ?, due_date = ?, assigned_to = ?,
			parent_task_id = ?, updated_at = ?
		WHERE id = ?
	`, t.Title, string(t.Description.Kind), body, t.Priority, t.Category,
		t.Status, boolInt(t.AdminApproved), models.DatePtrString(t.StartDate), models.DatePtrString(t.DueDate),
		t.AssignedTo, t.ParentTaskID, ts(t.UpdatedAt), t.ID)
	if err != nil {
		return err
	}
	return expectOne(result, "task", t.ID)
}

// SetTaskStatus updates status and approval together
func (q *Queries) SetTaskStatus(ctx context.Context, id int64, status models.Status, approved bool, at time.Time) error {
	result, err := q.q.ExecContext(ctx, `
		UPDATE tasks SET status = ?, admin_approved = ?, updated_at = ? WHERE id = ?
	`, status, boolInt(approved), ts(at), id)
	if err != nil {
		return err
	}
	return expectOne(result, "task", id)
}

// SetParent moves a task into a super task, or out of one when parentID is nil
func (q *Queries) SetParent(ctx context.Context, id int64, parentID *int64, at time.Time) error {
	result, err := q.q.ExecContext(ctx, `
		UPDATE tasks SET parent_task_id = ?, updated_at = ? WHERE id = ?
	`, parentID, ts(at), id)
	if err != nil {
		return err
	}
	return expectOne(result, "task", id)
}

// OrphanChildren detaches every member of a super task and returns how many were moved
func (q *Queries) OrphanChildren(ctx context.Context, parentID int64, at time.Time) (int64, error) {
	result, err := q.q.ExecContext(ctx, `
		UPDATE tasks SET parent_task_id = NULL, updated_at = ? WHERE parent_task_id = ?
	`, ts(at), parentID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// DeleteTask deletes a task and its assignment rows
func (q *Queries) DeleteTask(ctx context.Context, id int64) error {
	if _, err := q.q.ExecContext(ctx, "DELETE FROM task_assignees WHERE task_id = ?", id); err != nil {
		return err
	}
	result, err := q.q.ExecContext(ctx, "DELETE FROM tasks WHERE id = ?", id)
	if err != nil {
		return err
	}
	return expectOne(result, "task", id)
}

// TaskCount returns the number of tasks
func (q *Queries) TaskCount(ctx context.Context) (int, error) {
	var count int
	err := q.q.QueryRowContext(ctx, "SELECT COUNT(*) FROM tasks").Scan(&count)
	return count, err
}

func expectOne(result sql.Result, what string, id int64) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", what, id, ErrNotFound)
	}
	return nil
}
