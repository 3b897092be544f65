package db

import (
	"context"
	"time"

	"github.com/tgienger/teamboard/internal/models"
)

// ReplaceAssignees swaps the assignee set of a task for userIDs, keeping their
// order. Run it inside WithTx so a failed insert leaves the old set in place.
func (q *Queries) ReplaceAssignees(ctx context.Context, taskID int64, userIDs []int64, at time.Time) error {
	if _, err := q.q.ExecContext(ctx, "DELETE FROM task_assignees WHERE task_id = ?", taskID); err != nil {
		return err
	}

	for pos, userID := range userIDs {
		_, err := q.q.ExecContext(ctx, `
			INSERT INTO task_assignees (task_id, user_id, position, created_at) VALUES (?, ?, ?, ?)
		`, taskID, userID, pos, ts(at))
		if err != nil {
			return err
		}
	}
	return nil
}

// ListAssignees returns the users assigned to a task, primary assignee first
func (q *Queries) ListAssignees(ctx context.Context, taskID int64) ([]models.User, error) {
	rows, err := q.q.QueryContext(ctx, `
		SELECT u.id, u.name, u.role, u.avatar_color, u.created_at
		FROM users u
		JOIN task_assignees ta ON u.id = ta.user_id
		WHERE ta.task_id = ?
		ORDER BY ta.position, u.id
	`, taskID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Role, &u.AvatarColor, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// AssigneeCount returns how many users are assigned to a task
func (q *Queries) AssigneeCount(ctx context.Context, taskID int64) (int, error) {
	var count int
	err := q.q.QueryRowContext(ctx, "SELECT COUNT(*) FROM task_assignees WHERE task_id = ?", taskID).Scan(&count)
	return count, err
}
