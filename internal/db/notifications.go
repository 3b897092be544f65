package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/tgienger/teamboard/internal/models"
)

// CreateNotification stores a notification for one user
func (q *Queries) CreateNotification(ctx context.Context, n *models.Notification) (int64, error) {
	result, err := q.q.ExecContext(ctx, `
		INSERT INTO notifications (user_id, task_id, type, title, message, link, is_read, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, n.UserID, n.TaskID, n.Type, n.Title, n.Message, n.Link, boolInt(n.Read), ts(n.CreatedAt))
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// ListNotifications returns a user's notifications, newest first
func (q *Queries) ListNotifications(ctx context.Context, userID int64, unreadOnly bool, limit int) ([]models.Notification, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, user_id, task_id, type, title, message, link, is_read, created_at
		FROM notifications
		WHERE user_id = ?`
	if unreadOnly {
		query += " AND is_read = 0"
	}
	query += " ORDER BY created_at DESC, id DESC LIMIT ?"

	rows, err := q.q.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []models.Notification
	for rows.Next() {
		var (
			n    models.Notification
			read int
		)
		if err := rows.Scan(&n.ID, &n.UserID, &n.TaskID, &n.Type, &n.Title, &n.Message, &n.Link, &read, &n.CreatedAt); err != nil {
			return nil, err
		}
		n.Read = read == 1
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

// MarkNotificationRead flags a notification as read. It only matches rows
// owned by userID.
func (q *Queries) MarkNotificationRead(ctx context.Context, id, userID int64) error {
	result, err := q.q.ExecContext(ctx, `
		UPDATE notifications SET is_read = 1 WHERE id = ? AND user_id = ?
	`, id, userID)
	if err != nil {
		return err
	}
	return expectOne(result, "notification", id)
}

// UnreadCount returns the number of unread notifications for a user
func (q *Queries) UnreadCount(ctx context.Context, userID int64) (int, error) {
	var count int
	err := q.q.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM notifications WHERE user_id = ? AND is_read = 0
	`, userID).Scan(&count)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	return count, err
}

// DeleteReadNotificationsBefore purges read notifications created before cutoff
func (q *Queries) DeleteReadNotificationsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := q.q.ExecContext(ctx, `
		DELETE FROM notifications WHERE is_read = 1 AND created_at < ?
	`, ts(cutoff))
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
