package db

import (
	"context"
	"database/sql"
	"time"

	"github.com/tgienger/teamboard/internal/models"
)

// CreateUser creates a new user
func (q *Queries) CreateUser(ctx context.Context, name, role, avatarColor string, at time.Time) (*models.User, error) {
	result, err := q.q.ExecContext(ctx, `
		INSERT INTO users (name, role, avatar_color, created_at) VALUES (?, ?, ?, ?)
	`, name, role, avatarColor, ts(at))
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return q.GetUser(ctx, id)
}

// GetUser retrieves a user by ID
func (q *Queries) GetUser(ctx context.Context, id int64) (*models.User, error) {
	u := &models.User{}
	err := q.q.QueryRowContext(ctx, `
		SELECT id, name, role, avatar_color, created_at
		FROM users WHERE id = ?
	`, id).Scan(&u.ID, &u.Name, &u.Role, &u.AvatarColor, &u.CreatedAt)
	if err != nil {
		return nil, notFound(err, "user", id)
	}
	return u, nil
}

// ListUsers returns all users ordered by name
func (q *Queries) ListUsers(ctx context.Context) ([]models.User, error) {
	rows, err := q.q.QueryContext(ctx, `
		SELECT id, name, role, avatar_color, created_at
		FROM users ORDER BY name, id
	`)
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

// UpdateUserRole changes a user's role
func (q *Queries) UpdateUserRole(ctx context.Context, id int64, role string) error {
	result, err := q.q.ExecContext(ctx, "UPDATE users SET role = ? WHERE id = ?", role, id)
	if err != nil {
		return err
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return notFound(sql.ErrNoRows, "user", id)
	}
	return nil
}

// UserCount returns the number of users
func (q *Queries) UserCount(ctx context.Context) (int, error) {
	var count int
	err := q.q.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count)
	return count, err
}
