package tasks

import (
	"context"
	"strings"

	"github.com/tgienger/teamboard/internal/db"
	"github.com/tgienger/teamboard/internal/models"
)

// avatarPalette is cycled through for users created without a colour
var avatarPalette = []string{"#7aa2f7", "#9ece6a", "#e0af68", "#f7768e", "#bb9af7", "#7dcfff", "#ff9e64"}

// CreateUser adds a team member. Role is free-form.
func (e *Engine) CreateUser(ctx context.Context, name, role, avatarColor string) (*models.User, error) {
	return e.createUser(ctx, "create_user", name, role, avatarColor, false)
}

// BootstrapUser creates the first user of an empty team. The emptiness check
// and the insert share one transaction, so of several concurrent callers only
// one succeeds; the rest get ErrTeamExists.
func (e *Engine) BootstrapUser(ctx context.Context, name, role, avatarColor string) (*models.User, error) {
	return e.createUser(ctx, "bootstrap_user", name, role, avatarColor, true)
}

func (e *Engine) createUser(ctx context.Context, command, name, role, avatarColor string, firstOnly bool) (*models.User, error) {
	name = strings.TrimSpace(name)
	role = strings.TrimSpace(role)
	if name == "" {
		return nil, validation("name_required", "name is required")
	}
	if role == "" {
		return nil, validation("role_required", "role is required")
	}

	var user *models.User
	err := e.run(ctx, command, 0, func(q *db.Queries, _ *eventBuffer) error {
		count, err := q.UserCount(ctx)
		if err != nil {
			return err
		}
		if firstOnly && count > 0 {
			return ErrTeamExists
		}

		color := strings.TrimSpace(avatarColor)
		if color == "" {
			color = avatarPalette[count%len(avatarPalette)]
		}

		user, err = q.CreateUser(ctx, name, role, color, e.timestamp())
		return err
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetUser returns a user by id
func (e *Engine) GetUser(ctx context.Context, id int64) (*models.User, error) {
	u, err := e.db.GetUser(ctx, id)
	if err != nil {
		return nil, classify(err)
	}
	return u, nil
}

// ListUsers returns every user ordered by name
func (e *Engine) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := e.db.ListUsers(ctx)
	if err != nil {
		return nil, classify(err)
	}
	return users, nil
}

// UpdateUserRole changes a user's role. Only admins may do this.
func (e *Engine) UpdateUserRole(ctx context.Context, id, actorID int64, role string) (*models.User, error) {
	role = strings.TrimSpace(role)
	if role == "" {
		return nil, validation("role_required", "role is required")
	}

	var user *models.User
	err := e.run(ctx, "update_user_role", actorID, func(q *db.Queries, _ *eventBuffer) error {
		actor, err := e.getUser(ctx, q, actorID)
		if err != nil {
			return err
		}
		if !e.roles.IsAdmin(actor.Role) {
			return forbidden("admin_required", "changing roles requires an admin")
		}
		if err := q.UpdateUserRole(ctx, id, role); err != nil {
			return err
		}
		user, err = q.GetUser(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}
