package notify

import (
	"context"
	"fmt"

	"github.com/tgienger/teamboard/internal/db"
	"github.com/tgienger/teamboard/internal/models"
	"github.com/tgienger/teamboard/internal/tasks"
)

// Store writes one notification row per affected user
type Store struct {
	db *db.DB
}

// NewStore creates a sqlite notification sink
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Emit stores the notifications for a batch of events in one transaction
func (s *Store) Emit(ctx context.Context, events []tasks.Event) error {
	return s.db.WithTx(ctx, func(q *db.Queries) error {
		for _, ev := range events {
			title, message := Compose(ev)
			taskID := ev.Task.ID
			for _, userID := range ev.Affected {
				_, err := q.CreateNotification(ctx, &models.Notification{
					UserID:    userID,
					TaskID:    &taskID,
					Type:      string(ev.Type),
					Title:     title,
					Message:   message,
					Link:      Link(taskID),
					CreatedAt: ev.At,
				})
				if err != nil {
					return fmt.Errorf("store %s notification for user %d: %w", ev.Type, userID, err)
				}
			}
		}
		return nil
	})
}
