// Package jobs runs periodic maintenance for the service.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/tgienger/teamboard/internal/db"
)

// NotificationStore is the storage used by the cleanup job
type NotificationStore interface {
	DeleteReadNotificationsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Scheduler owns the background jobs
type Scheduler struct {
	scheduler gocron.Scheduler
	store     NotificationStore
	retention time.Duration
	logger    *slog.Logger
	now       func() time.Time
}

// NewScheduler creates the scheduler. Read notifications older than
// retentionDays are purged once a day at 03:00 in loc.
func NewScheduler(store NotificationStore, loc *time.Location, retentionDays int, logger *slog.Logger) (*Scheduler, error) {
	if loc == nil {
		loc = time.UTC
	}
	if retentionDays <= 0 {
		return nil, fmt.Errorf("notification retention must be positive, got %d days", retentionDays)
	}
	if logger == nil {
		logger = slog.Default()
	}

	scheduler, err := gocron.NewScheduler(gocron.WithLocation(loc))
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	return &Scheduler{
		scheduler: scheduler,
		store:     store,
		retention: time.Duration(retentionDays) * 24 * time.Hour,
		logger:    logger.With("component", "jobs"),
		now:       time.Now,
	}, nil
}

// Start registers the jobs and starts the scheduler
func (s *Scheduler) Start() error {
	_, err := s.scheduler.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(3, 0, 0))),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			if _, err := s.CleanupNotifications(ctx); err != nil {
				s.logger.Error("notification cleanup failed", "error", err)
			}
		}),
		gocron.WithName("notification_cleanup"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("failed to register notification cleanup: %w", err)
	}

	s.scheduler.Start()
	s.logger.Info("scheduler started", "retention", s.retention)
	return nil
}

// Stop shuts the scheduler down and waits for running jobs
func (s *Scheduler) Stop() error {
	return s.scheduler.Shutdown()
}

// CleanupNotifications deletes read notifications past the retention window
func (s *Scheduler) CleanupNotifications(ctx context.Context) (int64, error) {
	cutoff := s.now().Add(-s.retention)
	n, err := s.store.DeleteReadNotificationsBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete read notifications: %w", err)
	}
	if n > 0 {
		s.logger.Info("purged read notifications", "count", n, "cutoff", cutoff.Format(time.RFC3339))
	}
	return n, nil
}

var _ NotificationStore = (*db.DB)(nil)
