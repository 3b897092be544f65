package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	cutoff time.Time
	n      int64
	err    error
}

func (f *fakeStore) DeleteReadNotificationsBefore(_ context.Context, cutoff time.Time) (int64, error) {
	f.cutoff = cutoff
	return f.n, f.err
}

func TestCleanupNotifications(t *testing.T) {
	store := &fakeStore{n: 4}
	s, err := NewScheduler(store, time.UTC, 30, nil)
	require.NoError(t, err)
	now := time.Date(2026, time.October, 19, 3, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	n, err := s.CleanupNotifications(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
	assert.Equal(t, now.AddDate(0, 0, -30), store.cutoff)

	store.err = errors.New("locked")
	_, err = s.CleanupNotifications(context.Background())
	assert.Error(t, err)
}

func TestNewSchedulerRejectsRetention(t *testing.T) {
	_, err := NewScheduler(&fakeStore{}, nil, 0, nil)
	assert.Error(t, err)
}

func TestStartStop(t *testing.T) {
	s, err := NewScheduler(&fakeStore{}, time.UTC, 7, nil)
	require.NoError(t, err)
	require.NoError(t, s.Start())
	assert.NoError(t, s.Stop())
}
