package tasks

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tgienger/teamboard/internal/models"
)

func TestDeriveStatus(t *testing.T) {
	const (
		p = models.StatusPending
		i = models.StatusInProgress
		c = models.StatusCompleted
	)
	tests := []struct {
		name    string
		members []models.Status
		want    models.Status
	}{
		{"empty", nil, p},
		{"all pending", []models.Status{p, p}, p},
		{"one started", []models.Status{p, i}, i},
		{"one completed", []models.Status{c, p}, i},
		{"mixed", []models.Status{c, i, p}, i},
		{"all completed", []models.Status{c, c, c}, c},
		{"single completed", []models.Status{c}, c},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveStatus(tt.members))
		})
	}
}

func TestRecipients(t *testing.T) {
	assert.Equal(t, []int64{2, 3}, recipients(1, []int64{1, 2}, []int64{3, 2, 0}))
	assert.Nil(t, recipients(1, []int64{1}))
	assert.Equal(t, []int64{4}, added([]int64{1, 2}, []int64{2, 4}))
}

func TestErrorMatching(t *testing.T) {
	err := withID(ErrAlreadyGrouped, 7)
	assert.ErrorIs(t, err, ErrAlreadyGrouped)
	assert.NotErrorIs(t, err, ErrNotASuperTask)
	assert.Equal(t, KindInvalidGroup, KindOf(err))
	assert.Contains(t, err.Error(), "task 7")
	assert.Equal(t, KindInternal, KindOf(assert.AnError))
}
