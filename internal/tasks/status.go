package tasks

import "github.com/tgienger/teamboard/internal/models"

// DeriveStatus computes a super task's status from its members: completed
// when every member is completed, in_progress when any member has started,
// pending otherwise. An empty container is pending.
func DeriveStatus(members []models.Status) models.Status {
	if len(members) == 0 {
		return models.StatusPending
	}

	completed, started := 0, 0
	for _, s := range members {
		switch s {
		case models.StatusCompleted:
			completed++
			started++
		case models.StatusInProgress:
			started++
		}
	}

	switch {
	case completed == len(members):
		return models.StatusCompleted
	case started > 0:
		return models.StatusInProgress
	}
	return models.StatusPending
}

// progressOf summarises a container's members
func progressOf(children []models.Task) *models.Progress {
	p := &models.Progress{Total: len(children)}
	for _, c := range children {
		switch c.Status {
		case models.StatusCompleted:
			p.Completed++
		case models.StatusInProgress:
			p.InProgress++
		}
	}
	return p
}

func statuses(children []models.Task) []models.Status {
	out := make([]models.Status, len(children))
	for i, c := range children {
		out[i] = c.Status
	}
	return out
}
