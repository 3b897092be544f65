package tasks

import (
	"context"
	"time"

	"github.com/tgienger/teamboard/internal/models"
)

// EventType names a domain event
type EventType string

const (
	EventTaskCreated    EventType = "task_created"
	EventTaskAssigned   EventType = "task_assigned"
	EventTaskCompleted  EventType = "task_completed"
	EventTaskApproved   EventType = "task_approved"
	EventGroupCompleted EventType = "group_completed"
)

// Event is handed to the Emitter after a mutation commits
type Event struct {
	Type     EventType       `json:"type"`
	Task     models.TaskView `json:"task"`
	ActorID  int64           `json:"actor_id"`
	Affected []int64         `json:"affected_user_ids"`
	At       time.Time       `json:"at"`
}

// Emitter receives committed events. Delivery, deduplication and read state
// are its concern; the engine only logs a failure.
type Emitter interface {
	Emit(ctx context.Context, events []Event) error
}

// EmitterFunc adapts a function to Emitter
type EmitterFunc func(ctx context.Context, events []Event) error

func (f EmitterFunc) Emit(ctx context.Context, events []Event) error { return f(ctx, events) }

// recipients merges id lists in order, dropping duplicates, zero ids and the actor
func recipients(actorID int64, lists ...[]int64) []int64 {
	seen := map[int64]bool{0: true, actorID: true}
	var out []int64
	for _, list := range lists {
		for _, id := range list {
			if seen[id] {
				continue
			}
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// added returns the ids in next that are not in prev
func added(prev, next []int64) []int64 {
	had := make(map[int64]bool, len(prev))
	for _, id := range prev {
		had[id] = true
	}
	var out []int64
	for _, id := range next {
		if !had[id] {
			out = append(out, id)
		}
	}
	return out
}

// eventBuffer collects events inside a transaction; they are emitted only
// after commit. An event is kept even when nobody besides the actor is
// affected; emitters skip an empty Affected list.
type eventBuffer struct {
	actorID int64
	at      time.Time
	events  []Event
}

func (b *eventBuffer) add(typ EventType, view *models.TaskView, affected []int64) {
	b.events = append(b.events, Event{
		Type:     typ,
		Task:     *view,
		ActorID:  b.actorID,
		Affected: affected,
		At:       b.at,
	})
}
