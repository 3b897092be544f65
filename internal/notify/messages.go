// Package notify turns engine events into per-user notifications.
package notify

import (
	"fmt"

	"github.com/tgienger/teamboard/internal/tasks"
)

// Link returns the client route for a task
func Link(taskID int64) string {
	return fmt.Sprintf("/tasks/%d", taskID)
}

func label(ev tasks.Event) string {
	if code := ev.Task.CodeString(); code != "" {
		return fmt.Sprintf("%s %s", code, ev.Task.Title)
	}
	return ev.Task.Title
}

// Compose renders the title and message shown for an event
func Compose(ev tasks.Event) (title, message string) {
	switch ev.Type {
	case tasks.EventTaskCreated:
		return "New task assigned", fmt.Sprintf("You were assigned to %s", label(ev))
	case tasks.EventTaskAssigned:
		return "Task assigned", fmt.Sprintf("You were added to %s", label(ev))
	case tasks.EventTaskCompleted:
		if ev.Task.AdminApproved {
			return "Task completed", fmt.Sprintf("%s was completed and approved", label(ev))
		}
		return "Task awaiting approval", fmt.Sprintf("%s was marked completed and needs approval", label(ev))
	case tasks.EventTaskApproved:
		return "Task approved", fmt.Sprintf("%s was approved", label(ev))
	case tasks.EventGroupCompleted:
		return "Super task completed", fmt.Sprintf("Every task in %s is completed", label(ev))
	}
	return "Task updated", label(ev)
}
