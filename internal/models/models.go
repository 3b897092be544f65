package models

import "time"

// Priority of a task
type Priority string

const (
	PriorityUrgent Priority = "urgent"
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Valid reports whether p is one of the known priorities
func (p Priority) Valid() bool {
	switch p {
	case PriorityUrgent, PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// Category of work a task belongs to
type Category string

const (
	CategoryDesign   Category = "design"
	CategoryContent  Category = "content"
	CategoryVideo    Category = "video"
	CategoryCampaign Category = "campaign"
	CategorySocial   Category = "social"
	CategoryOther    Category = "other"
)

// Valid reports whether c is one of the known categories
func (c Category) Valid() bool {
	switch c {
	case CategoryDesign, CategoryContent, CategoryVideo, CategoryCampaign, CategorySocial, CategoryOther:
		return true
	}
	return false
}

// Status of a task. Super task status is derived from its children.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// Valid reports whether s is one of the known statuses
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// User is a team member. Role is free-form; capabilities are looked up by role name.
type User struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Role        string    `json:"role"`
	AvatarColor string    `json:"avatar_color"`
	CreatedAt   time.Time `json:"created_at"`
}

// Task is a unit of work, either a leaf or a super task container
type Task struct {
	ID            int64       `json:"id"`
	Code          *string     `json:"code"` // nil for tasks created before codes existed
	Title         string      `json:"title"`
	Description   Description `json:"description"`
	Priority      Priority    `json:"priority"`
	Category      Category    `json:"category"`
	Status        Status      `json:"status"`
	AdminApproved bool        `json:"admin_approved"`
	StartDate     *Date       `json:"start_date"`
	DueDate       *Date       `json:"due_date"`
	AssignedTo    *int64      `json:"assigned_to"` // legacy primary assignee
	CreatedBy     int64       `json:"created_by"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
	ParentTaskID  *int64      `json:"parent_task_id"`
	IsSuperTask   bool        `json:"is_super_task"`
}

// CodeString returns the identity code or an empty string
func (t *Task) CodeString() string {
	if t.Code == nil {
		return ""
	}
	return *t.Code
}

// TaskView is the snapshot handed to the presentation layer and the notification emitter
type TaskView struct {
	Task
	Assignees []User    `json:"assignees"` // primary assignee first
	Children  []Task    `json:"children,omitempty"`
	Progress  *Progress `json:"progress,omitempty"` // containers only
}

// Progress summarises a container's members
type Progress struct {
	Total      int `json:"total"`
	Completed  int `json:"completed"`
	InProgress int `json:"in_progress"`
}

// AssigneeIDs returns the ids of the resolved assignees, primary first
func (v *TaskView) AssigneeIDs() []int64 {
	ids := make([]int64, 0, len(v.Assignees))
	for _, u := range v.Assignees {
		ids = append(ids, u.ID)
	}
	return ids
}

// Notification is a message for a single user about activity on a task
type Notification struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	TaskID    *int64    `json:"task_id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Link      string    `json:"link"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}
