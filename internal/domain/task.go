package domain

import "time"

type TaskStatus string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in_progress"
	StatusInReview   TaskStatus = "in_review"
	StatusDone       TaskStatus = "done"
)

// TaskStatuses lists every status in board column order.
var TaskStatuses = []TaskStatus{StatusTodo, StatusInProgress, StatusInReview, StatusDone}

func (s TaskStatus) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusInReview, StatusDone:
		return true
	}
	return false
}

type TaskPriority string

const (
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
	PriorityUrgent TaskPriority = "urgent"
)

func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Assignee references the team member a task is assigned to.
type Assignee struct {
	ID     string `json:"id"`
	Name   string `json:"name,omitempty"`
	Avatar string `json:"avatar,omitempty"`
}

// Task is a work item. Status and Priority are always one of the enumerated
// values and UpdatedAt is never before CreatedAt.
type Task struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	Assignee    *Assignee    `json:"assignee,omitempty"`
	DueAt       *time.Time   `json:"due_at,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	CreatedBy   string       `json:"created_by"`
}

func (t Task) EntityID() string           { return t.ID }
func (t Task) EntityUpdatedAt() time.Time { return t.UpdatedAt }

// TaskInput holds the caller-supplied fields of a new task.
type TaskInput struct {
	Title       string       `json:"title" binding:"required,min=1,max=120"`
	Description string       `json:"description" binding:"max=1000"`
	Status      TaskStatus   `json:"status" binding:"required"`
	Priority    TaskPriority `json:"priority" binding:"required"`
	Assignee    *Assignee    `json:"assignee"`
	DueAt       *time.Time   `json:"due_at"`
}

// TaskPatch carries only the fields an update writes. Absent fields are left
// untouched, null fields are cleared.
type TaskPatch struct {
	Title       Field[string]       `json:"title"`
	Description Field[string]       `json:"description"`
	Status      Field[TaskStatus]   `json:"status"`
	Priority    Field[TaskPriority] `json:"priority"`
	Assignee    Field[Assignee]     `json:"assignee"`
	DueAt       Field[time.Time]    `json:"due_at"`
}

// Empty reports whether the patch writes nothing.
func (p TaskPatch) Empty() bool {
	return !p.Title.IsSet() && !p.Description.IsSet() && !p.Status.IsSet() &&
		!p.Priority.IsSet() && !p.Assignee.IsSet() && !p.DueAt.IsSet()
}
