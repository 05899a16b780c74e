package dto

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	dom "taskflow/internal/domain"
	"taskflow/internal/view"
)

// DueAt parses due_at from JSON as either date-only ("2006-01-02") or RFC3339.
// Date-only is stored as start of that day in UTC.
type DueAt struct{ t *time.Time }

func (d *DueAt) UnmarshalJSON(data []byte) error {
	var raw *string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil || strings.TrimSpace(*raw) == "" {
		d.t = nil
		return nil
	}
	s := strings.TrimSpace(*raw)
	layouts := []string{
		"2006-01-02",
		time.RFC3339,
		time.RFC3339Nano,
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		parsed, err := time.Parse(layout, s)
		if err == nil {
			parsed = parsed.UTC()
			d.t = &parsed
			return nil
		}
	}
	return fmt.Errorf("due_at: use date (YYYY-MM-DD) or RFC3339 datetime")
}

// Ptr returns *time.Time for use in service/domain.
func (d DueAt) Ptr() *time.Time { return d.t }

type CreateTaskRequest struct {
	Title       string           `json:"title" binding:"required,min=1,max=120"`
	Description string           `json:"description" binding:"max=1000"`
	Status      dom.TaskStatus   `json:"status" binding:"omitempty,oneof=todo in_progress in_review done"`
	Priority    dom.TaskPriority `json:"priority" binding:"omitempty,oneof=low medium high urgent"`
	Assignee    *dom.Assignee    `json:"assignee"`
	DueAt       DueAt            `json:"due_at"` // optional: "2026-02-19" or RFC3339
}

// Input fills the defaults of the create dialog: todo, medium.
func (r CreateTaskRequest) Input() dom.TaskInput {
	in := dom.TaskInput{
		Title:       strings.TrimSpace(r.Title),
		Description: r.Description,
		Status:      r.Status,
		Priority:    r.Priority,
		Assignee:    r.Assignee,
		DueAt:       r.DueAt.Ptr(),
	}
	if in.Status == "" {
		in.Status = dom.StatusTodo
	}
	if in.Priority == "" {
		in.Priority = dom.PriorityMedium
	}
	return in
}

// UpdateTaskRequest is a partial update. Absent keys are left alone and
// null clears assignee or due_at.
type UpdateTaskRequest struct {
	Title       dom.Field[string]           `json:"title"`
	Description dom.Field[string]           `json:"description"`
	Status      dom.Field[dom.TaskStatus]   `json:"status"`
	Priority    dom.Field[dom.TaskPriority] `json:"priority"`
	Assignee    dom.Field[dom.Assignee]     `json:"assignee"`
	DueAt       dom.Field[DueAt]            `json:"due_at"`
}

func (r UpdateTaskRequest) Patch() dom.TaskPatch {
	p := dom.TaskPatch{
		Title:       r.Title,
		Description: r.Description,
		Status:      r.Status,
		Priority:    r.Priority,
		Assignee:    r.Assignee,
	}
	if r.DueAt.IsSet() {
		if d, ok := r.DueAt.Value(); ok && d.Ptr() != nil {
			p.DueAt = dom.Set(*d.Ptr())
		} else {
			p.DueAt = dom.Null[time.Time]()
		}
	}
	return p
}

type StatusRequest struct {
	Status dom.TaskStatus `json:"status" binding:"required,oneof=todo in_progress in_review done"`
}

type BulkStatusRequest struct {
	IDs    []string       `json:"ids" binding:"required,min=1,dive,required"`
	Status dom.TaskStatus `json:"status" binding:"required,oneof=todo in_progress in_review done"`
}

type BulkStatusResponse struct {
	Updated int    `json:"updated"`
	Error   string `json:"error,omitempty"`
}

type ListTasksResponse struct {
	View    string             `json:"view"`
	Filters dom.FilterCriteria `json:"filters"`
	Total   int                `json:"total"`
	Items   []dom.Task         `json:"items"`
	Columns []view.Column      `json:"columns,omitempty"`
}
