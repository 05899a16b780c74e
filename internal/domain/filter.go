package domain

import "strings"

// FilterCriteria narrows a task collection. Nil or empty sets do not
// constrain; families combine with AND, values within a family with OR.
type FilterCriteria struct {
	Statuses    []TaskStatus   `json:"status,omitempty"`
	Priorities  []TaskPriority `json:"priority,omitempty"`
	AssigneeIDs []string       `json:"assignee,omitempty"`
	Query       string         `json:"q,omitempty"`
}

// IsEmpty reports whether the criteria keep every item.
func (c FilterCriteria) IsEmpty() bool {
	return len(c.Statuses) == 0 && len(c.Priorities) == 0 &&
		len(c.AssigneeIDs) == 0 && strings.TrimSpace(c.Query) == ""
}

func trimSpace(s string) string { return strings.TrimSpace(s) }
