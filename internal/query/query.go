// Package query evaluates filter criteria and free-text search against
// in-memory collections. Every function is pure and order preserving.
package query

import (
	"slices"
	"strings"

	dom "taskflow/internal/domain"
)

// Tasks returns the items matching c, in source order. Families combine with
// AND; values inside a family combine with OR.
func Tasks(items []dom.Task, c dom.FilterCriteria) []dom.Task {
	needle := normalizeQuery(c.Query)
	out := make([]dom.Task, 0, len(items))
	for _, t := range items {
		if len(c.Statuses) > 0 && !slices.Contains(c.Statuses, t.Status) {
			continue
		}
		if len(c.Priorities) > 0 && !slices.Contains(c.Priorities, t.Priority) {
			continue
		}
		if len(c.AssigneeIDs) > 0 && (t.Assignee == nil || !slices.Contains(c.AssigneeIDs, t.Assignee.ID)) {
			continue
		}
		if needle != "" && !containsFold(needle, t.Title, t.Description) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Articles returns the articles whose title, subtitle, summary or body
// contain q, ignoring case. A blank q keeps everything.
func Articles(items []dom.Article, q string) []dom.Article {
	needle := normalizeQuery(q)
	out := make([]dom.Article, 0, len(items))
	for _, a := range items {
		if needle != "" && !containsFold(needle, a.Title, a.Subtitle, a.Summary, a.Body) {
			continue
		}
		out = append(out, a)
	}
	return out
}

// normalizeQuery lowercases q for matching. Surrounding spaces are part of
// the search; only an all-blank q means no filter.
func normalizeQuery(q string) string {
	if strings.TrimSpace(q) == "" {
		return ""
	}
	return strings.ToLower(q)
}

func containsFold(needle string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}
