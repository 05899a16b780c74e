package store

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	dom "taskflow/internal/domain"
	"taskflow/internal/remote"

	"github.com/go-playground/validator/v10"
)

// timeLayout is fixed width so encoded timestamps sort lexicographically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

var validate = validator.New()

func formatTime(t time.Time) string { return t.UTC().Format(timeLayout) }

func parseTime(field, s string) (time.Time, error) {
	for _, layout := range []string{timeLayout, time.RFC3339Nano} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %s: bad timestamp %q", ErrValidation, field, s)
}

func parseOptionalTime(field string, s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := parseTime(field, *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// decodeRecord checks required keys, decodes rec into dst and runs struct
// validation on it.
func decodeRecord(rec remote.Record, dst any, required ...string) error {
	var missing []string
	for _, k := range required {
		if v, ok := rec[k]; !ok || v == nil {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: record %q missing %s", ErrValidation, rec.ID(), strings.Join(missing, ", "))
	}
	b, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return fmt.Errorf("%w: record %q: %v", ErrValidation, rec.ID(), err)
	}
	if err := validate.Struct(dst); err != nil {
		return fmt.Errorf("%w: record %q: %v", ErrValidation, rec.ID(), err)
	}
	return nil
}

func checkOrdered(id string, created, updated time.Time) error {
	if updated.Before(created) {
		return fmt.Errorf("%w: record %q updated before it was created", ErrValidation, id)
	}
	return nil
}

type taskRecord struct {
	ID             string  `json:"id" validate:"required"`
	Title          string  `json:"title" validate:"required"`
	Description    string  `json:"description"`
	Status         string  `json:"status" validate:"required,oneof=todo in_progress in_review done"`
	Priority       string  `json:"priority" validate:"required,oneof=low medium high urgent"`
	AssigneeID     *string `json:"assigneeId"`
	AssigneeName   *string `json:"assigneeName"`
	AssigneeAvatar *string `json:"assigneeAvatar"`
	DueDate        *string `json:"dueDate"`
	CreatedAt      string  `json:"createdAt" validate:"required"`
	UpdatedAt      string  `json:"updatedAt" validate:"required"`
	CreatedBy      string  `json:"createdBy" validate:"required"`
}

func decodeTask(rec remote.Record) (dom.Task, error) {
	var r taskRecord
	if err := decodeRecord(rec, &r, "id", "title", "status", "priority", "createdAt", "updatedAt", "createdBy"); err != nil {
		return dom.Task{}, err
	}
	created, err := parseTime("createdAt", r.CreatedAt)
	if err != nil {
		return dom.Task{}, err
	}
	updated, err := parseTime("updatedAt", r.UpdatedAt)
	if err != nil {
		return dom.Task{}, err
	}
	if err := checkOrdered(r.ID, created, updated); err != nil {
		return dom.Task{}, err
	}
	due, err := parseOptionalTime("dueDate", r.DueDate)
	if err != nil {
		return dom.Task{}, err
	}
	t := dom.Task{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Status:      dom.TaskStatus(r.Status),
		Priority:    dom.TaskPriority(r.Priority),
		DueAt:       due,
		CreatedAt:   created,
		UpdatedAt:   updated,
		CreatedBy:   r.CreatedBy,
	}
	if r.AssigneeID != nil && *r.AssigneeID != "" {
		a := &dom.Assignee{ID: *r.AssigneeID}
		if r.AssigneeName != nil {
			a.Name = *r.AssigneeName
		}
		if r.AssigneeAvatar != nil {
			a.Avatar = *r.AssigneeAvatar
		}
		t.Assignee = a
	}
	return t, nil
}

func encodeTaskInput(in dom.TaskInput, creatorID string, now time.Time) remote.Record {
	rec := remote.Record{
		"title":       strings.TrimSpace(in.Title),
		"description": strings.TrimSpace(in.Description),
		"status":      string(in.Status),
		"priority":    string(in.Priority),
		"createdAt":   formatTime(now),
		"updatedAt":   formatTime(now),
		"createdBy":   creatorID,
	}
	if in.Assignee != nil && in.Assignee.ID != "" {
		rec["assigneeId"] = in.Assignee.ID
		rec["assigneeName"] = in.Assignee.Name
		rec["assigneeAvatar"] = in.Assignee.Avatar
	}
	if in.DueAt != nil {
		rec["dueDate"] = formatTime(*in.DueAt)
	}
	return rec
}

func encodeTaskPatch(p dom.TaskPatch, now time.Time) remote.Record {
	rec := remote.Record{"updatedAt": formatTime(now)}
	putString(rec, "title", p.Title)
	putString(rec, "description", p.Description)
	if p.Status.IsSet() {
		v, ok := p.Status.Value()
		rec["status"] = nullable(string(v), ok)
	}
	if p.Priority.IsSet() {
		v, ok := p.Priority.Value()
		rec["priority"] = nullable(string(v), ok)
	}
	if p.Assignee.IsSet() {
		a, ok := p.Assignee.Value()
		if !ok || a.ID == "" {
			rec["assigneeId"], rec["assigneeName"], rec["assigneeAvatar"] = nil, nil, nil
		} else {
			rec["assigneeId"], rec["assigneeName"], rec["assigneeAvatar"] = a.ID, a.Name, a.Avatar
		}
	}
	putTime(rec, "dueDate", p.DueAt)
	return rec
}

type articleRecord struct {
	ID            string   `json:"id" validate:"required"`
	Title         string   `json:"title" validate:"required"`
	Subtitle      string   `json:"subtitle"`
	Summary       string   `json:"summary"`
	Content       string   `json:"content"`
	AuthorName    string   `json:"authorName"`
	Section       string   `json:"section"`
	Location      string   `json:"location"`
	Tags          []string `json:"tags"`
	CoverImageURL *string  `json:"coverImageUrl"`
	Visibility    string   `json:"visibility" validate:"required,oneof=public private"`
	IsNews        bool     `json:"isNews"`
	CreatedAt     string   `json:"createdAt" validate:"required"`
	UpdatedAt     string   `json:"updatedAt" validate:"required"`
	PublishedAt   *string  `json:"publishedAt"`
	CreatedBy     string   `json:"createdBy" validate:"required"`
}

func decodeArticle(rec remote.Record) (dom.Article, error) {
	var r articleRecord
	if err := decodeRecord(rec, &r, "id", "title", "visibility", "isNews", "createdAt", "updatedAt", "createdBy"); err != nil {
		return dom.Article{}, err
	}
	if r.IsNews && r.Visibility != string(dom.VisibilityPublic) {
		return dom.Article{}, fmt.Errorf("%w: article %q is news but not public", ErrValidation, r.ID)
	}
	created, err := parseTime("createdAt", r.CreatedAt)
	if err != nil {
		return dom.Article{}, err
	}
	updated, err := parseTime("updatedAt", r.UpdatedAt)
	if err != nil {
		return dom.Article{}, err
	}
	if err := checkOrdered(r.ID, created, updated); err != nil {
		return dom.Article{}, err
	}
	published, err := parseOptionalTime("publishedAt", r.PublishedAt)
	if err != nil {
		return dom.Article{}, err
	}
	a := dom.Article{
		ID:          r.ID,
		Title:       r.Title,
		Subtitle:    r.Subtitle,
		Summary:     r.Summary,
		Body:        r.Content,
		Byline:      r.AuthorName,
		Section:     r.Section,
		Location:    r.Location,
		Tags:        dom.NormalizeTags(r.Tags),
		Visibility:  dom.Visibility(r.Visibility),
		IsNews:      r.IsNews,
		CreatedAt:   created,
		UpdatedAt:   updated,
		PublishedAt: published,
		CreatedBy:   r.CreatedBy,
	}
	if r.CoverImageURL != nil {
		a.CoverImage = *r.CoverImageURL
	}
	return a, nil
}

func encodeArticleInput(in dom.ArticleInput, creatorID string, now time.Time) remote.Record {
	rec := remote.Record{
		"title":      strings.TrimSpace(in.Title),
		"subtitle":   in.Subtitle,
		"summary":    in.Summary,
		"content":    in.Body,
		"authorName": in.Byline,
		"section":    in.Section,
		"location":   in.Location,
		"tags":       dom.NormalizeTags(in.Tags),
		"visibility": string(in.Visibility),
		"isNews":     in.IsNews,
		"createdAt":  formatTime(now),
		"updatedAt":  formatTime(now),
		"createdBy":  creatorID,
	}
	if in.CoverImage != "" {
		rec["coverImageUrl"] = in.CoverImage
	}
	switch {
	case in.PublishedAt != nil:
		rec["publishedAt"] = formatTime(*in.PublishedAt)
	case in.Visibility == dom.VisibilityPublic:
		rec["publishedAt"] = formatTime(now)
	default:
		rec["publishedAt"] = nil
	}
	return rec
}

func encodeArticlePatch(p dom.ArticlePatch, now time.Time) remote.Record {
	rec := remote.Record{"updatedAt": formatTime(now)}
	putString(rec, "title", p.Title)
	putString(rec, "subtitle", p.Subtitle)
	putString(rec, "summary", p.Summary)
	putString(rec, "content", p.Body)
	putString(rec, "authorName", p.Byline)
	putString(rec, "section", p.Section)
	putString(rec, "location", p.Location)
	putString(rec, "coverImageUrl", p.CoverImage)
	if p.Tags.IsSet() {
		tags, ok := p.Tags.Value()
		rec["tags"] = nullable(dom.NormalizeTags(tags), ok)
	}
	if p.Visibility.IsSet() {
		v, ok := p.Visibility.Value()
		rec["visibility"] = nullable(string(v), ok)
	}
	if p.IsNews.IsSet() {
		v, ok := p.IsNews.Value()
		rec["isNews"] = nullable(v, ok)
	}
	putTime(rec, "publishedAt", p.PublishedAt)
	return rec
}

func nullable[T any](v T, ok bool) any {
	if !ok {
		return nil
	}
	return v
}

func putString(rec remote.Record, key string, f dom.Field[string]) {
	if !f.IsSet() {
		return
	}
	v, ok := f.Value()
	rec[key] = nullable(v, ok)
}

func putTime(rec remote.Record, key string, f dom.Field[time.Time]) {
	if !f.IsSet() {
		return
	}
	v, ok := f.Value()
	if !ok {
		rec[key] = nil
		return
	}
	rec[key] = formatTime(v)
}

// checkTaskInput rejects enum values the remote side must never see.
func checkTaskInput(in dom.TaskInput) error {
	if strings.TrimSpace(in.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if !in.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrValidation, in.Status)
	}
	if !in.Priority.Valid() {
		return fmt.Errorf("%w: unknown priority %q", ErrValidation, in.Priority)
	}
	return nil
}

// checkTaskPatch rejects patches that would leave the stored task invalid:
// required fields may be changed but never cleared.
func checkTaskPatch(p dom.TaskPatch) error {
	if err := requiredString("title", p.Title); err != nil {
		return err
	}
	if p.Status.IsNull() {
		return fmt.Errorf("%w: status cannot be cleared", ErrValidation)
	}
	if v, ok := p.Status.Value(); ok && !v.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrValidation, v)
	}
	if p.Priority.IsNull() {
		return fmt.Errorf("%w: priority cannot be cleared", ErrValidation)
	}
	if v, ok := p.Priority.Value(); ok && !v.Valid() {
		return fmt.Errorf("%w: unknown priority %q", ErrValidation, v)
	}
	return nil
}

func checkArticleInput(in dom.ArticleInput) error {
	if strings.TrimSpace(in.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if !in.Visibility.Valid() {
		return fmt.Errorf("%w: unknown visibility %q", ErrValidation, in.Visibility)
	}
	return nil
}

func checkArticlePatch(p dom.ArticlePatch) error {
	if err := requiredString("title", p.Title); err != nil {
		return err
	}
	if p.Visibility.IsNull() {
		return fmt.Errorf("%w: visibility cannot be cleared", ErrValidation)
	}
	v, hasVisibility := p.Visibility.Value()
	if hasVisibility && !v.Valid() {
		return fmt.Errorf("%w: unknown visibility %q", ErrValidation, v)
	}
	if p.IsNews.IsNull() {
		return fmt.Errorf("%w: isNews cannot be cleared", ErrValidation)
	}
	if isNews, ok := p.IsNews.Value(); ok && isNews && hasVisibility && v != dom.VisibilityPublic {
		return fmt.Errorf("%w: news must be public", ErrValidation)
	}
	return nil
}

func requiredString(field string, f dom.Field[string]) error {
	if !f.IsSet() {
		return nil
	}
	if v, ok := f.Value(); !ok || strings.TrimSpace(v) == "" {
		return fmt.Errorf("%w: %s cannot be empty", ErrValidation, field)
	}
	return nil
}
