package dto

import (
	"strings"
	"time"

	dom "taskflow/internal/domain"
)

type CreateArticleRequest struct {
	Title       string         `json:"title" binding:"required,min=1,max=200"`
	Subtitle    string         `json:"subtitle" binding:"max=300"`
	Summary     string         `json:"summary" binding:"max=1000"`
	Body        string         `json:"body"`
	Byline      string         `json:"byline" binding:"max=200"`
	Section     string         `json:"section" binding:"max=100"`
	Location    string         `json:"location" binding:"max=200"`
	Tags        []string       `json:"tags" binding:"max=20"`
	CoverImage  string         `json:"cover_image" binding:"omitempty,url"`
	Visibility  dom.Visibility `json:"visibility" binding:"omitempty,oneof=public private"`
	IsNews      bool           `json:"is_news"`
	PublishedAt *time.Time     `json:"published_at"`
}

// Input defaults visibility to private, as the article dialog does.
func (r CreateArticleRequest) Input() dom.ArticleInput {
	in := dom.ArticleInput{
		Title:       strings.TrimSpace(r.Title),
		Subtitle:    r.Subtitle,
		Summary:     r.Summary,
		Body:        r.Body,
		Byline:      r.Byline,
		Section:     r.Section,
		Location:    r.Location,
		Tags:        r.Tags,
		CoverImage:  r.CoverImage,
		Visibility:  r.Visibility,
		IsNews:      r.IsNews,
		PublishedAt: r.PublishedAt,
	}
	if in.Visibility == "" {
		in.Visibility = dom.VisibilityPrivate
	}
	return in
}

type ListArticlesResponse struct {
	Query string        `json:"q,omitempty"`
	Total int           `json:"total"`
	Items []dom.Article `json:"items"`
}
