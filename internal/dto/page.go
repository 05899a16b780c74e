package dto

import (
	dom "taskflow/internal/domain"
	"taskflow/internal/navigation"
	"taskflow/internal/session"
)

// NavigateRequest names either a page or a path.
type NavigateRequest struct {
	Page dom.Page `json:"page" binding:"omitempty,oneof=tasks articles news profile"`
	Path string   `json:"path" binding:"omitempty,max=2048"`
}

type OpenFormRequest struct {
	EditingID string `json:"editing_id"`
}

// PageResponse is the full state of a page: who is signed in, where the
// browser is and what the page shows. Data is nil while signed out.
type PageResponse struct {
	Session    session.Snapshot `json:"session"`
	Navigation navigation.State `json:"navigation"`
	Data       any              `json:"data,omitempty"`
}

type ProfileResponse struct {
	User         dom.User `json:"user"`
	TaskCount    int      `json:"task_count"`
	ArticleCount int      `json:"article_count"`
}

type JobRequest struct {
	Type string `json:"type" binding:"required,max=64"`
}

type JobResponse struct {
	ID string `json:"id"`
}
