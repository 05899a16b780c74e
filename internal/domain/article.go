package domain

import "time"

type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

func (v Visibility) Valid() bool {
	return v == VisibilityPublic || v == VisibilityPrivate
}

// Article is an editorial article. IsNews implies VisibilityPublic.
type Article struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Subtitle    string     `json:"subtitle"`
	Summary     string     `json:"summary"`
	Body        string     `json:"body"`
	Byline      string     `json:"byline"`
	Section     string     `json:"section"`
	Location    string     `json:"location"`
	Tags        []string   `json:"tags"`
	CoverImage  string     `json:"cover_image,omitempty"`
	Visibility  Visibility `json:"visibility"`
	IsNews      bool       `json:"is_news"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedBy   string     `json:"created_by"`
}

func (a Article) EntityID() string           { return a.ID }
func (a Article) EntityUpdatedAt() time.Time { return a.UpdatedAt }

type ArticleInput struct {
	Title       string     `json:"title" binding:"required,min=1,max=200"`
	Subtitle    string     `json:"subtitle"`
	Summary     string     `json:"summary"`
	Body        string     `json:"body"`
	Byline      string     `json:"byline"`
	Section     string     `json:"section"`
	Location    string     `json:"location"`
	Tags        []string   `json:"tags"`
	CoverImage  string     `json:"cover_image"`
	Visibility  Visibility `json:"visibility" binding:"required"`
	IsNews      bool       `json:"is_news"`
	PublishedAt *time.Time `json:"published_at"`
}

type ArticlePatch struct {
	Title       Field[string]     `json:"title"`
	Subtitle    Field[string]     `json:"subtitle"`
	Summary     Field[string]     `json:"summary"`
	Body        Field[string]     `json:"body"`
	Byline      Field[string]     `json:"byline"`
	Section     Field[string]     `json:"section"`
	Location    Field[string]     `json:"location"`
	Tags        Field[[]string]   `json:"tags"`
	CoverImage  Field[string]     `json:"cover_image"`
	Visibility  Field[Visibility] `json:"visibility"`
	IsNews      Field[bool]       `json:"is_news"`
	PublishedAt Field[time.Time]  `json:"published_at"`
}

// NormalizeTags trims, drops empties and de-duplicates tags keeping first
// occurrence order. The result is never nil.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = trimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
