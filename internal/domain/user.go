package domain

import "time"

type Role string

const (
	RoleOwner  Role = "owner"
	RoleEditor Role = "editor"
	RoleMember Role = "member"
)

// User is the normalized identity of the signed-in account.
type User struct {
	ID        string `json:"id"`
	Login     string `json:"login"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
	IsOwner   bool   `json:"is_owner"`
	Role      Role   `json:"role"`
}

// CanTagNews reports whether the user may flag articles for the news feed.
func (u User) CanTagNews() bool {
	return u.Role == RoleOwner || u.Role == RoleEditor
}

// Account is the persisted identity record behind a session. Metadata holds
// provider-style profile attributes (user_name, full_name, role, ...).
type Account struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	PasswordHash string         `json:"-"`
	AvatarURL    string         `json:"avatar_url"`
	Metadata     map[string]any `json:"metadata"`
	CreatedAt    time.Time      `json:"created_at"`
}
