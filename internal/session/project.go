package session

import (
	"fmt"
	"strings"

	dom "taskflow/internal/domain"
	"taskflow/internal/utils"
)

const defaultLogin = "user"

// loginKeys are the metadata fields tried, in order, for the display login.
var loginKeys = []string{"user_name", "preferred_username", "name", "full_name"}

// Project turns an account record into the identity the rest of the
// workspace sees.
func Project(acct dom.Account) dom.User {
	role := roleOf(acct.Metadata)
	avatar := acct.AvatarURL
	if avatar == "" {
		avatar = metaString(acct.Metadata, "avatar_url")
	}
	return dom.User{
		ID:        acct.ID,
		Login:     loginOf(acct),
		Email:     acct.Email,
		AvatarURL: avatar,
		IsOwner:   role == dom.RoleOwner,
		Role:      role,
	}
}

func loginOf(acct dom.Account) string {
	for _, k := range loginKeys {
		if v := metaString(acct.Metadata, k); v != "" {
			return v
		}
	}
	if local := utils.EmailLocalPart(acct.Email); local != "" {
		return local
	}
	return defaultLogin
}

func roleOf(meta map[string]any) dom.Role {
	switch strings.ToLower(metaString(meta, "role")) {
	case "owner":
		return dom.RoleOwner
	case "editor", "admin":
		return dom.RoleEditor
	case "member":
		return dom.RoleMember
	}
	if owner, _ := meta["is_owner"].(bool); owner {
		return dom.RoleOwner
	}
	return dom.RoleMember
}

func metaString(meta map[string]any, key string) string {
	v, ok := meta[key]
	if !ok || v == nil {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		s = fmt.Sprint(v)
	}
	return strings.TrimSpace(s)
}
