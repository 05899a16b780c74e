package dto

import dom "taskflow/internal/domain"

// SignInRequest is the JSON body for POST /auth/signin.
type SignInRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// SignUpRequest is the JSON body for POST /auth/signup.
type SignUpRequest struct {
	Email       string `json:"email" binding:"required,email,max=254"`
	Password    string `json:"password" binding:"required,min=6,max=72"`
	DisplayName string `json:"display_name" binding:"max=120"`
}

// OAuthRequest is the JSON body for POST /auth/oauth.
type OAuthRequest struct {
	Provider   string `json:"provider" binding:"required"`
	RedirectTo string `json:"redirect_to" binding:"omitempty,url"`
}

type OAuthResponse struct {
	URL string `json:"url"`
}

// AuthResponse is returned after sign-in or sign-up. Token is a bearer
// access token for clients that do not keep cookies.
type AuthResponse struct {
	User  dom.User `json:"user"`
	Token string   `json:"token"`
}
