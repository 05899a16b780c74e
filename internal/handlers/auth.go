package handlers

import (
	"errors"
	"net/http"

	"taskflow/internal/auth"
	"taskflow/internal/dto"
	"taskflow/internal/service"
	"taskflow/internal/session"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles sign-in, sign-up, OAuth redirects and sign-out.
type AuthHandler struct {
	tokens *auth.Tokens
}

// NewAuthHandler returns a new AuthHandler.
func NewAuthHandler(tokens *auth.Tokens) *AuthHandler {
	return &AuthHandler{tokens: tokens}
}

// Session godoc
// @Summary      Current session state
// @Tags         auth
// @Produce      json
// @Success      200  {object}  session.Snapshot
// @Router       /session [get]
func (h *AuthHandler) Session(c *gin.Context) {
	c.JSON(http.StatusOK, workspaceOf(c).Session.Current())
}

// SignIn godoc
// @Summary      Sign in with email and password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SignInRequest  true  "Credentials"
// @Success      200   {object}  dto.AuthResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /auth/signin [post]
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req dto.SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	w := workspaceOf(c)
	if _, err := w.Identity.SignIn(c.Request.Context(), req.Email, req.Password); err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "sign in failed"})
		return
	}
	h.respondSignedIn(c, http.StatusOK)
}

// SignUp godoc
// @Summary      Create an account and sign in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SignUpRequest  true  "Account"
// @Success      201   {object}  dto.AuthResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /auth/signup [post]
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req dto.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	w := workspaceOf(c)
	if _, err := w.Identity.SignUp(c.Request.Context(), req.Email, req.Password, req.DisplayName); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrWeakPassword):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrEmailTaken):
			c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "sign up failed"})
		}
		return
	}
	h.respondSignedIn(c, http.StatusCreated)
}

// OAuth godoc
// @Summary      Start an OAuth sign-in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.OAuthRequest  true  "Provider"
// @Success      200   {object}  dto.OAuthResponse
// @Failure      400   {object}  map[string]string
// @Router       /auth/oauth [post]
func (h *AuthHandler) OAuth(c *gin.Context) {
	var req dto.OAuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, err := workspaceOf(c).Identity.SignInWithOAuth(c.Request.Context(), req.Provider, req.RedirectTo)
	if err != nil {
		if errors.Is(err, auth.ErrUnknownProvider) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "oauth sign in failed"})
		return
	}
	c.JSON(http.StatusOK, dto.OAuthResponse{URL: u})
}

// SignOut godoc
// @Summary      Sign out
// @Tags         auth
// @Success      204
// @Failure      500  {object}  map[string]string
// @Router       /auth/signout [post]
func (h *AuthHandler) SignOut(c *gin.Context) {
	if err := workspaceOf(c).Identity.SignOut(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to sign out"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) respondSignedIn(c *gin.Context, status int) {
	w := workspaceOf(c)
	snap := w.Session.Current()
	if snap.State != session.Authenticated || snap.User == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session was not established"})
		return
	}
	token, err := h.tokens.Issue(w.ID, snap.User.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
		return
	}
	c.JSON(status, dto.AuthResponse{User: *snap.User, Token: token})
}
