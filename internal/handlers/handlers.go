package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"taskflow/internal/auth"
	dom "taskflow/internal/domain"
	"taskflow/internal/mutation"
	"taskflow/internal/store"
	"taskflow/internal/workspace"

	"github.com/gin-gonic/gin"
)

const (
	contextKeyWorkspace = "workspace"
	readyTimeout        = 5 * time.Second
)

// Workspace opens the workspace of the request's browser session and waits
// until its session is resolved. It must run after auth.Browser.
func Workspace(reg *workspace.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		w := reg.Open(auth.SessionIDFromContext(c))
		ctx, cancel := context.WithTimeout(c.Request.Context(), readyTimeout)
		defer cancel()
		if _, err := w.Wait(ctx); err != nil {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "session is still resolving"})
			return
		}
		c.Set(contextKeyWorkspace, w)
		c.Next()
	}
}

// RequireUser rejects requests of signed-out sessions with 401.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := workspaceOf(c).User(); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}
		c.Next()
	}
}

func workspaceOf(c *gin.Context) *workspace.Workspace {
	return c.MustGet(contextKeyWorkspace).(*workspace.Workspace)
}

func userOf(c *gin.Context) dom.User {
	u, _ := workspaceOf(c).User()
	return u
}

// writeError maps store and coordinator failures to a status code. The
// message is the generic per-action one the notice carries.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, mutation.ErrNotAuthor):
		status = http.StatusForbidden
	case errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, store.ErrValidation):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, store.ErrUnavailable):
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"error": actionMessage(err)})
}

func actionMessage(err error) string {
	switch {
	case errors.Is(err, mutation.ErrLoadFailed):
		return "load failed"
	case errors.Is(err, mutation.ErrCreateFailed):
		return "create failed"
	case errors.Is(err, mutation.ErrStatusChangeFailed):
		return "status change failed"
	case errors.Is(err, mutation.ErrUpdateFailed):
		return "update failed"
	case errors.Is(err, mutation.ErrDeleteFailed):
		return "delete failed"
	}
	return "request failed"
}
