package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const SessionCookieName = "session_id"

const contextKeySessionID = "session_id"

// SessionIDFromContext returns the browser session ID set by Browser.
func SessionIDFromContext(c *gin.Context) string {
	return c.GetString(contextKeySessionID)
}

// Browser identifies the browser session of every request: a bearer access
// token wins, then the session cookie. Requests with neither get a fresh
// session ID and cookie.
func Browser(tokens *Tokens, cookieMaxAge int, secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if h := c.GetHeader("Authorization"); h != "" {
			raw, ok := strings.CutPrefix(h, "Bearer ")
			if !ok {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
				return
			}
			sid, err := tokens.SessionID(strings.TrimSpace(raw))
			if err != nil {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
				return
			}
			c.Set(contextKeySessionID, sid)
			c.Next()
			return
		}

		sid, err := c.Cookie(SessionCookieName)
		if err != nil || !validSessionID(sid) {
			sid, err = NewSessionID()
			if err != nil {
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
				return
			}
		}
		// Refresh on every request so the cookie lives as long as the browser is active.
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(SessionCookieName, sid, cookieMaxAge, "/", "", secure, true)
		c.Set(contextKeySessionID, sid)
		c.Next()
	}
}

func validSessionID(s string) bool {
	if len(s) != 32 {
		return false
	}
	for _, r := range s {
		if !strings.ContainsRune("0123456789abcdef", r) {
			return false
		}
	}
	return true
}
