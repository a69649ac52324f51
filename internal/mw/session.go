package mw

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"parm-catalog/internal/session"
	"parm-catalog/internal/shell"
)

// SessionCookie carries the session id.
const SessionCookie = "parm_session"

const (
	sessionIDKey = "session_id"
	shellKey     = "shell"
)

// Session attaches the caller's AppShell to the request, starting a new
// session when the cookie is missing or expired. The cookie is refreshed on
// every request so it lives as long as the session does.
func Session(registry *session.Registry, ttl time.Duration, secure bool) gin.HandlerFunc {
	maxAge := int(ttl / time.Second)
	return func(c *gin.Context) {
		cookie, _ := c.Cookie(SessionCookie)
		id, s, _ := registry.Resolve(cookie)

		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(SessionCookie, id, maxAge, "/", "", secure, true)
		c.Set(sessionIDKey, id)
		c.Set(shellKey, s)
		c.Next()
	}
}

// ShellFrom returns the AppShell attached by Session.
func ShellFrom(c *gin.Context) *shell.AppShell {
	v, ok := c.Get(shellKey)
	if !ok {
		return nil
	}
	s, _ := v.(*shell.AppShell)
	return s
}

// SessionID returns the session id attached by Session.
func SessionID(c *gin.Context) string {
	return c.GetString(sessionIDKey)
}
