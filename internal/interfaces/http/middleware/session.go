// internal/interfaces/http/middleware/session.go
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/course-registration/internal/pkg/auth"
)

// SessionIDKey is the gin context key of the visitor's session ID
const SessionIDKey = "session_id"

// SessionOptions configures the session cookie
type SessionOptions struct {
	CookieName string
	Secure     bool
}

// Session resolves the visitor's session from the signed cookie. A missing
// or invalid cookie starts a new, empty session.
func Session(manager *auth.SessionManager, opts SessionOptions, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, err := c.Cookie(opts.CookieName); err == nil {
			sessionID, err := manager.Parse(token)
			if err == nil {
				c.Set(SessionIDKey, sessionID)
				c.Next()
				return
			}
			logger.WithError(err).Debug("Discarding invalid session cookie")
		}

		sessionID := auth.NewSessionID()
		token, err := manager.Issue(sessionID)
		if err != nil {
			logger.WithError(err).Error("Failed to issue session token")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to start session",
			})
			return
		}

		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(opts.CookieName, token, int(manager.TTL().Seconds()), "/", "", opts.Secure, true)
		c.Set(SessionIDKey, sessionID)
		c.Next()
	}
}

// GetSessionID returns the session ID resolved by Session
func GetSessionID(c *gin.Context) string {
	return c.GetString(SessionIDKey)
}
