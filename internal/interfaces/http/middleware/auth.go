// internal/interfaces/http/middleware/auth.go
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AlexandruGrigore19/piata-dumbro-client/internal/api"
	"github.com/AlexandruGrigore19/piata-dumbro-client/internal/pkg/auth"
)

// UserKey is the context key holding the resolved session user.
const UserKey = "user"

// LoadUser resolves the stored session user, if any, and attaches it to
// the request context. It never rejects; handlers that need a user use
// RequireAuth.
func LoadUser(session *auth.Session) gin.HandlerFunc {
	return func(c *gin.Context) {
		if user := session.CurrentUser(); user != nil {
			c.Set(UserKey, user)
		}
		c.Next()
	}
}

// RequireAuth aborts with 401 when no session user is attached.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := GetUserFromContext(c); !ok {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetUserFromContext returns the session user attached by LoadUser.
func GetUserFromContext(c *gin.Context) (*api.User, bool) {
	value, exists := c.Get(UserKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*api.User)
	return user, ok
}
