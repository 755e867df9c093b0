package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hitecare/carehome-api/internal/handler"
	"github.com/hitecare/carehome-api/internal/session"
)

const ContextSession = "session"

// SessionResolver maps a bearer token to its live session. Resolving also
// slides the inactivity timer, so every authenticated request counts as
// activity.
type SessionResolver interface {
	Resolve(token string) (*session.Session, error)
}

type AuthMiddleware struct {
	resolver SessionResolver
}

func NewAuthMiddleware(resolver SessionResolver) *AuthMiddleware {
	return &AuthMiddleware{resolver: resolver}
}

// Authenticate verifies the bearer token and puts the session in the context.
// Requests whose session has idled out get a 401 and must log in again.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("missing authorization header"))
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid authorization format"))
			c.Abort()
			return
		}

		sess, err := m.resolver.Resolve(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("session expired or invalid, log in again"))
			c.Abort()
			return
		}

		c.Set(ContextSession, sess)
		c.Next()
	}
}

// SessionFromContext returns the session placed by Authenticate. It is nil on
// routes that skip the middleware.
func SessionFromContext(c *gin.Context) *session.Session {
	if value, exists := c.Get(ContextSession); exists {
		if s, ok := value.(*session.Session); ok {
			return s
		}
	}
	return nil
}
