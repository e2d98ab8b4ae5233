package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dkeye/focusopolis/internal/core"
	"github.com/dkeye/focusopolis/internal/domain"
)

const userKey = "auth_user"

// Auth verifies the bearer token on every request and stashes the verified
// identity in the gin context. Websocket clients cannot set headers, so
// ?token= is accepted as a fallback.
func Auth(verifier core.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ""
		if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
			token = strings.TrimPrefix(h, "Bearer ")
		}
		if token == "" {
			token = c.Query("token")
		}
		user, err := verifier.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
			return
		}
		c.Set(userKey, user)
		c.Next()
	}
}

// UserFrom returns the identity placed by Auth; nil when unauthenticated.
func UserFrom(c *gin.Context) *domain.User {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	u, _ := v.(*domain.User)
	return u
}
