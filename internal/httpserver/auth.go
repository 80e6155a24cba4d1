package httpserver

import (
	"net/http"
	"strings"

	"foodorder/internal/domain"
	"github.com/gin-gonic/gin"
)

const identityKey = "identity"
const userKey = "user"

// authRequired resolves the bearer token into an identity and aborts with 401
// when it cannot.
func authRequired(users userService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		u, err := users.LookupByToken(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(userKey, u)
		c.Set(identityKey, domain.Identity{
			UserID: u.ID,
			Role:   u.Role,
			Scope:  u.Location,
		})
		c.Next()
	}
}

func identityFrom(c *gin.Context) domain.Identity {
	v, ok := c.Get(identityKey)
	if !ok {
		return domain.Identity{}
	}
	id, _ := v.(domain.Identity)
	return id
}

func userFrom(c *gin.Context) *domain.User {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	u, _ := v.(*domain.User)
	return u
}
