package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"example.com/mams/internal/access"
	"example.com/mams/internal/auth"
)

const actorKey = "actor"

// RequireAuth validates the bearer token and stores the resolved actor
// in the request context.
func RequireAuth(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid authorization header"})
			return
		}

		claims, err := auth.ValidateToken(jwtSecret, strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(actorKey, access.Actor{
			ID:     claims.UserID,
			Role:   claims.Role,
			BaseID: claims.BaseID,
		})
		c.Next()
	}
}

// RequireRole rejects callers whose role is not in the allowed set.
// Must run after RequireAuth.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := GetActor(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}
		for _, role := range roles {
			if actor.Role == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
	}
}

// GetActor retrieves the authenticated actor from the request context
func GetActor(c *gin.Context) (access.Actor, bool) {
	v, ok := c.Get(actorKey)
	if !ok {
		return access.Actor{}, false
	}
	actor, ok := v.(access.Actor)
	return actor, ok
}
