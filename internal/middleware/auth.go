package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"todo-be/internal/auth"
	"todo-be/internal/entities"
)

// currentUserKey is the gin context key holding the resolved user
const currentUserKey = "current_user"

// AuthMiddleware resolves the request's bearer token to a user record and
// stores it in the context. Every failure along the chain collapses to a
// generic 401 so callers cannot probe which check failed. Applied to the
// whole protected route group, so no authenticated route can skip it.
func AuthMiddleware(resolver *auth.IdentityResolver, lookup auth.UserLookupFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := resolver.Resolve(c.GetHeader("Authorization"), lookup)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Unauthorized",
			})
			c.Abort()
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// CurrentUser returns the user resolved by AuthMiddleware for this request
func CurrentUser(c *gin.Context) (*entities.User, bool) {
	value, exists := c.Get(currentUserKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*entities.User)
	return user, ok
}
