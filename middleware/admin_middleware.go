package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/facade-admin/access"
)

// AdminMiddleware creates a middleware that ensures the user has admin role
// This middleware should be used after AuthMiddleware
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := PrincipalFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"status":  "error",
				"message": "Authentication required",
			})
			return
		}

		if !principal.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"status":  "error",
				"message": "Admin privileges required",
			})
			return
		}

		c.Next()
	}
}

// RequirePermission rejects callers whose role may not perform action on
// resource. It must run after AuthMiddleware.
func RequirePermission(resource access.Resource, action access.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := PrincipalFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"status":  "error",
				"message": "Authentication required",
			})
			return
		}

		if !access.Can(principal.Role, resource, action) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"status":  "error",
				"message": "You do not have permission to " + string(action) + " " + string(resource),
			})
			return
		}

		c.Next()
	}
}
