package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/facade-admin/access"
	"github.com/facade-admin/dto"
	"github.com/facade-admin/models"
)

// Context keys set by AuthMiddleware
const (
	ContextUserID     = "userId"
	ContextRole       = "role"
	ContextCustomerID = "customerId"
	ContextPrincipal  = "principal"
)

// TokenCookie is the cookie that carries the JWT for browser clients
const TokenCookie = "access_token"

// TokenValidator validates JWTs issued at login
type TokenValidator interface {
	ValidateToken(token string) (*dto.TokenClaims, error)
}

// AuthMiddleware authenticates requests by Bearer header or the access_token
// cookie and stores the caller in the gin context
func AuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			if cookie, err := c.Cookie(TokenCookie); err == nil {
				token = cookie
			}
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"status":  "error",
				"message": "Authentication required",
			})
			return
		}

		claims, err := validator.ValidateToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"status":  "error",
				"message": "Invalid or expired token",
			})
			return
		}

		principal := access.Principal{
			UserID:     claims.UserID,
			Role:       models.Role(claims.Role),
			CustomerID: claims.CustomerID,
		}
		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextRole, claims.Role)
		c.Set(ContextCustomerID, claims.CustomerID)
		c.Set(ContextPrincipal, principal)
		c.Next()
	}
}

// PrincipalFrom returns the caller stored by AuthMiddleware
func PrincipalFrom(c *gin.Context) (access.Principal, bool) {
	value, exists := c.Get(ContextPrincipal)
	if !exists {
		return access.Principal{}, false
	}
	principal, ok := value.(access.Principal)
	return principal, ok
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
