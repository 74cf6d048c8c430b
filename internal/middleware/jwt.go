package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/prompt-future/backend/internal/auth"
	"github.com/prompt-future/backend/pkg/response"
)

const (
	// ContextAdminID is the key for the admin ID in gin context.
	ContextAdminID = "admin_id"
	// ContextAdminRole is the key for the admin role in gin context.
	ContextAdminRole = "admin_role"
	// ContextAdminName is the key for the admin username in gin context.
	ContextAdminName = "admin_username"
)

// JWT returns a middleware that validates the bearer token and sets admin
// claims in context.
func JWT(jwtService *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Unauthorized(c, "Access denied. No token provided.")
			c.Abort()
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, "Invalid authorization header")
			c.Abort()
			return
		}
		claims, err := jwtService.Validate(parts[1])
		if err != nil {
			response.Unauthorized(c, "Invalid token.")
			c.Abort()
			return
		}
		c.Set(ContextAdminID, claims.AdminID)
		c.Set(ContextAdminRole, claims.Role)
		c.Set(ContextAdminName, claims.Username)
		c.Next()
	}
}
