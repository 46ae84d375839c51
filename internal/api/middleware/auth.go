package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vishu8474/prokhoz-backend/internal/auth"
	"github.com/vishu8474/prokhoz-backend/internal/models"
)

const (
	// ContextKeyUserID holds the key for the user ID in Gin context.
	ContextKeyUserID = "userID"
	// ContextKeyUserRole holds the key for the user role in Gin context.
	ContextKeyUserRole = "userRole"
)

// AuthMiddleware creates a Gin middleware for JWT authentication. It puts
// the token's user ID and role into the request context; handlers turn them
// into an explicit principal for the service layer.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Authorization header required"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Authorization header format must be Bearer {token}"})
			return
		}

		claims, err := auth.ValidateJWT(parts[1], jwtSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": fmt.Sprintf("Invalid or expired token: %v", err)})
			return
		}

		c.Set(ContextKeyUserID, claims.UserID)
		c.Set(ContextKeyUserRole, claims.Role)

		c.Next()
	}
}

// RequireRole creates a Gin middleware gating a route group to one role.
// Assumes AuthMiddleware runs first.
func RequireRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		current, exists := c.Get(ContextKeyUserRole)
		if !exists {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "message": fmt.Sprintf("Role %q required", role)})
			return
		}
		currentRole, ok := current.(string)
		if !ok || currentRole != string(role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "message": fmt.Sprintf("Role %q required", role)})
			return
		}
		c.Next()
	}
}
