package middleware

import (
	"strings"

	"visaflow_backend/internal/auth"
	"visaflow_backend/internal/logger"
	"visaflow_backend/internal/models"
	"visaflow_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

const (
	ContextUserIDKey = "userID"
	ContextRoleKey   = "role"
)

// AuthMiddleware validates the Bearer access token and stores the
// caller's identity on the request context.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		tokenStr := ""
		if strings.HasPrefix(authHeader, "Bearer ") {
			tokenStr = strings.TrimPrefix(authHeader, "Bearer ")
		} else if q := c.Query("token"); q != "" {
			// Browsers cannot set headers on websocket upgrades.
			tokenStr = q
		}
		if tokenStr == "" {
			abortWith(c, apperrors.NewUnauthorizedError("Authorization header missing or invalid"))
			return
		}

		claims, err := auth.ParseToken(tokenStr)
		if err != nil {
			abortWith(c, apperrors.ErrInvalidToken)
			return
		}

		c.Set(ContextUserIDKey, claims.UserID)
		c.Set(ContextRoleKey, models.UserRole(claims.Role))
		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), claims.UserID))
		c.Next()
	}
}

// RequireRoles allows the request through only for the listed roles.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	roleSet := make(map[models.UserRole]bool, len(roles))
	for _, r := range roles {
		roleSet[r] = true
	}

	return func(c *gin.Context) {
		role, ok := GetUserRole(c)
		if !ok || !roleSet[role] {
			abortWith(c, apperrors.ErrInsufficientPermissions)
			return
		}
		c.Next()
	}
}

// RequireStaff shortcut for agent-or-admin routes.
func RequireStaff() gin.HandlerFunc {
	return RequireRoles(models.UserRoleAgent, models.UserRoleAdmin)
}

func GetUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get(ContextUserIDKey)
	if !exists {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}

func GetUserRole(c *gin.Context) (models.UserRole, bool) {
	v, exists := c.Get(ContextRoleKey)
	if !exists {
		return "", false
	}
	role, ok := v.(models.UserRole)
	return role, ok
}

func abortWith(c *gin.Context, err *apperrors.AppError) {
	c.AbortWithStatusJSON(err.HTTPCode, gin.H{"error": err})
}
