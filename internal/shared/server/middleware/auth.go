package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"billaudit-backend/internal/shared/auth"
	"billaudit-backend/internal/shared/server/respond"
)

const (
	userIDKey    = "userId"
	userEmailKey = "userEmail"
	userNameKey  = "userName"
	userRoleKey  = "userRole"
)

// Identity is the resolved caller: the token's subject looked up in the user store.
type Identity struct {
	ID     string
	Email  string
	Name   string
	Role   string
	Status string
}

// IdentityResolver loads the persisted user backing a token subject.
type IdentityResolver interface {
	Resolve(ctx context.Context, userID string) (Identity, error)
}

// Auth validates bearer session tokens, resolves the backing user and stores
// identity in context. Blocked users are rejected even with a valid token.
func Auth(resolver IdentityResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))
		if token == "" {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			return
		}

		claims, err := auth.VerifySession(token)
		if err != nil {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			return
		}

		identity, err := resolver.Resolve(c.Request.Context(), claims.Subject)
		if err != nil {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "unknown user", nil)
			return
		}
		if identity.Status == "blocked" {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "account blocked", nil)
			return
		}

		c.Set(userIDKey, identity.ID)
		c.Set(userEmailKey, identity.Email)
		c.Set(userNameKey, identity.Name)
		c.Set(userRoleKey, identity.Role)
		c.Next()
	}
}

// AdminOnly gates routes to users with the admin role. Must run after Auth.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(userRoleKey) != "admin" {
			respond.Error(c, http.StatusForbidden, "forbidden", "admin only", nil)
			return
		}
		c.Next()
	}
}

// UserIDFromContext fetches the user ID set by the auth middleware.
func UserIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(userIDKey)
	if id, ok := val.(string); ok {
		return id
	}
	return ""
}

// UserEmailFromContext fetches the user email set by the auth middleware.
func UserEmailFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(userEmailKey)
	if email, ok := val.(string); ok {
		return email
	}
	return ""
}

// UserRoleFromContext fetches the user role set by the auth middleware.
func UserRoleFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(userRoleKey)
	if role, ok := val.(string); ok {
		return role
	}
	return ""
}
