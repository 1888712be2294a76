package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"fitbook/internal/domain/actor"
	"fitbook/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
)

const ctxActorKey = "actor"

type AuthMiddleware struct {
	tokens *jwt.Service
}

func NewAuthMiddleware(tokens *jwt.Service) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Access token required"})
			c.Abort()
			return
		}

		claims, err := m.tokens.ValidateToken(token)
		if err != nil {
			slog.Warn("token validation failed", "error", err.Error())
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		role := actor.Role(claims.Role)
		if !role.IsValid() {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		id := claims.UserID
		c.Set(ctxActorKey, actor.Context{
			ID:        &id,
			Role:      role,
			IP:        c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
		})
		c.Next()
	}
}

// RequireRoleAtLeast must run after RequireAuth.
func (m *AuthMiddleware) RequireRoleAtLeast(minRole actor.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		act, ok := GetActor(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			c.Abort()
			return
		}
		if !hasMinimumRole(act.Role, minRole) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			c.Abort()
			return
		}
		c.Next()
	}
}

var roleHierarchy = map[actor.Role]int{
	actor.RoleClient: 1,
	actor.RoleStaff:  2,
	actor.RoleAdmin:  3,
	actor.RoleSystem: 4,
}

func hasMinimumRole(role, minRole actor.Role) bool {
	level, ok := roleHierarchy[role]
	minLevel, minOK := roleHierarchy[minRole]
	return ok && minOK && level >= minLevel
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(authHeader[len("Bearer "):])
}

// GetActor returns the authenticated actor resolved by RequireAuth.
func GetActor(c *gin.Context) (actor.Context, bool) {
	v, exists := c.Get(ctxActorKey)
	if !exists {
		return actor.Context{}, false
	}
	act, ok := v.(actor.Context)
	return act, ok
}
