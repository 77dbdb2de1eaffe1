package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"finca-reservations/internal/pkg/jwt"
)

const (
	ctxAdminIDKey    = "admin_id"
	ctxAdminEmailKey = "admin_email"
)

// AuthMiddleware guards the back-office routes. Every authenticated caller
// is an admin; guest-facing endpoints are unauthenticated.
type AuthMiddleware struct {
	jwt        *jwt.Service
	cronSecret string
}

func NewAuthMiddleware(jwtService *jwt.Service, cronSecret string) *AuthMiddleware {
	return &AuthMiddleware{
		jwt:        jwtService,
		cronSecret: cronSecret,
	}
}

func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		var token string
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
			token = strings.TrimSpace(authHeader[len("Bearer "):])
		}

		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Access token required",
			})
			c.Abort()
			return
		}

		claims, err := m.jwt.ValidateToken(token)
		if err != nil {
			slog.Warn("token validation failed", "error", err.Error())
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		c.Set(ctxAdminIDKey, claims.AdminID)
		c.Set(ctxAdminEmailKey, claims.Email)
		c.Next()
	}
}

// RequireCronSecret guards the ops endpoints triggered by external
// schedulers. An empty configured secret disables the surface entirely.
func (m *AuthMiddleware) RequireCronSecret() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.cronSecret == "" {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Ops endpoints are disabled",
			})
			c.Abort()
			return
		}

		got := c.GetHeader("X-Cron-Secret")
		if subtle.ConstantTimeCompare([]byte(got), []byte(m.cronSecret)) != 1 {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid cron secret",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

func GetAdminID(c *gin.Context) (uuid.UUID, bool) {
	adminID, exists := c.Get(ctxAdminIDKey)
	if !exists {
		return uuid.Nil, false
	}

	id, ok := adminID.(uuid.UUID)
	return id, ok
}
