// internal/middleware/auth_middleware.go
package middleware

import (
	"net/http"
	"strings"

	"dealerdesk-service/internal/pkg/jwt"
	"dealerdesk-service/internal/pkg/response"
	"dealerdesk-service/internal/pkg/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthMiddleware struct {
	verifier       *jwt.Verifier
	sessionManager *session.Manager
	logger         *zap.Logger
}

func NewAuthMiddleware(verifier *jwt.Verifier, sessionManager *session.Manager, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		verifier:       verifier,
		sessionManager: sessionManager,
		logger:         logger,
	}
}

// Auth validates the access token and loads the vendor identity into the
// request context.
func (m *AuthMiddleware) Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			response.Error(c, http.StatusUnauthorized, "missing authentication token", nil)
			return
		}

		claims, err := m.verifier.VerifyAccessToken(token)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "invalid or expired token", err)
			return
		}

		blacklisted, err := m.sessionManager.IsTokenBlacklisted(c.Request.Context(), claims.ID)
		if err != nil {
			m.logger.Error("blacklist check failed", zap.Error(err))
			response.Error(c, http.StatusInternalServerError, "failed to validate token", nil)
			return
		}
		if blacklisted {
			response.Error(c, http.StatusUnauthorized, "token has been revoked", nil)
			return
		}

		if _, err := m.sessionManager.GetSession(c.Request.Context(), claims.VendorID, claims.ID); err != nil {
			response.Error(c, http.StatusUnauthorized, "session expired or invalid", nil)
			return
		}

		c.Set("vendor_id", claims.VendorID)
		c.Set("jti", claims.ID)
		c.Next()
	}
}

// extractToken pulls the token from the Authorization header or, for
// websocket upgrades, the query string.
func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return parts[1]
		}
	}

	return c.Query("token")
}
