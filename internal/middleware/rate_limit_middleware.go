// internal/middleware/rate_limit_middleware.go
package middleware

import (
	"net/http"
	"time"

	"dealerdesk-service/internal/pkg/response"
	"dealerdesk-service/internal/pkg/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	apiRateLimitMax    = 300
	apiRateLimitWindow = time.Minute
)

// RateLimit caps authenticated API traffic per vendor and endpoint. It
// runs after Auth; requests without a vendor identity pass through
// untouched, as do requests when the limiter backend is unreachable.
func RateLimit(limiter *session.RateLimiter, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		vendorID, ok := GetVendorID(c)
		if !ok {
			c.Next()
			return
		}

		allowed, err := limiter.CheckAPIRateLimit(
			c.Request.Context(), vendorID, c.FullPath(), apiRateLimitMax, apiRateLimitWindow,
		)
		if err != nil {
			logger.Warn("rate limit check failed",
				zap.Int64("vendor_id", vendorID),
				zap.String("endpoint", c.FullPath()),
				zap.Error(err),
			)
			c.Next()
			return
		}
		if !allowed {
			response.Error(c, http.StatusTooManyRequests, "too many requests, slow down", nil)
			return
		}

		c.Next()
	}
}
