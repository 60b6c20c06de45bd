package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"dealerdesk-service/internal/pkg/session"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func rateLimitedRouter(limiter *session.RateLimiter, setVendor bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	if setVendor {
		r.Use(func(c *gin.Context) {
			c.Set("vendor_id", int64(1))
			c.Next()
		})
	}
	r.Use(RateLimit(limiter, zap.NewNop()))
	r.GET("/cars", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func TestRateLimitSkipsUnauthenticatedRequests(t *testing.T) {
	// The limiter is never consulted without a vendor identity, so a nil
	// backend is fine here.
	r := rateLimitedRouter(session.NewRateLimiter(nil), false)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/cars", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimitFailsOpenWhenBackendDown(t *testing.T) {
	// Nothing listens on this address; the check errors and the request
	// goes through anyway.
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	r := rateLimitedRouter(session.NewRateLimiter(client), true)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/cars", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
