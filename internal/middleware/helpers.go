// internal/middleware/helpers.go
package middleware

import "github.com/gin-gonic/gin"

// GetVendorID returns the authenticated vendor ID from the context.
func GetVendorID(c *gin.Context) (int64, bool) {
	v, exists := c.Get("vendor_id")
	if !exists {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

// MustGetVendorID returns the vendor ID or zero if unauthenticated.
func MustGetVendorID(c *gin.Context) int64 {
	id, _ := GetVendorID(c)
	return id
}

// GetJTI returns the token JTI from the context.
func GetJTI(c *gin.Context) string {
	v, exists := c.Get("jti")
	if !exists {
		return ""
	}
	jti, _ := v.(string)
	return jti
}
