package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	tenantIDKey = contextKey("tenantID")
	userIDKey   = contextKey("userID")

	// TenantHeader and UserHeader are set by the edge gateway after it has
	// authenticated the caller; this service trusts them as-is.
	TenantHeader = "X-Tenant-ID"
	UserHeader   = "X-User-ID"
)

// TenantScopeMiddleware requires the tenant header on every request and makes
// tenant and user ids available through the Gin context. Requests without a
// tenant are rejected before reaching any handler.
func TenantScopeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID := strings.TrimSpace(c.GetHeader(TenantHeader))
		if tenantID == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "missing " + TenantHeader + " header"})
			return
		}
		c.Set(string(tenantIDKey), tenantID)

		if userID := strings.TrimSpace(c.GetHeader(UserHeader)); userID != "" {
			c.Set(string(userIDKey), userID)
		}

		c.Next()
	}
}

// GetTenantIDFromContext retrieves the tenant id set by TenantScopeMiddleware.
func GetTenantIDFromContext(c *gin.Context) (string, bool) {
	tenantVal, exists := c.Get(string(tenantIDKey))
	if !exists {
		return "", false
	}
	tenantID, ok := tenantVal.(string)
	return tenantID, ok && tenantID != ""
}

// GetUserIDFromContext retrieves the acting user id, defaulting to "system"
// when the caller did not identify a user (e.g. scheduled batch triggers).
func GetUserIDFromContext(c *gin.Context) string {
	userVal, exists := c.Get(string(userIDKey))
	if !exists {
		return "system"
	}
	userID, ok := userVal.(string)
	if !ok || userID == "" {
		return "system"
	}
	return userID
}
