package middleware

import (
	"context"

	"bizcard-backend/internal/shared/utils"

	"github.com/gin-gonic/gin"
)

type contextKey string

// ClientIPKey is the request-context key carrying the extracted client IP,
// so services that only see a context.Context (e.g. the view tracker) can
// read it without a gin dependency.
const ClientIPKey contextKey = "client_ip"

// ClientIPMiddleware extracts the client IP address from the request
// and injects it into the context for downstream handlers to use.
//
// This middleware should be registered early in the middleware chain
// to ensure all handlers have access to the client IP.
//
// Usage:
//
//	router.Use(middleware.ClientIPMiddleware())
func ClientIPMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Extract client IP using utility function
		clientIP := utils.ExtractClientIP(c)

		// Inject IP into gin context (gin-specific)
		c.Set("client_ip", clientIP)

		// Inject IP into request context (for passing to services)
		ctx := context.WithValue(c.Request.Context(), ClientIPKey, clientIP)
		c.Request = c.Request.WithContext(ctx)

		// Continue to next handler
		c.Next()
	}
}

// GetClientIPFromContext retrieves the client IP from context
// Returns empty string if not found
func GetClientIPFromContext(ctx context.Context) string {
	if ip := ctx.Value(ClientIPKey); ip != nil {
		if ipStr, ok := ip.(string); ok {
			return ipStr
		}
	}
	return ""
}
