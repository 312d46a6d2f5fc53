package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// clientIP prefers the first X-Forwarded-For hop, then X-Real-IP, then gin's view.
func clientIP(c *gin.Context) string {
	if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
		if first := strings.TrimSpace(strings.Split(xff, ",")[0]); first != "" {
			return first
		}
	}
	if xri := strings.TrimSpace(c.GetHeader("X-Real-IP")); xri != "" {
		return xri
	}
	return c.ClientIP()
}
