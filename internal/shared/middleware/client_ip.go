package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

const ContextClientIP = "client_ip"

// ClientIPMiddleware resolves the client address once and stores it on the
// gin context for the rate limiter and access log.
func ClientIPMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ContextClientIP, extractClientIP(c))
		c.Next()
	}
}

// GetClientIP returns the address stored by ClientIPMiddleware, falling back to gin's view.
func GetClientIP(c *gin.Context) string {
	if ip := c.GetString(ContextClientIP); ip != "" {
		return ip
	}
	return c.ClientIP()
}

// extractClientIP prefers X-Forwarded-For, then X-Real-IP, then the socket address.
func extractClientIP(c *gin.Context) string {
	if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
		first := strings.TrimSpace(strings.Split(xff, ",")[0])
		if net.ParseIP(first) != nil {
			return first
		}
	}

	if xri := strings.TrimSpace(c.GetHeader("X-Real-IP")); net.ParseIP(xri) != nil {
		return xri
	}

	ip, _, err := net.SplitHostPort(c.Request.RemoteAddr)
	if err != nil {
		ip = c.Request.RemoteAddr
	}
	if net.ParseIP(ip) != nil {
		return ip
	}
	return "127.0.0.1"
}
