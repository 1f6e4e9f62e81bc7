package middleware

import (
	"strings"

	"catalog-service/internal/shared/response"
	"catalog-service/pkg/jwt"
	"catalog-service/pkg/logger"

	"github.com/gin-gonic/gin"
)

// ContextClaims is the gin context key of the validated token claims.
const ContextClaims = "claims"

// Authenticate reads an optional bearer token. Requests without an
// Authorization header pass through anonymously; a header that does not
// carry a valid token is rejected with 401.
func Authenticate(manager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Unauthorized(c, "Invalid authorization header format")
			return
		}

		claims, err := manager.ValidateToken(parts[1])
		if err != nil {
			logger.Debug("[Auth] Token rejected", map[string]interface{}{
				"error": err.Error(),
				"path":  c.Request.URL.Path,
			})
			response.Unauthorized(c, "Invalid token")
			return
		}

		c.Set(ContextClaims, claims)
		c.Next()
	}
}

// GetClaims returns the caller's token claims, or nil for anonymous requests.
func GetClaims(c *gin.Context) *jwt.Claims {
	if v, ok := c.Get(ContextClaims); ok {
		if claims, ok := v.(*jwt.Claims); ok {
			return claims
		}
	}
	return nil
}

// GetUsername returns the authenticated username, or "" for anonymous requests.
func GetUsername(c *gin.Context) string {
	if claims := GetClaims(c); claims != nil {
		return claims.Username()
	}
	return ""
}

// GetRoles returns the roles granted to the authenticated caller.
func GetRoles(c *gin.Context) []string {
	if claims := GetClaims(c); claims != nil {
		return claims.Roles
	}
	return nil
}
