package middleware

import (
	"catalog-service/internal/shared/response"

	"github.com/gin-gonic/gin"
)

// RoleEmployee may mutate the catalog.
const RoleEmployee = "employee"

// RequireRole must run after Authenticate. Anonymous callers get 401,
// authenticated callers without role get 403.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			response.Unauthorized(c, "Authentication required")
			return
		}

		if !claims.HasRole(role) {
			response.Forbidden(c, "Access denied: "+role+" role required")
			return
		}

		c.Next()
	}
}
