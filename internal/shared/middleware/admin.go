package middleware

import (
	"github.com/gin-gonic/gin"

	"angeles-backend/internal/shared"
	"angeles-backend/internal/shared/apperror"
	"angeles-backend/internal/shared/response"
)

// RequireRoles only lets principals with one of the given roles through.
// Must run after Authenticate.
func RequireRoles(roles ...shared.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := CurrentPrincipal(c)
		if principal == nil {
			response.Error(c, errUnauthenticated)
			c.Abort()
			return
		}

		for _, role := range roles {
			if principal.Role == role {
				c.Next()
				return
			}
		}

		response.Error(c, apperror.Forbidden("Access denied: insufficient role"))
		c.Abort()
	}
}

// RequirePrivileged allows editors and admins
func RequirePrivileged() gin.HandlerFunc {
	return RequireRoles(shared.RoleEditor, shared.RoleAdmin)
}
