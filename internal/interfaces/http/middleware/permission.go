package middleware

import (
	"net/http"

	"github.com/erp/pricesync/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// RequirePermission rejects requests whose access token lacks the permission.
// It must run after JWTAuthMiddleware.
func RequirePermission(permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			abortWithError(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Authentication required")
			return
		}
		if !claims.HasPermission(permission) {
			abortWithError(c, http.StatusForbidden, dto.ErrCodeForbidden, "Missing permission: "+permission)
			return
		}
		c.Next()
	}
}
