package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/messhall/backend/internal/domain/identity"
)

// RequireRoles creates middleware that allows only the given roles.
// It must run after JWTAuthMiddleware so the claims are in context.
func RequireRoles(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "UNAUTHORIZED",
					"message": "Authentication required",
				},
			})
			return
		}

		if _, ok := allowed[claims.Role]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "FORBIDDEN",
					"message": "Insufficient role for this operation",
				},
			})
			return
		}

		c.Next()
	}
}

// RequireStaff allows admin and manager accounts only.
func RequireStaff() gin.HandlerFunc {
	return RequireRoles(string(identity.RoleAdmin), string(identity.RoleManager))
}

// RequireAdmin allows admin accounts only.
func RequireAdmin() gin.HandlerFunc {
	return RequireRoles(string(identity.RoleAdmin))
}

// RequireStudent allows student accounts only.
func RequireStudent() gin.HandlerFunc {
	return RequireRoles(string(identity.RoleStudent))
}
