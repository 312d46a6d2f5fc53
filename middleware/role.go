package middleware

import (
	"net/http"

	"salonbook/models"
	"salonbook/utils"

	"github.com/gin-gonic/gin"
)

// RequireRole admits only sessions holding one of roles. It must run after JWTAuth.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := SessionFrom(c)
		if sess == nil {
			utils.JSONErrorCode(c, http.StatusUnauthorized, "unauthorized", "Authentication required", "")
			return
		}
		for _, r := range roles {
			if sess.Role == r {
				c.Next()
				return
			}
		}
		utils.JSONErrorCode(c, http.StatusForbidden, "forbidden", "Insufficient role", "requires one of the allowed roles")
	}
}
