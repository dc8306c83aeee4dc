package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/schoolhub/schoolhub-backend/internal/authz"
	"github.com/schoolhub/schoolhub-backend/internal/model"
	"github.com/schoolhub/schoolhub-backend/internal/response"
)

// RequireRoles checks that the session user holds one of the given roles.
// Runs after RequireAuth or Guard; JSON 403 on mismatch.
func RequireRoles(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := GetUser(c)
		if user == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		if !authz.HasRole(user, roles...) {
			response.AbortFail(c, http.StatusForbidden, response.ErrForbidden)
			return
		}

		c.Next()
	}
}
