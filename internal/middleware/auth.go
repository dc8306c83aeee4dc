package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/schoolhub/schoolhub-backend/internal/model"
	"github.com/schoolhub/schoolhub-backend/internal/response"
	"github.com/schoolhub/schoolhub-backend/internal/service"
)

const (
	// ContextKeyUser is the Gin context key for the hydrated session user.
	ContextKeyUser = "user"
	// TokenCookie is the cookie browsers carry the session token in.
	TokenCookie = "schoolhub_token"
)

// ExtractToken pulls the session token from the Authorization header, the
// session cookie, or a token query parameter, in that order.
func ExtractToken(c *gin.Context) string {
	if authHeader := c.GetHeader("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
	}
	if cookie, err := c.Cookie(TokenCookie); err == nil && cookie != "" {
		return cookie
	}
	return c.Query("token")
}

// RequireAuth hydrates the session and rejects unauthenticated requests with
// a JSON 401. Used for API-style operations; page routes use Guard instead.
func RequireAuth(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ExtractToken(c)
		if token == "" {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		user, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenInvalid)
			return
		}

		c.Set(ContextKeyUser, user)
		c.Next()
	}
}

// GetUser retrieves the hydrated session user from the Gin context.
func GetUser(c *gin.Context) *model.User {
	val, exists := c.Get(ContextKeyUser)
	if !exists {
		return nil
	}
	user, ok := val.(*model.User)
	if !ok {
		return nil
	}
	return user
}
