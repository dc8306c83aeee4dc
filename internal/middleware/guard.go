package middleware

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/schoolhub/schoolhub-backend/internal/authz"
	"github.com/schoolhub/schoolhub-backend/internal/model"
	"github.com/schoolhub/schoolhub-backend/internal/service"
)

// LoginPath is the default redirect target for unauthenticated page visits.
const LoginPath = "/auth/login"

// Guard gates a page route on session state and an optional role allow-list,
// with the login page as the unauthenticated redirect target. An empty
// allow-list admits any authenticated user.
func Guard(auth *service.AuthService, allowedRoles ...model.Role) gin.HandlerFunc {
	return GuardWithRedirect(auth, LoginPath, allowedRoles...)
}

// GuardWithRedirect is Guard with a custom unauthenticated redirect target.
// The decision is made only after session resolution completes:
//   - no live session: redirect to redirectTo, preserving the originally
//     requested location in a "from" query parameter so the login flow can
//     return the user afterward;
//   - authenticated but role not in allowedRoles: redirect to the user's own
//     dashboard route — a logged-in user with insufficient role is rerouted,
//     not logged out;
//   - otherwise the handler runs with the user in context.
func GuardWithRedirect(auth *service.AuthService, redirectTo string, allowedRoles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		var user *model.User
		if token := ExtractToken(c); token != "" {
			user, _ = auth.Authenticate(c.Request.Context(), token)
		}

		if user == nil {
			from := url.Values{"from": {c.Request.URL.RequestURI()}}
			c.Redirect(http.StatusFound, redirectTo+"?"+from.Encode())
			c.Abort()
			return
		}

		if len(allowedRoles) > 0 && !authz.HasRole(user, allowedRoles...) {
			c.Redirect(http.StatusFound, authz.DashboardRoute(user.Role))
			c.Abort()
			return
		}

		c.Set(ContextKeyUser, user)
		c.Next()
	}
}
