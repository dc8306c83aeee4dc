package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/schoolhub/schoolhub-backend/internal/config"
	"github.com/schoolhub/schoolhub-backend/internal/handler"
	"github.com/schoolhub/schoolhub-backend/internal/middleware"
	"github.com/schoolhub/schoolhub-backend/internal/model"
	"github.com/schoolhub/schoolhub-backend/internal/response"
	"github.com/schoolhub/schoolhub-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth       *handler.AuthHandler
	Invitation *handler.InvitationHandler
	Dashboard  *handler.DashboardHandler
}

// SetupRouter configures all route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.AllowCredentials = len(cfg.AllowedOrigins) > 0
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Request ID first so every response carries metadata, then response
	// compression.
	router.Use(response.RequestIDMiddleware())
	router.Use(middleware.Brotli())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// ─── Public Pages ──────────────────────────────────────────────────
	router.GET("/", handlers.Dashboard.Landing)

	// Rate limiter for auth routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── Auth Group (Public, Rate Limited) ─────────────────────────────
	auth := router.Group("/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.GET("/login", handlers.Auth.LoginPage)
		auth.POST("/login", handlers.Auth.Login)
		auth.GET("/login/:schoolCode", handlers.Auth.LoginPage)
		auth.POST("/login/:schoolCode", handlers.Auth.Login)
		auth.POST("/register", handlers.Auth.Register)
		auth.POST("/register-school", handlers.Auth.RegisterSchool)
		auth.POST("/forgot-password", handlers.Auth.ForgotPassword)
		auth.GET("/accept-invitation", handlers.Invitation.Resolve)
		auth.POST("/accept-invitation", handlers.Invitation.Accept)

		// Session routes
		auth.GET("/me", middleware.RequireAuth(authService), handlers.Auth.Me)
		auth.PATCH("/profile", middleware.RequireAuth(authService), handlers.Auth.UpdateProfile)
		auth.POST("/logout", handlers.Auth.Logout)
	}

	// ─── Protected Pages (Any Authenticated User) ──────────────────────
	router.GET("/school", middleware.Guard(authService), handlers.Dashboard.SchoolLanding)
	router.GET("/dashboard", middleware.Guard(authService), handlers.Dashboard.Home)

	// ─── Role-Gated Dashboards ─────────────────────────────────────────
	for _, role := range model.AllRoles {
		router.GET("/dashboard/"+string(role), middleware.Guard(authService, role), handlers.Dashboard.Show)
	}

	// ─── Proprietor-Only ───────────────────────────────────────────────
	router.GET("/dashboard/invite-users",
		middleware.Guard(authService, model.RoleProprietor),
		handlers.Invitation.InvitePage,
	)
	router.GET("/dashboard/manage-invitations",
		middleware.Guard(authService, model.RoleProprietor),
		handlers.Invitation.List,
	)
	router.GET("/dashboard/bulk-import",
		middleware.Guard(authService, model.RoleProprietor),
		handlers.Invitation.BulkImportPage,
	)

	// Mutations respond with JSON errors rather than page redirects.
	proprietorAPI := router.Group("/dashboard")
	proprietorAPI.Use(
		middleware.RequireAuth(authService),
		middleware.RequireRoles(model.RoleProprietor),
	)
	{
		proprietorAPI.POST("/invite-users", handlers.Invitation.Create)
		proprietorAPI.DELETE("/manage-invitations/:token", handlers.Invitation.Revoke)
		proprietorAPI.POST("/bulk-import", handlers.Invitation.BulkImport)
	}

	return router
}
