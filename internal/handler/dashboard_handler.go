package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/schoolhub/schoolhub-backend/internal/authz"
	"github.com/schoolhub/schoolhub-backend/internal/middleware"
	"github.com/schoolhub/schoolhub-backend/internal/model"
	"github.com/schoolhub/schoolhub-backend/internal/response"
	"github.com/schoolhub/schoolhub-backend/internal/service"
)

// DashboardHandler serves the landing and dashboard shell payloads.
type DashboardHandler struct {
	auth *service.AuthService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(auth *service.AuthService) *DashboardHandler {
	return &DashboardHandler{auth: auth}
}

// Landing godoc
// GET /
// Public marketing landing payload.
func (h *DashboardHandler) Landing(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{
		"app":     "SchoolHub",
		"tagline": "School management for every role",
		"links": gin.H{
			"login":           "/auth/login",
			"register":        "/auth/register",
			"register_school": "/auth/register-school",
		},
	})
}

// SchoolLanding godoc
// GET /school
// The authenticated user's school landing page with branding.
func (h *DashboardHandler) SchoolLanding(c *gin.Context) {
	user := middleware.GetUser(c)

	payload := gin.H{
		"user":      user,
		"dashboard": authz.DashboardRoute(user.Role),
	}
	if school, err := h.auth.School(c.Request.Context(), user.SchoolCode); err == nil {
		payload["school"] = school
	}

	response.Success(c, http.StatusOK, payload)
}

// Home godoc
// GET /dashboard
// Sends the user to their role-specific dashboard. Roles without a dedicated
// dashboard get the generic shell instead.
func (h *DashboardHandler) Home(c *gin.Context) {
	user := middleware.GetUser(c)

	route := authz.DashboardRoute(user.Role)
	if route == authz.DashboardFallback {
		h.shell(c, user)
		return
	}
	c.Redirect(http.StatusFound, route)
}

// Show godoc
// GET /dashboard/{admin|teacher|secretary|proprietor|parent|student}
// Role dashboard shell: the user, their filtered menu and headline stats.
func (h *DashboardHandler) Show(c *gin.Context) {
	h.shell(c, middleware.GetUser(c))
}

func (h *DashboardHandler) shell(c *gin.Context, user *model.User) {
	response.Success(c, http.StatusOK, gin.H{
		"user":  user,
		"menu":  authz.MenuFor(user),
		"stats": dashboardStats(user.Role),
	})
}

// dashboardStats returns the headline cards each role's dashboard opens
// with. Static sample figures; clients render them as-is.
func dashboardStats(role model.Role) gin.H {
	switch role {
	case model.RoleAdmin:
		return gin.H{"students": 1250, "teachers": 86, "attendance_rate": "94.2%", "pending_fees": 23}
	case model.RoleTeacher:
		return gin.H{"classes": 6, "students": 184, "assignments_due": 12, "average_grade": "B+"}
	case model.RoleSecretary:
		return gin.H{"new_admissions": 18, "messages": 42, "fees_collected": "85%", "events_this_week": 3}
	case model.RoleProprietor:
		return gin.H{"revenue": "$128,400", "staff": 112, "enrollment_growth": "+8.5%", "pending_invitations": 7}
	case model.RoleParent:
		return gin.H{"children": 2, "upcoming_events": 4, "outstanding_fees": "$320", "unread_messages": 5}
	case model.RoleStudent:
		return gin.H{"courses": 8, "assignments_due": 3, "attendance": "96%", "gpa": "3.6"}
	}
	return gin.H{}
}
