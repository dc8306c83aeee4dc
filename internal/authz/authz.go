// Package authz holds the pure role-authorization helpers: the role → route
// table and the capability predicates used to gate routes and filter menus.
package authz

import "github.com/schoolhub/schoolhub-backend/internal/model"

// DashboardFallback is returned for unknown or missing roles.
const DashboardFallback = "/dashboard"

var dashboardRoutes = map[model.Role]string{
	model.RoleAdmin:      "/dashboard/admin",
	model.RoleTeacher:    "/dashboard/teacher",
	model.RoleSecretary:  "/dashboard/secretary",
	model.RoleProprietor: "/dashboard/proprietor",
	model.RoleParent:     "/dashboard/parent",
	model.RoleStudent:    "/dashboard/student",
}

// DashboardRoute returns the canonical dashboard path for a role. Unknown
// roles fall back to the generic dashboard.
func DashboardRoute(role model.Role) string {
	if route, ok := dashboardRoutes[role]; ok {
		return route
	}
	return DashboardFallback
}

// HasRole reports whether user is present and its role is a member of roles.
func HasRole(user *model.User, roles ...model.Role) bool {
	if user == nil {
		return false
	}
	for _, r := range roles {
		if user.Role == r {
			return true
		}
	}
	return false
}

// The fixed capability sets below are a design contract, not derived from
// data.

func IsAdmin(user *model.User) bool {
	return HasRole(user, model.RoleAdmin)
}

func IsTeacher(user *model.User) bool {
	return HasRole(user, model.RoleTeacher)
}

func IsParent(user *model.User) bool {
	return HasRole(user, model.RoleParent)
}

func IsStudent(user *model.User) bool {
	return HasRole(user, model.RoleStudent)
}

// IsStaff covers every employed role: admin, teacher, secretary, proprietor.
func IsStaff(user *model.User) bool {
	return HasRole(user, model.RoleAdmin, model.RoleTeacher, model.RoleSecretary, model.RoleProprietor)
}

func CanManageStudents(user *model.User) bool {
	return HasRole(user, model.RoleAdmin, model.RoleTeacher, model.RoleSecretary)
}

func CanViewFinancials(user *model.User) bool {
	return HasRole(user, model.RoleAdmin, model.RoleProprietor, model.RoleSecretary)
}
