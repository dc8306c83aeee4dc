package authz

import "github.com/schoolhub/schoolhub-backend/internal/model"

// MenuItem is a single dashboard navigation entry, visible only to the
// listed roles.
type MenuItem struct {
	Label string       `json:"label"`
	Href  string       `json:"href"`
	Roles []model.Role `json:"-"`
}

// menu is the static navigation table shared by every dashboard shell.
var menu = []MenuItem{
	{Label: "Dashboard", Href: DashboardFallback, Roles: model.AllRoles},
	{Label: "User Management", Href: "/dashboard/users", Roles: []model.Role{model.RoleAdmin}},
	{Label: "School Settings", Href: "/dashboard/schools", Roles: []model.Role{model.RoleAdmin, model.RoleProprietor}},
	{Label: "Analytics & Reports", Href: "/dashboard/reports", Roles: []model.Role{model.RoleAdmin, model.RoleProprietor, model.RoleSecretary}},
	{Label: "Students", Href: "/dashboard/students", Roles: []model.Role{model.RoleAdmin, model.RoleTeacher, model.RoleSecretary}},
	{Label: "Classes", Href: "/dashboard/classes", Roles: []model.Role{model.RoleAdmin, model.RoleTeacher, model.RoleSecretary}},
	{Label: "Attendance", Href: "/dashboard/attendance", Roles: []model.Role{model.RoleAdmin, model.RoleTeacher, model.RoleSecretary}},
	{Label: "Grades & Results", Href: "/dashboard/grades", Roles: []model.Role{model.RoleAdmin, model.RoleTeacher, model.RoleParent, model.RoleStudent}},
	{Label: "Assignments", Href: "/dashboard/assignments", Roles: []model.Role{model.RoleTeacher, model.RoleStudent, model.RoleParent}},
	{Label: "Fee Management", Href: "/dashboard/fees", Roles: []model.Role{model.RoleAdmin, model.RoleSecretary, model.RoleProprietor, model.RoleParent}},
	{Label: "Payments", Href: "/dashboard/payments", Roles: []model.Role{model.RoleAdmin, model.RoleSecretary, model.RoleProprietor, model.RoleParent}},
	{Label: "Messages", Href: "/dashboard/messages", Roles: []model.Role{model.RoleAdmin, model.RoleTeacher, model.RoleSecretary, model.RoleParent}},
	{Label: "Announcements", Href: "/dashboard/announcements", Roles: []model.Role{model.RoleAdmin, model.RoleTeacher, model.RoleSecretary, model.RoleParent, model.RoleStudent}},
	{Label: "Payroll", Href: "/dashboard/payroll", Roles: []model.Role{model.RoleAdmin, model.RoleProprietor}},
	{Label: "Invite Users", Href: "/dashboard/invite-users", Roles: []model.Role{model.RoleProprietor}},
	{Label: "Manage Invitations", Href: "/dashboard/manage-invitations", Roles: []model.Role{model.RoleProprietor}},
	{Label: "Bulk Import", Href: "/dashboard/bulk-import", Roles: []model.Role{model.RoleProprietor}},
	{Label: "Schedule", Href: "/dashboard/schedule", Roles: []model.Role{model.RoleTeacher, model.RoleStudent}},
	{Label: "My Children", Href: "/dashboard/children", Roles: []model.Role{model.RoleParent}},
	{Label: "My Profile", Href: "/dashboard/profile", Roles: []model.Role{model.RoleStudent, model.RoleParent}},
}

// MenuFor filters the navigation table down to the items visible to user.
// The Dashboard entry points at the user's own dashboard route.
func MenuFor(user *model.User) []MenuItem {
	items := make([]MenuItem, 0, len(menu))
	for _, item := range menu {
		if !HasRole(user, item.Roles...) {
			continue
		}
		if item.Href == DashboardFallback {
			item.Href = DashboardRoute(user.Role)
		}
		items = append(items, item)
	}
	return items
}
