package model

import "time"

// Role identifies one of the six fixed principal kinds.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleTeacher    Role = "teacher"
	RoleSecretary  Role = "secretary"
	RoleProprietor Role = "proprietor"
	RoleParent     Role = "parent"
	RoleStudent    Role = "student"
)

// AllRoles lists every valid role.
var AllRoles = []Role{RoleAdmin, RoleTeacher, RoleSecretary, RoleProprietor, RoleParent, RoleStudent}

// Valid reports whether r is one of the six known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleTeacher, RoleSecretary, RoleProprietor, RoleParent, RoleStudent:
		return true
	}
	return false
}

// IsStaffRole reports whether r carries a staff profile.
func (r Role) IsStaffRole() bool {
	switch r {
	case RoleAdmin, RoleTeacher, RoleSecretary, RoleProprietor:
		return true
	}
	return false
}

// StudentProfile carries the fields only meaningful for student accounts.
type StudentProfile struct {
	StudentID   string `json:"student_id"`
	ClassGrade  string `json:"class_grade,omitempty"`
	ParentEmail string `json:"parent_email,omitempty"`
	DateOfBirth string `json:"date_of_birth,omitempty"`
}

// StaffProfile carries the fields shared by admin, teacher, secretary and
// proprietor accounts.
type StaffProfile struct {
	EmployeeID     string `json:"employee_id"`
	Department     string `json:"department,omitempty"`
	Qualifications string `json:"qualifications,omitempty"`
	Experience     string `json:"experience,omitempty"`
}

// ParentProfile carries the fields only meaningful for parent accounts.
type ParentProfile struct {
	StudentID    string `json:"student_id"`
	Relationship string `json:"relationship,omitempty"`
	Occupation   string `json:"occupation,omitempty"`
}

// User represents an authenticated principal. Exactly one of Student, Staff
// or Parent is non-nil, matching Role. Role never changes within a session.
type User struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Role       Role      `json:"role"`
	SchoolCode string    `json:"school_code"`
	SchoolName string    `json:"school_name"`
	Phone      string    `json:"phone,omitempty"`
	Address    string    `json:"address,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Student *StudentProfile `json:"student,omitempty"`
	Staff   *StaffProfile   `json:"staff,omitempty"`
	Parent  *ParentProfile  `json:"parent,omitempty"`
}

// LoginRequest is the payload for authentication.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=1,max=128"`
	Role     Role   `json:"role" binding:"required,oneof=admin teacher secretary proprietor parent student"`
}

// RegisterData is the payload for creating a new account.
type RegisterData struct {
	Role       Role   `json:"role" binding:"required,oneof=admin teacher secretary proprietor parent student"`
	FirstName  string `json:"first_name" binding:"required,min=1,max=100"`
	LastName   string `json:"last_name" binding:"required,min=1,max=100"`
	Email      string `json:"email" binding:"required,email,max=255"`
	Password   string `json:"password" binding:"required,min=8,max=128"`
	SchoolCode string `json:"school_code" binding:"required,min=2,max=20"`
	SchoolName string `json:"school_name" binding:"required,min=2,max=200"`
	Phone      string `json:"phone" binding:"omitempty,max=30"`
	Address    string `json:"address" binding:"omitempty,max=300"`

	Student *StudentProfile `json:"student" binding:"omitempty"`
	Staff   *StaffProfile   `json:"staff" binding:"omitempty"`
	Parent  *ParentProfile  `json:"parent" binding:"omitempty"`
}

// UpdateProfileRequest is a merge-patch over the current user: only the
// fields present in the payload change, everything else is left untouched.
// A profile pointer, when present, replaces that role's profile wholesale.
type UpdateProfileRequest struct {
	FirstName *string `json:"first_name" binding:"omitempty,min=1,max=100"`
	LastName  *string `json:"last_name" binding:"omitempty,min=1,max=100"`
	Phone     *string `json:"phone" binding:"omitempty,max=30"`
	Address   *string `json:"address" binding:"omitempty,max=300"`

	Student *StudentProfile `json:"student" binding:"omitempty"`
	Staff   *StaffProfile   `json:"staff" binding:"omitempty"`
	Parent  *ParentProfile  `json:"parent" binding:"omitempty"`
}

// ApplyTo merges the patch onto u, patch fields winning.
func (p *UpdateProfileRequest) ApplyTo(u *User) {
	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		u.LastName = *p.LastName
	}
	if p.Phone != nil {
		u.Phone = *p.Phone
	}
	if p.Address != nil {
		u.Address = *p.Address
	}
	if p.Student != nil && u.Role == RoleStudent {
		u.Student = p.Student
	}
	if p.Staff != nil && u.Role.IsStaffRole() {
		u.Staff = p.Staff
	}
	if p.Parent != nil && u.Role == RoleParent {
		u.Parent = p.Parent
	}
}

// ForgotPasswordRequest is the payload for requesting a reset message.
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email,max=255"`
}
