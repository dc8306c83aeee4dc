package model

import "time"

// InvitationInfo carries the role-specific fields fixed by the inviter.
type InvitationInfo struct {
	EmployeeID string `json:"employee_id,omitempty"`
	Department string `json:"department,omitempty"`
	StudentID  string `json:"student_id,omitempty"`
	ClassGrade string `json:"class_grade,omitempty"`
}

// Invitation is a token-addressable, time-limited offer for a specific email
// to join a specific school under a specific role. It is consumed exactly
// once: AcceptedAt is set on acceptance and the token is never reusable.
type Invitation struct {
	Token      string         `json:"token"`
	Email      string         `json:"email"`
	Role       Role           `json:"role"`
	FirstName  string         `json:"first_name"`
	LastName   string         `json:"last_name"`
	SchoolCode string         `json:"school_code"`
	SchoolName string         `json:"school_name"`
	InvitedBy  string         `json:"invited_by"`
	Info       InvitationInfo `json:"info"`
	ExpiresAt  time.Time      `json:"expires_at"`
	AcceptedAt *time.Time     `json:"accepted_at,omitempty"`
	RevokedAt  *time.Time     `json:"revoked_at,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

// Pending reports whether the invitation is still acceptable at t.
func (inv *Invitation) Pending(t time.Time) bool {
	return inv.AcceptedAt == nil && inv.RevokedAt == nil && inv.ExpiresAt.After(t)
}

// CreateInvitationRequest is the proprietor's payload for inviting a user.
type CreateInvitationRequest struct {
	Email     string         `json:"email" binding:"required,email,max=255"`
	Role      Role           `json:"role" binding:"required,oneof=admin teacher secretary proprietor parent student"`
	FirstName string         `json:"first_name" binding:"required,min=1,max=100"`
	LastName  string         `json:"last_name" binding:"required,min=1,max=100"`
	Info      InvitationInfo `json:"info" binding:"omitempty"`
}

// AcceptInvitationRequest is the registration form submitted against a
// resolved invitation. Role is derived from the invitation, never from the
// form. Business validation (password equality, length, role-specific
// required fields) happens in the invitation service so the checks run in a
// fixed order.
type AcceptInvitationRequest struct {
	Password        string `json:"password" binding:"required,max=128"`
	ConfirmPassword string `json:"confirm_password" binding:"required,max=128"`
	Phone           string `json:"phone" binding:"omitempty,max=30"`
	Address         string `json:"address" binding:"omitempty,max=300"`

	// Student
	ParentEmail string `json:"parent_email" binding:"omitempty,email,max=255"`
	DateOfBirth string `json:"date_of_birth" binding:"omitempty,max=20"`

	// Staff
	Qualifications string `json:"qualifications" binding:"omitempty,max=500"`
	Experience     string `json:"experience" binding:"omitempty,max=500"`

	// Parent
	Occupation   string `json:"occupation" binding:"omitempty,max=100"`
	Relationship string `json:"relationship" binding:"omitempty,oneof=father mother guardian other"`
}

// ImportResult summarizes a bulk CSV import of invitations.
type ImportResult struct {
	Imported int           `json:"imported"`
	Failed   []ImportError `json:"failed,omitempty"`
}

// ImportError reports a single rejected CSV row.
type ImportError struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}
