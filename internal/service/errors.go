package service

import "errors"

// Sentinel errors shared across services and their storage implementations.
var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("a user with this email already exists")
	ErrSchoolExists       = errors.New("school code or subdomain already taken")
	ErrSchoolNotFound     = errors.New("unknown school code")
	ErrNotAuthenticated   = errors.New("no user logged in")

	ErrInvitationInvalid    = errors.New("invalid invitation")
	ErrInvitationExpired    = errors.New("invitation expired")
	ErrPasswordMismatch     = errors.New("passwords do not match")
	ErrPasswordTooShort     = errors.New("password must be at least 8 characters long")
	ErrParentEmailRequired  = errors.New("parent email is required for student accounts")
	ErrRelationshipRequired = errors.New("relationship to student is required")
)
