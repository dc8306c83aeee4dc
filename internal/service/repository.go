package service

import (
	"context"
	"time"

	"github.com/schoolhub/schoolhub-backend/internal/model"
)

// The repositories are injected capabilities: production uses the pgx
// implementations in internal/repository, tests use in-memory fakes.

// UserRepository stores user accounts and their password hashes.
type UserRepository interface {
	// Create inserts u; returns ErrEmailTaken when the email is in use and
	// ErrSchoolNotFound when the school code references no school.
	Create(ctx context.Context, u *model.User, passwordHash string) error
	// GetByEmail returns the user and password hash, or ErrNotFound.
	GetByEmail(ctx context.Context, email string) (*model.User, string, error)
	// Update persists the mutable fields of u.
	Update(ctx context.Context, u *model.User) error
}

// SchoolRepository stores tenant schools.
type SchoolRepository interface {
	// Create inserts s; returns ErrSchoolExists on code/subdomain conflict.
	Create(ctx context.Context, s *model.School) error
	GetByCode(ctx context.Context, code string) (*model.School, error)
	// Delete removes a school by code; returns ErrNotFound when absent.
	Delete(ctx context.Context, code string) error
}

// InvitationRepository stores invitations.
type InvitationRepository interface {
	Create(ctx context.Context, inv *model.Invitation) error
	GetByToken(ctx context.Context, token string) (*model.Invitation, error)
	ListBySchool(ctx context.Context, schoolCode string) ([]model.Invitation, error)
	// MarkAccepted consumes a pending invitation exactly once; returns
	// ErrNotFound when the token is unknown or already consumed/revoked.
	MarkAccepted(ctx context.Context, token string, at time.Time) error
	Revoke(ctx context.Context, token, schoolCode string, at time.Time) error
}
