package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/schoolhub/schoolhub-backend/internal/model"
	"github.com/schoolhub/schoolhub-backend/internal/service"
)

// InvitationRepository handles invitation data access.
type InvitationRepository struct {
	pool *pgxpool.Pool
}

// NewInvitationRepository creates a new InvitationRepository.
func NewInvitationRepository(pool *pgxpool.Pool) *InvitationRepository {
	return &InvitationRepository{pool: pool}
}

// Create inserts a new invitation.
func (r *InvitationRepository) Create(ctx context.Context, inv *model.Invitation) error {
	info, err := json.Marshal(inv.Info)
	if err != nil {
		return fmt.Errorf("marshal info: %w", err)
	}

	return r.pool.QueryRow(ctx,
		`INSERT INTO invitations (token, email, role, first_name, last_name, school_code, school_name, invited_by, info, expires_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING created_at`,
		inv.Token, inv.Email, inv.Role, inv.FirstName, inv.LastName,
		inv.SchoolCode, inv.SchoolName, inv.InvitedBy, info, inv.ExpiresAt,
	).Scan(&inv.CreatedAt)
}

// GetByToken retrieves an invitation by its token.
func (r *InvitationRepository) GetByToken(ctx context.Context, token string) (*model.Invitation, error) {
	inv := &model.Invitation{}
	var info model.InvitationInfo

	err := r.pool.QueryRow(ctx,
		`SELECT token, email, role, first_name, last_name, school_code, school_name, invited_by, info, expires_at, accepted_at, revoked_at, created_at
		 FROM invitations WHERE token = $1`, token,
	).Scan(&inv.Token, &inv.Email, &inv.Role, &inv.FirstName, &inv.LastName,
		&inv.SchoolCode, &inv.SchoolName, &inv.InvitedBy, &info,
		&inv.ExpiresAt, &inv.AcceptedAt, &inv.RevokedAt, &inv.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, service.ErrNotFound
		}
		return nil, err
	}

	inv.Info = info
	return inv, nil
}

// ListBySchool returns every invitation for a school, newest first.
func (r *InvitationRepository) ListBySchool(ctx context.Context, schoolCode string) ([]model.Invitation, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT token, email, role, first_name, last_name, school_code, school_name, invited_by, info, expires_at, accepted_at, revoked_at, created_at
		 FROM invitations WHERE school_code = $1 ORDER BY created_at DESC`, schoolCode)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invs []model.Invitation
	for rows.Next() {
		var inv model.Invitation
		var info model.InvitationInfo
		if err := rows.Scan(&inv.Token, &inv.Email, &inv.Role, &inv.FirstName, &inv.LastName,
			&inv.SchoolCode, &inv.SchoolName, &inv.InvitedBy, &info,
			&inv.ExpiresAt, &inv.AcceptedAt, &inv.RevokedAt, &inv.CreatedAt); err != nil {
			return nil, err
		}
		inv.Info = info
		invs = append(invs, inv)
	}
	return invs, rows.Err()
}

// MarkAccepted consumes a pending invitation. The WHERE clause guarantees a
// token is only ever consumed once.
func (r *InvitationRepository) MarkAccepted(ctx context.Context, token string, at time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE invitations SET accepted_at = $2
		 WHERE token = $1 AND accepted_at IS NULL AND revoked_at IS NULL`,
		token, at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return service.ErrNotFound
	}
	return nil
}

// Revoke withdraws a pending invitation belonging to schoolCode.
func (r *InvitationRepository) Revoke(ctx context.Context, token, schoolCode string, at time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE invitations SET revoked_at = $2
		 WHERE token = $1 AND school_code = $3 AND accepted_at IS NULL AND revoked_at IS NULL`,
		token, at, schoolCode)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return service.ErrNotFound
	}
	return nil
}
