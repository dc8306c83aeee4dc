package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/schoolhub/schoolhub-backend/internal/model"
	"github.com/schoolhub/schoolhub-backend/internal/service"
)

// SchoolRepository handles school data access.
type SchoolRepository struct {
	pool *pgxpool.Pool
}

// NewSchoolRepository creates a new SchoolRepository.
func NewSchoolRepository(pool *pgxpool.Pool) *SchoolRepository {
	return &SchoolRepository{pool: pool}
}

// Create inserts a new school.
func (r *SchoolRepository) Create(ctx context.Context, s *model.School) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO schools (code, name, subdomain, email, phone, address, primary_color, secondary_color, accent_color)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING created_at`,
		s.Code, s.Name, s.Subdomain, s.Email, s.Phone, s.Address,
		s.Branding.PrimaryColor, s.Branding.SecondaryColor, s.Branding.AccentColor,
	).Scan(&s.CreatedAt)
	if isUniqueViolation(err) {
		return service.ErrSchoolExists
	}
	return err
}

// Delete removes a school. Used to unwind a school whose proprietor account
// could not be created.
func (r *SchoolRepository) Delete(ctx context.Context, code string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM schools WHERE code = $1`, code)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return service.ErrNotFound
	}
	return nil
}

// GetByCode retrieves a school by its code.
func (r *SchoolRepository) GetByCode(ctx context.Context, code string) (*model.School, error) {
	s := &model.School{}
	err := r.pool.QueryRow(ctx,
		`SELECT code, name, subdomain, email, phone, address, primary_color, secondary_color, accent_color, created_at
		 FROM schools WHERE code = $1`, code,
	).Scan(&s.Code, &s.Name, &s.Subdomain, &s.Email, &s.Phone, &s.Address,
		&s.Branding.PrimaryColor, &s.Branding.SecondaryColor, &s.Branding.AccentColor, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, service.ErrNotFound
		}
		return nil, err
	}
	return s, nil
}
