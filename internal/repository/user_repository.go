package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/schoolhub/schoolhub-backend/internal/model"
	"github.com/schoolhub/schoolhub-backend/internal/service"
)

// UserRepository handles user data access.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// profile is the jsonb column payload holding the role-specific variant.
type profile struct {
	Student *model.StudentProfile `json:"student,omitempty"`
	Staff   *model.StaffProfile   `json:"staff,omitempty"`
	Parent  *model.ParentProfile  `json:"parent,omitempty"`
}

// Create inserts a new user.
func (r *UserRepository) Create(ctx context.Context, u *model.User, passwordHash string) error {
	prof, err := json.Marshal(profile{Student: u.Student, Staff: u.Staff, Parent: u.Parent})
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}

	err = r.pool.QueryRow(ctx,
		`INSERT INTO users (id, email, password_hash, first_name, last_name, role, school_code, school_name, phone, address, profile)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING created_at, updated_at`,
		u.ID, u.Email, passwordHash, u.FirstName, u.LastName, u.Role,
		u.SchoolCode, u.SchoolName, u.Phone, u.Address, prof,
	).Scan(&u.CreatedAt, &u.UpdatedAt)
	if isUniqueViolation(err) {
		return service.ErrEmailTaken
	}
	if isForeignKeyViolation(err) {
		return service.ErrSchoolNotFound
	}
	return err
}

// GetByEmail retrieves a user and their password hash by email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, string, error) {
	u := &model.User{}
	var hash string
	var prof profile

	err := r.pool.QueryRow(ctx,
		`SELECT id, email, password_hash, first_name, last_name, role, school_code, school_name, phone, address, profile, created_at, updated_at
		 FROM users WHERE email = $1`, email,
	).Scan(&u.ID, &u.Email, &hash, &u.FirstName, &u.LastName, &u.Role,
		&u.SchoolCode, &u.SchoolName, &u.Phone, &u.Address, &prof, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", service.ErrNotFound
		}
		return nil, "", err
	}

	u.Student, u.Staff, u.Parent = prof.Student, prof.Staff, prof.Parent
	return u, hash, nil
}

// Update persists the mutable fields of an existing user.
func (r *UserRepository) Update(ctx context.Context, u *model.User) error {
	prof, err := json.Marshal(profile{Student: u.Student, Staff: u.Staff, Parent: u.Parent})
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}

	tag, err := r.pool.Exec(ctx,
		`UPDATE users
		 SET first_name = $2, last_name = $3, phone = $4, address = $5, profile = $6, updated_at = now()
		 WHERE id = $1`,
		u.ID, u.FirstName, u.LastName, u.Phone, u.Address, prof,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return service.ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
