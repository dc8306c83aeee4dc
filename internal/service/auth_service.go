package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/schoolhub/schoolhub-backend/internal/config"
	"github.com/schoolhub/schoolhub-backend/internal/mailer"
	"github.com/schoolhub/schoolhub-backend/internal/model"
	"github.com/schoolhub/schoolhub-backend/internal/session"
)

// Claims extends JWT standard claims with the fields the guard needs without
// a session lookup.
type Claims struct {
	jwt.RegisteredClaims
	Role       model.Role `json:"role"`
	SchoolCode string     `json:"school_code"`
}

// AuthService owns the session lifecycle: login, registration, hydration,
// profile updates and logout. All durable state goes through the injected
// session store and repositories.
type AuthService struct {
	cfg      *config.Config
	users    UserRepository
	schools  SchoolRepository
	sessions session.Store
	mail     mailer.Mailer
	log      zerolog.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(
	cfg *config.Config,
	users UserRepository,
	schools SchoolRepository,
	sessions session.Store,
	mail mailer.Mailer,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		cfg:      cfg,
		users:    users,
		schools:  schools,
		sessions: sessions,
		mail:     mail,
		log:      log,
	}
}

// HashPassword hashes a password with the configured bcrypt cost.
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cfg.BcryptCost)
	return string(hash), err
}

// CheckPassword compares a plaintext password against a bcrypt hash.
func (s *AuthService) CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

// Login authenticates email+password for the requested role and opens a new
// session. Any lookup, password or role mismatch resolves to
// ErrInvalidCredentials so callers cannot probe which part failed.
func (s *AuthService) Login(ctx context.Context, email, password string, role model.Role) (*model.User, string, error) {
	user, hash, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, "", ErrInvalidCredentials
	}
	if user.Role != role {
		return nil, "", ErrInvalidCredentials
	}
	if err := s.CheckPassword(hash, password); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.openSession(ctx, user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Register creates a new account with a fresh id and opens a session for it.
func (s *AuthService) Register(ctx context.Context, data *model.RegisterData) (*model.User, string, error) {
	user := &model.User{
		ID:         uuid.New().String(),
		Email:      strings.ToLower(strings.TrimSpace(data.Email)),
		FirstName:  data.FirstName,
		LastName:   data.LastName,
		Role:       data.Role,
		SchoolCode: data.SchoolCode,
		SchoolName: data.SchoolName,
		Phone:      data.Phone,
		Address:    data.Address,
	}
	// Keep exactly the profile variant matching the role.
	switch {
	case data.Role == model.RoleStudent:
		user.Student = data.Student
		if user.Student == nil {
			user.Student = &model.StudentProfile{}
		}
	case data.Role == model.RoleParent:
		user.Parent = data.Parent
		if user.Parent == nil {
			user.Parent = &model.ParentProfile{}
		}
	case data.Role.IsStaffRole():
		user.Staff = data.Staff
		if user.Staff == nil {
			user.Staff = &model.StaffProfile{}
		}
	}

	hash, err := s.HashPassword(data.Password)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	if err := s.users.Create(ctx, user, hash); err != nil {
		return nil, "", err
	}

	token, err := s.openSession(ctx, user)
	if err != nil {
		return nil, "", err
	}

	s.log.Info().
		Str("user_id", user.ID).
		Str("role", string(user.Role)).
		Str("school", user.SchoolCode).
		Msg("Account registered")

	return user, token, nil
}

// RegisterSchool creates a new tenant school together with its proprietor
// account and opens a session for the proprietor.
func (s *AuthService) RegisterSchool(ctx context.Context, data *model.SchoolRegistrationData) (*model.School, *model.User, string, error) {
	branding := model.Branding{
		PrimaryColor:   data.PrimaryColor,
		SecondaryColor: data.SecondaryColor,
		AccentColor:    data.AccentColor,
	}
	if branding.PrimaryColor == "" {
		branding.PrimaryColor = model.DefaultBranding.PrimaryColor
	}
	if branding.SecondaryColor == "" {
		branding.SecondaryColor = model.DefaultBranding.SecondaryColor
	}
	if branding.AccentColor == "" {
		branding.AccentColor = model.DefaultBranding.AccentColor
	}

	school := &model.School{
		Name:      data.SchoolName,
		Subdomain: strings.ToLower(data.Subdomain),
		Email:     data.SchoolEmail,
		Phone:     data.SchoolPhone,
		Address:   data.SchoolAddress,
		Branding:  branding,
	}

	// School codes are initials plus a random suffix; regenerate on the
	// rare collision. A persistent conflict means the subdomain is taken.
	var err error
	for attempt := 0; attempt < 3; attempt++ {
		school.Code = generateSchoolCode(data.SchoolName)
		if err = s.schools.Create(ctx, school); err == nil {
			break
		}
		if !errors.Is(err, ErrSchoolExists) {
			return nil, nil, "", err
		}
	}
	if err != nil {
		return nil, nil, "", err
	}

	user, token, err := s.Register(ctx, &model.RegisterData{
		Role:       model.RoleProprietor,
		FirstName:  data.FirstName,
		LastName:   data.LastName,
		Email:      data.Email,
		Password:   data.Password,
		SchoolCode: school.Code,
		SchoolName: school.Name,
		Phone:      data.Phone,
		Staff:      &model.StaffProfile{EmployeeID: "PRO001", Department: "Management"},
	})
	if err != nil {
		// Unwind the school so its code and subdomain are free for a retry.
		if delErr := s.schools.Delete(ctx, school.Code); delErr != nil {
			s.log.Error().Err(delErr).Str("school_code", school.Code).Msg("Orphaned school cleanup failed")
		}
		return nil, nil, "", err
	}

	s.log.Info().
		Str("school_code", school.Code).
		Str("subdomain", school.Subdomain).
		Msg("School registered")

	return school, user, token, nil
}

// Authenticate hydrates the session for a raw bearer token. A missing,
// invalid or corrupt session resolves to ErrNotAuthenticated; the stored
// entry is never half-trusted.
func (s *AuthService) Authenticate(ctx context.Context, tokenStr string) (*model.User, error) {
	claims, err := s.ValidateToken(tokenStr)
	if err != nil {
		return nil, ErrNotAuthenticated
	}

	user, err := s.sessions.Load(ctx, claims.ID)
	if err != nil {
		return nil, ErrNotAuthenticated
	}
	return user, nil
}

// Logout closes the session for tokenStr. Idempotent: unknown or invalid
// tokens are a no-op.
func (s *AuthService) Logout(ctx context.Context, tokenStr string) error {
	claims, err := s.ValidateToken(tokenStr)
	if err != nil {
		return nil
	}
	return s.sessions.Clear(ctx, claims.ID)
}

// ResetPassword sends a password-reset message. It never changes session
// state and always resolves, regardless of whether the email is known.
func (s *AuthService) ResetPassword(ctx context.Context, email string) error {
	resetURL := fmt.Sprintf("%s/auth/reset-password?token=%s", s.cfg.BaseURL, uuid.New().String())
	if err := s.mail.SendPasswordReset(ctx, email, resetURL); err != nil {
		s.log.Warn().Err(err).Str("email", email).Msg("Password reset mail failed")
	}
	return nil
}

// UpdateProfile merges patch onto the current user (patch fields win),
// persists the result and refreshes the stored session so a later hydration
// reproduces it exactly. Returns ErrNotAuthenticated when tokenStr carries
// no live session.
func (s *AuthService) UpdateProfile(ctx context.Context, tokenStr string, patch *model.UpdateProfileRequest) (*model.User, error) {
	claims, err := s.ValidateToken(tokenStr)
	if err != nil {
		return nil, ErrNotAuthenticated
	}
	user, err := s.sessions.Load(ctx, claims.ID)
	if err != nil {
		return nil, ErrNotAuthenticated
	}

	patch.ApplyTo(user)
	user.UpdatedAt = time.Now().UTC()

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	if err := s.sessions.Save(ctx, claims.ID, user); err != nil {
		return nil, err
	}
	return user, nil
}

// School returns the school record for a code, used for branded login pages.
func (s *AuthService) School(ctx context.Context, code string) (*model.School, error) {
	return s.schools.GetByCode(ctx, code)
}

// ValidateToken parses and validates a JWT, returning the claims.
func (s *AuthService) ValidateToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// openSession signs a JWT for user and saves the session under its JTI.
func (s *AuthService) openSession(ctx context.Context, user *model.User) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.JWTExpiry)),
		},
		Role:       user.Role,
		SchoolCode: user.SchoolCode,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	if err := s.sessions.Save(ctx, claims.ID, user); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return signed, nil
}

// generateSchoolCode derives a short code like "GHS042" from the school name.
func generateSchoolCode(name string) string {
	var initials []rune
	for _, word := range strings.Fields(name) {
		r := []rune(word)[0]
		if unicode.IsLetter(r) {
			initials = append(initials, unicode.ToUpper(r))
		}
		if len(initials) == 3 {
			break
		}
	}
	if len(initials) == 0 {
		initials = []rune("SCH")
	}

	id := uuid.New()
	suffix := (int(id[0])<<8 | int(id[1])) % 1000
	return fmt.Sprintf("%s%03d", string(initials), suffix)
}
