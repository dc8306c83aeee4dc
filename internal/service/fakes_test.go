package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/schoolhub/schoolhub-backend/internal/config"
	"github.com/schoolhub/schoolhub-backend/internal/model"
	"github.com/schoolhub/schoolhub-backend/internal/session"
)

// In-memory repository fakes. They mirror the pgx implementations' error
// contracts so the services under test cannot tell the difference.

type memUserRepo struct {
	mu     sync.Mutex
	users  map[string]*model.User // keyed by lowercase email
	hashes map[string]string
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*model.User), hashes: make(map[string]string)}
}

func (r *memUserRepo) Create(_ context.Context, u *model.User, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.Email]; ok {
		return ErrEmailTaken
	}
	clone := *u
	r.users[u.Email] = &clone
	r.hashes[u.Email] = passwordHash
	return nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*model.User, string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[email]
	if !ok {
		return nil, "", ErrNotFound
	}
	clone := *u
	return &clone, r.hashes[email], nil
}

func (r *memUserRepo) Update(_ context.Context, u *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for email, existing := range r.users {
		if existing.ID == u.ID {
			clone := *u
			r.users[email] = &clone
			return nil
		}
	}
	return ErrNotFound
}

type memSchoolRepo struct {
	mu      sync.Mutex
	schools map[string]*model.School // keyed by code
}

func newMemSchoolRepo() *memSchoolRepo {
	return &memSchoolRepo{schools: make(map[string]*model.School)}
}

func (r *memSchoolRepo) Create(_ context.Context, s *model.School) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.schools[s.Code]; ok {
		return ErrSchoolExists
	}
	for _, existing := range r.schools {
		if existing.Subdomain == s.Subdomain {
			return ErrSchoolExists
		}
	}
	clone := *s
	clone.CreatedAt = time.Now()
	r.schools[s.Code] = &clone
	return nil
}

func (r *memSchoolRepo) Delete(_ context.Context, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.schools[code]; !ok {
		return ErrNotFound
	}
	delete(r.schools, code)
	return nil
}

func (r *memSchoolRepo) GetByCode(_ context.Context, code string) (*model.School, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.schools[code]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *s
	return &clone, nil
}

type memInvitationRepo struct {
	mu   sync.Mutex
	invs map[string]*model.Invitation
}

func newMemInvitationRepo() *memInvitationRepo {
	return &memInvitationRepo{invs: make(map[string]*model.Invitation)}
}

func (r *memInvitationRepo) Create(_ context.Context, inv *model.Invitation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *inv
	clone.CreatedAt = time.Now()
	r.invs[inv.Token] = &clone
	return nil
}

func (r *memInvitationRepo) GetByToken(_ context.Context, token string) (*model.Invitation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.invs[token]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *inv
	return &clone, nil
}

func (r *memInvitationRepo) ListBySchool(_ context.Context, schoolCode string) ([]model.Invitation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Invitation
	for _, inv := range r.invs {
		if inv.SchoolCode == schoolCode {
			out = append(out, *inv)
		}
	}
	return out, nil
}

func (r *memInvitationRepo) MarkAccepted(_ context.Context, token string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.invs[token]
	if !ok || inv.AcceptedAt != nil || inv.RevokedAt != nil {
		return ErrNotFound
	}
	inv.AcceptedAt = &at
	return nil
}

func (r *memInvitationRepo) Revoke(_ context.Context, token, schoolCode string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.invs[token]
	if !ok || inv.SchoolCode != schoolCode || inv.AcceptedAt != nil || inv.RevokedAt != nil {
		return ErrNotFound
	}
	inv.RevokedAt = &at
	return nil
}

// recordingMailer captures outbound mail for assertions.
type recordingMailer struct {
	mu          sync.Mutex
	invitations []string // accept URLs
	resets      []string // recipient emails
}

func (m *recordingMailer) SendInvitation(_ context.Context, _ *model.Invitation, acceptURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invitations = append(m.invitations, acceptURL)
	return nil
}

func (m *recordingMailer) SendPasswordReset(_ context.Context, email, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resets = append(m.resets, email)
	return nil
}

// testConfig returns a config tuned for fast tests.
func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:     "test-secret",
		JWTExpiry:     time.Hour,
		BcryptCost:    4,
		BaseURL:       "http://localhost:8080",
		InvitationTTL: 7 * 24 * time.Hour,
	}
}

// testEnv bundles an AuthService and InvitationService over in-memory
// dependencies.
type testEnv struct {
	cfg      *config.Config
	users    *memUserRepo
	schools  *memSchoolRepo
	invs     *memInvitationRepo
	sessions *session.MemoryStore
	mail     *recordingMailer
	auth     *AuthService
	invites  *InvitationService
}

func newTestEnv() *testEnv {
	env := &testEnv{
		cfg:      testConfig(),
		users:    newMemUserRepo(),
		schools:  newMemSchoolRepo(),
		invs:     newMemInvitationRepo(),
		sessions: session.NewMemoryStore(),
		mail:     &recordingMailer{},
	}
	log := zerolog.Nop()
	env.auth = NewAuthService(env.cfg, env.users, env.schools, env.sessions, env.mail, log)
	env.invites = NewInvitationService(env.cfg, env.invs, env.schools, env.auth, env.mail, log)
	return env
}

// registerTeacher seeds an account and returns it with a live session token.
func (env *testEnv) registerTeacher(ctx context.Context) (*model.User, string, error) {
	return env.auth.Register(ctx, &model.RegisterData{
		Role:       model.RoleTeacher,
		FirstName:  "Jane",
		LastName:   "Doe",
		Email:      "jane@example.com",
		Password:   "password123",
		SchoolCode: "GHS042",
		SchoolName: "Greenwood High",
		Staff:      &model.StaffProfile{EmployeeID: "EMP007", Department: "Science"},
	})
}
