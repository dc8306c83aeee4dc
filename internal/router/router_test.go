package router

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/schoolhub/schoolhub-backend/internal/config"
	"github.com/schoolhub/schoolhub-backend/internal/handler"
	"github.com/schoolhub/schoolhub-backend/internal/mailer"
	"github.com/schoolhub/schoolhub-backend/internal/model"
	"github.com/schoolhub/schoolhub-backend/internal/service"
	"github.com/schoolhub/schoolhub-backend/internal/session"
	"github.com/schoolhub/schoolhub-backend/internal/validator"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	validator.Setup()
	os.Exit(m.Run())
}

// ─── In-Memory Repositories ────────────────────────────────────────────────

type memUsers struct {
	mu      sync.Mutex
	users   map[string]*model.User
	hashes  map[string]string
	schools *memSchools
}

func (r *memUsers) Create(ctx context.Context, u *model.User, hash string) error {
	// users.school_code references schools(code).
	if _, err := r.schools.GetByCode(ctx, u.SchoolCode); err != nil {
		return service.ErrSchoolNotFound
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.Email]; ok {
		return service.ErrEmailTaken
	}
	clone := *u
	r.users[u.Email] = &clone
	r.hashes[u.Email] = hash
	return nil
}

func (r *memUsers) GetByEmail(_ context.Context, email string) (*model.User, string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[email]
	if !ok {
		return nil, "", service.ErrNotFound
	}
	clone := *u
	return &clone, r.hashes[email], nil
}

func (r *memUsers) Update(_ context.Context, u *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for email, existing := range r.users {
		if existing.ID == u.ID {
			clone := *u
			r.users[email] = &clone
			return nil
		}
	}
	return service.ErrNotFound
}

type memSchools struct {
	mu      sync.Mutex
	schools map[string]*model.School
}

func (r *memSchools) Create(_ context.Context, s *model.School) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.schools[s.Code]; ok {
		return service.ErrSchoolExists
	}
	clone := *s
	r.schools[s.Code] = &clone
	return nil
}

func (r *memSchools) Delete(_ context.Context, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.schools[code]; !ok {
		return service.ErrNotFound
	}
	delete(r.schools, code)
	return nil
}

func (r *memSchools) GetByCode(_ context.Context, code string) (*model.School, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.schools[code]
	if !ok {
		return nil, service.ErrNotFound
	}
	clone := *s
	return &clone, nil
}

type memInvitations struct {
	mu   sync.Mutex
	invs map[string]*model.Invitation
}

func (r *memInvitations) Create(_ context.Context, inv *model.Invitation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *inv
	r.invs[inv.Token] = &clone
	return nil
}

func (r *memInvitations) GetByToken(_ context.Context, token string) (*model.Invitation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.invs[token]
	if !ok {
		return nil, service.ErrNotFound
	}
	clone := *inv
	return &clone, nil
}

func (r *memInvitations) ListBySchool(_ context.Context, schoolCode string) ([]model.Invitation, error) {
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

func (r *memInvitations) MarkAccepted(_ context.Context, token string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.invs[token]
	if !ok || inv.AcceptedAt != nil || inv.RevokedAt != nil {
		return service.ErrNotFound
	}
	inv.AcceptedAt = &at
	return nil
}

func (r *memInvitations) Revoke(_ context.Context, token, schoolCode string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.invs[token]
	if !ok || inv.SchoolCode != schoolCode || inv.AcceptedAt != nil || inv.RevokedAt != nil {
		return service.ErrNotFound
	}
	inv.RevokedAt = &at
	return nil
}

// ─── Harness ───────────────────────────────────────────────────────────────

func newTestRouter() *gin.Engine {
	cfg := &config.Config{
		GinMode:       gin.TestMode,
		JWTSecret:     "test-secret",
		JWTExpiry:     time.Hour,
		BcryptCost:    4,
		BaseURL:       "http://localhost:8080",
		InvitationTTL: 7 * 24 * time.Hour,
	}
	log := zerolog.Nop()
	mail := mailer.NewConsoleMailer(log)
	sessions := session.NewMemoryStore()

	schools := &memSchools{schools: make(map[string]*model.School)}
	users := &memUsers{users: make(map[string]*model.User), hashes: make(map[string]string), schools: schools}
	invs := &memInvitations{invs: make(map[string]*model.Invitation)}

	authService := service.NewAuthService(cfg, users, schools, sessions, mail, log)
	invitationService := service.NewInvitationService(cfg, invs, schools, authService, mail, log)

	return SetupRouter(authService, &Handlers{
		Auth:       handler.NewAuthHandler(cfg, authService),
		Invitation: handler.NewInvitationHandler(cfg, invitationService),
		Dashboard:  handler.NewDashboardHandler(authService),
	}, cfg)
}

// envelope mirrors the response wrapper for decoding in assertions.
type envelope struct {
	Data  map[string]json.RawMessage `json:"data"`
	Error *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Fields  map[string]string `json:"fields"`
	} `json:"error"`
}

func do(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) (*httptest.ResponseRecorder, *envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	env := &envelope{}
	if strings.Contains(w.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(w.Body.Bytes(), env); err != nil {
			t.Fatalf("decode response %q: %v", w.Body.String(), err)
		}
	}
	return w, env
}

func dataString(t *testing.T, env *envelope, key string) string {
	t.Helper()
	raw, ok := env.Data[key]
	if !ok {
		t.Fatalf("response data missing %q", key)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		t.Fatalf("data[%q] is not a string: %s", key, raw)
	}
	return s
}

func registerSchool(t *testing.T, r *gin.Engine) (token string, schoolCode string) {
	t.Helper()
	w, env := do(t, r, http.MethodPost, "/auth/register-school", "", gin.H{
		"first_name":     "Ada",
		"last_name":      "Okafor",
		"email":          "ada@example.com",
		"password":       "password123",
		"school_name":    "Greenwood High School",
		"school_address": "1 School Lane",
		"school_phone":   "+15550100",
		"school_email":   "office@greenwood.example.com",
		"subdomain":      "greenwood",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register-school: status = %d, body = %s", w.Code, w.Body.String())
	}

	var school model.School
	if err := json.Unmarshal(env.Data["school"], &school); err != nil {
		t.Fatalf("decode school: %v", err)
	}
	return dataString(t, env, "token"), school.Code
}

// ─── Tests ─────────────────────────────────────────────────────────────────

func TestPublicRoutes(t *testing.T) {
	r := newTestRouter()

	w, _ := do(t, r, http.MethodGet, "/health", "", nil)
	if w.Code != http.StatusOK {
		t.Errorf("/health: status = %d", w.Code)
	}

	w, env := do(t, r, http.MethodGet, "/", "", nil)
	if w.Code != http.StatusOK {
		t.Errorf("/: status = %d", w.Code)
	}
	if app := dataString(t, env, "app"); app != "SchoolHub" {
		t.Errorf("landing app = %q", app)
	}

	// The login page is public and echoes the preserved location.
	w, env = do(t, r, http.MethodGet, "/auth/login?from=%2Fdashboard%2Fadmin", "", nil)
	if w.Code != http.StatusOK {
		t.Errorf("/auth/login: status = %d", w.Code)
	}
	if from := dataString(t, env, "from"); from != "/dashboard/admin" {
		t.Errorf("login from = %q", from)
	}
}

func TestBrandedLoginPage(t *testing.T) {
	r := newTestRouter()
	_, schoolCode := registerSchool(t, r)

	w, env := do(t, r, http.MethodGet, "/auth/login/"+schoolCode, "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var school model.School
	if err := json.Unmarshal(env.Data["school"], &school); err != nil {
		t.Fatalf("decode school: %v", err)
	}
	if school.Name != "Greenwood High School" {
		t.Errorf("school name = %q", school.Name)
	}
	if school.Branding.PrimaryColor != model.DefaultBranding.PrimaryColor {
		t.Errorf("branding = %+v", school.Branding)
	}

	w, _ = do(t, r, http.MethodGet, "/auth/login/NOPE99", "", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown school: status = %d", w.Code)
	}
}

func TestLoginFlow(t *testing.T) {
	r := newTestRouter()
	registerSchool(t, r)

	w, env := do(t, r, http.MethodPost, "/auth/login", "", gin.H{
		"email":    "ada@example.com",
		"password": "password123",
		"role":     "proprietor",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login: status = %d, body = %s", w.Code, w.Body.String())
	}
	token := dataString(t, env, "token")

	// Session cookie accompanies the token.
	cookies := w.Result().Cookies()
	var found bool
	for _, ck := range cookies {
		if ck.Name == "schoolhub_token" && ck.Value == token {
			found = true
		}
	}
	if !found {
		t.Error("login did not set the session cookie")
	}

	w, env = do(t, r, http.MethodGet, "/auth/me", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("me: status = %d", w.Code)
	}
	var user model.User
	if err := json.Unmarshal(env.Data["user"], &user); err != nil {
		t.Fatalf("decode user: %v", err)
	}
	if user.Email != "ada@example.com" || user.Role != model.RoleProprietor {
		t.Errorf("me = %+v", user)
	}
}

func TestLoginWrongRoleFails(t *testing.T) {
	r := newTestRouter()
	registerSchool(t, r)

	w, env := do(t, r, http.MethodPost, "/auth/login", "", gin.H{
		"email":    "ada@example.com",
		"password": "password123",
		"role":     "student",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if env.Error == nil || env.Error.Code != "INVALID_CREDENTIALS" {
		t.Fatalf("error = %+v", env.Error)
	}
	if env.Error.Message != "Login failed. Please check your credentials." {
		t.Errorf("message = %q", env.Error.Message)
	}
}

func TestLoginValidation(t *testing.T) {
	r := newTestRouter()

	w, env := do(t, r, http.MethodPost, "/auth/login", "", gin.H{
		"email": "not-an-email",
		"role":  "wizard",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
	if env.Error == nil || env.Error.Code != "VALIDATION_ERROR" {
		t.Fatalf("error = %+v", env.Error)
	}
	for _, field := range []string{"email", "password", "role"} {
		if _, ok := env.Error.Fields[field]; !ok {
			t.Errorf("missing field error for %q: %+v", field, env.Error.Fields)
		}
	}
}

func TestRegisterUnknownSchoolCode(t *testing.T) {
	r := newTestRouter()
	registerSchool(t, r)

	w, env := do(t, r, http.MethodPost, "/auth/register", "", gin.H{
		"role":        "student",
		"first_name":  "Sam",
		"last_name":   "Lee",
		"email":       "sam@example.com",
		"password":    "password123",
		"school_code": "ZZZ999",
		"school_name": "Nowhere High",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if env.Error == nil || env.Error.Code != "UNKNOWN_SCHOOL" {
		t.Fatalf("error = %+v", env.Error)
	}
	if env.Error.Message != "School code not recognized." {
		t.Errorf("message = %q", env.Error.Message)
	}
}

func TestGuardOnRealRoutes(t *testing.T) {
	r := newTestRouter()
	token, _ := registerSchool(t, r)

	// Anonymous page visit bounces to login with the location preserved.
	w, _ := do(t, r, http.MethodGet, "/dashboard/proprietor", "", nil)
	if w.Code != http.StatusFound {
		t.Fatalf("anonymous: status = %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/auth/login?from=%2Fdashboard%2Fproprietor" {
		t.Errorf("Location = %q", loc)
	}

	// /dashboard forwards to the role dashboard.
	w, _ = do(t, r, http.MethodGet, "/dashboard", token, nil)
	if w.Code != http.StatusFound {
		t.Fatalf("/dashboard: status = %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/dashboard/proprietor" {
		t.Errorf("Location = %q", loc)
	}

	// The proprietor's own dashboard renders.
	w, env := do(t, r, http.MethodGet, "/dashboard/proprietor", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("own dashboard: status = %d", w.Code)
	}
	if _, ok := env.Data["menu"]; !ok {
		t.Error("dashboard shell has no menu")
	}

	// Someone else's dashboard reroutes to their own.
	w, _ = do(t, r, http.MethodGet, "/dashboard/student", token, nil)
	if w.Code != http.StatusFound {
		t.Fatalf("foreign dashboard: status = %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/dashboard/proprietor" {
		t.Errorf("Location = %q", loc)
	}
}

func TestInvitationLifecycleOverHTTP(t *testing.T) {
	r := newTestRouter()
	propToken, schoolCode := registerSchool(t, r)

	// Proprietor invites a teacher.
	w, env := do(t, r, http.MethodPost, "/dashboard/invite-users", propToken, gin.H{
		"email":      "noah@example.com",
		"role":       "teacher",
		"first_name": "Noah",
		"last_name":  "Kim",
		"info":       gin.H{"employee_id": "EMP010", "department": "Maths"},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("invite: status = %d, body = %s", w.Code, w.Body.String())
	}
	var inv model.Invitation
	if err := json.Unmarshal(env.Data["invitation"], &inv); err != nil {
		t.Fatalf("decode invitation: %v", err)
	}
	if inv.SchoolCode != schoolCode {
		t.Errorf("invitation school = %q, want %q", inv.SchoolCode, schoolCode)
	}

	// The acceptance page resolves the token with school branding.
	w, env = do(t, r, http.MethodGet, "/auth/accept-invitation?token="+inv.Token, "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("resolve: status = %d, body = %s", w.Code, w.Body.String())
	}
	var fields []string
	if err := json.Unmarshal(env.Data["fields"], &fields); err != nil {
		t.Fatalf("decode fields: %v", err)
	}
	joined := strings.Join(fields, ",")
	if !strings.Contains(joined, "qualifications") {
		t.Errorf("teacher form fields = %v", fields)
	}

	// Accepting creates the account and opens its session.
	w, env = do(t, r, http.MethodPost, "/auth/accept-invitation?token="+inv.Token, "", gin.H{
		"password":         "password123",
		"confirm_password": "password123",
		"qualifications":   "BSc Physics",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("accept: status = %d, body = %s", w.Code, w.Body.String())
	}
	if redirect := dataString(t, env, "redirect"); redirect != "/school" {
		t.Errorf("redirect = %q", redirect)
	}
	teacherToken := dataString(t, env, "token")

	w, _ = do(t, r, http.MethodGet, "/dashboard/teacher", teacherToken, nil)
	if w.Code != http.StatusOK {
		t.Errorf("teacher dashboard: status = %d", w.Code)
	}

	// The consumed token is gone.
	w, env = do(t, r, http.MethodGet, "/auth/accept-invitation?token="+inv.Token, "", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("resolve consumed: status = %d", w.Code)
	}
	if env.Error == nil || env.Error.Message != "Invalid Invitation" {
		t.Errorf("error = %+v", env.Error)
	}
}

func TestAcceptInvitationValidationOverHTTP(t *testing.T) {
	r := newTestRouter()
	propToken, _ := registerSchool(t, r)

	_, env := do(t, r, http.MethodPost, "/dashboard/invite-users", propToken, gin.H{
		"email":      "kid@example.com",
		"role":       "student",
		"first_name": "Kim",
		"last_name":  "Ade",
		"info":       gin.H{"student_id": "S100", "class_grade": "JSS2"},
	})
	var inv model.Invitation
	if err := json.Unmarshal(env.Data["invitation"], &inv); err != nil {
		t.Fatalf("decode invitation: %v", err)
	}

	cases := []struct {
		name     string
		body     gin.H
		wantCode string
		wantMsg  string
	}{
		{
			name:     "mismatch",
			body:     gin.H{"password": "password123", "confirm_password": "password456"},
			wantCode: "PASSWORD_MISMATCH",
			wantMsg:  "Passwords do not match",
		},
		{
			name:     "too short",
			body:     gin.H{"password": "short", "confirm_password": "short"},
			wantCode: "PASSWORD_TOO_SHORT",
			wantMsg:  "Password must be at least 8 characters long",
		},
		{
			name:     "missing parent email",
			body:     gin.H{"password": "password123", "confirm_password": "password123"},
			wantCode: "PARENT_EMAIL_REQUIRED",
			wantMsg:  "Parent email is required for student accounts",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w, env := do(t, r, http.MethodPost, "/auth/accept-invitation?token="+inv.Token, "", tc.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
			}
			if env.Error == nil || env.Error.Code != tc.wantCode {
				t.Fatalf("error = %+v, want code %s", env.Error, tc.wantCode)
			}
			if env.Error.Message != tc.wantMsg {
				t.Errorf("message = %q, want %q", env.Error.Message, tc.wantMsg)
			}
		})
	}

	// The invitation survives every failed attempt.
	w, _ := do(t, r, http.MethodGet, "/auth/accept-invitation?token="+inv.Token, "", nil)
	if w.Code != http.StatusOK {
		t.Errorf("resolve after failures: status = %d", w.Code)
	}
}

func TestProprietorOnlyEndpoints(t *testing.T) {
	r := newTestRouter()
	_, schoolCode := registerSchool(t, r)

	// A student account cannot manage invitations.
	w, env := do(t, r, http.MethodPost, "/auth/register", "", gin.H{
		"role":        "student",
		"first_name":  "Sam",
		"last_name":   "Lee",
		"email":       "sam@example.com",
		"password":    "password123",
		"school_code": schoolCode,
		"school_name": "Greenwood High School",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register student: status = %d, body = %s", w.Code, w.Body.String())
	}
	studentToken := dataString(t, env, "token")

	w, env = do(t, r, http.MethodPost, "/dashboard/invite-users", studentToken, gin.H{
		"email": "x@example.com", "role": "teacher", "first_name": "A", "last_name": "B",
	})
	if w.Code != http.StatusForbidden {
		t.Fatalf("student invite: status = %d", w.Code)
	}
	if env.Error == nil || env.Error.Code != "FORBIDDEN" {
		t.Errorf("error = %+v", env.Error)
	}

	// The proprietor pages are guarded: the student is rerouted.
	for _, path := range []string{"/dashboard/invite-users", "/dashboard/bulk-import"} {
		w, _ = do(t, r, http.MethodGet, path, studentToken, nil)
		if w.Code != http.StatusFound {
			t.Fatalf("student %s: status = %d", path, w.Code)
		}
		if loc := w.Header().Get("Location"); loc != "/dashboard/student" {
			t.Errorf("%s Location = %q", path, loc)
		}
	}
}

func TestRevokeOverHTTP(t *testing.T) {
	r := newTestRouter()
	propToken, _ := registerSchool(t, r)

	_, env := do(t, r, http.MethodPost, "/dashboard/invite-users", propToken, gin.H{
		"email": "noah@example.com", "role": "teacher", "first_name": "Noah", "last_name": "Kim",
	})
	var inv model.Invitation
	if err := json.Unmarshal(env.Data["invitation"], &inv); err != nil {
		t.Fatalf("decode invitation: %v", err)
	}

	w, _ := do(t, r, http.MethodDelete, "/dashboard/manage-invitations/"+inv.Token, propToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("revoke: status = %d, body = %s", w.Code, w.Body.String())
	}

	w, _ = do(t, r, http.MethodGet, "/auth/accept-invitation?token="+inv.Token, "", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("resolve revoked: status = %d", w.Code)
	}

	w, _ = do(t, r, http.MethodDelete, "/dashboard/manage-invitations/"+inv.Token, propToken, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("second revoke: status = %d", w.Code)
	}
}

func TestLogoutOverHTTP(t *testing.T) {
	r := newTestRouter()
	token, _ := registerSchool(t, r)

	w, _ := do(t, r, http.MethodPost, "/auth/logout", token, nil)
	if w.Code != http.StatusFound {
		t.Fatalf("logout: status = %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/" {
		t.Errorf("Location = %q", loc)
	}

	// The cookie is expired and the token no longer authenticates.
	var cleared bool
	for _, ck := range w.Result().Cookies() {
		if ck.Name == "schoolhub_token" && ck.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("logout did not clear the session cookie")
	}

	w, _ = do(t, r, http.MethodGet, "/auth/me", token, nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("me after logout: status = %d", w.Code)
	}
}

func TestBulkImportPage(t *testing.T) {
	r := newTestRouter()
	propToken, schoolCode := registerSchool(t, r)

	w, env := do(t, r, http.MethodGet, "/dashboard/bulk-import", propToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if code := dataString(t, env, "school_code"); code != schoolCode {
		t.Errorf("school_code = %q, want %q", code, schoolCode)
	}
	var columns []string
	if err := json.Unmarshal(env.Data["columns"], &columns); err != nil {
		t.Fatalf("decode columns: %v", err)
	}
	joined := strings.Join(columns, ",")
	for _, col := range []string{"email", "role", "first_name", "last_name"} {
		if !strings.Contains(joined, col) {
			t.Errorf("columns %v missing %q", columns, col)
		}
	}

	// Anonymous visitors bounce to login like every other guarded page.
	w, _ = do(t, r, http.MethodGet, "/dashboard/bulk-import", "", nil)
	if w.Code != http.StatusFound {
		t.Fatalf("anonymous: status = %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/auth/login?from=%2Fdashboard%2Fbulk-import" {
		t.Errorf("Location = %q", loc)
	}
}

func TestBulkImportOverHTTP(t *testing.T) {
	r := newTestRouter()
	propToken, _ := registerSchool(t, r)

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	part, err := mw.CreateFormFile("file", "staff.csv")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	part.Write([]byte("email,role,first_name,last_name\nt1@example.com,teacher,Noah,Kim\nbad,wizard,X,Y\n"))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/dashboard/bulk-import", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+propToken)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("bulk import: status = %d, body = %s", w.Code, w.Body.String())
	}
	var result model.ImportResult
	var env struct {
		Data model.ImportResult `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	result = env.Data
	if result.Imported != 1 {
		t.Errorf("imported = %d, want 1", result.Imported)
	}
	if len(result.Failed) != 1 || result.Failed[0].Line != 3 {
		t.Errorf("failed = %+v", result.Failed)
	}

	// Missing upload is a dedicated error.
	req = httptest.NewRequest(http.MethodPost, "/dashboard/bulk-import", nil)
	req.Header.Set("Authorization", "Bearer "+propToken)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("no file: status = %d", w.Code)
	}
}
