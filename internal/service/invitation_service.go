package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/schoolhub/schoolhub-backend/internal/config"
	"github.com/schoolhub/schoolhub-backend/internal/mailer"
	"github.com/schoolhub/schoolhub-backend/internal/model"
)

// InvitationService manages the invitation lifecycle: creation by a
// proprietor, resolution on the acceptance page, single-use acceptance into
// a new account, listing and revocation.
type InvitationService struct {
	cfg     *config.Config
	invs    InvitationRepository
	schools SchoolRepository
	auth    *AuthService
	mail    mailer.Mailer
	log     zerolog.Logger
}

// NewInvitationService creates a new InvitationService.
func NewInvitationService(
	cfg *config.Config,
	invs InvitationRepository,
	schools SchoolRepository,
	auth *AuthService,
	mail mailer.Mailer,
	log zerolog.Logger,
) *InvitationService {
	return &InvitationService{
		cfg:     cfg,
		invs:    invs,
		schools: schools,
		auth:    auth,
		mail:    mail,
		log:     log,
	}
}

// Create issues a new invitation on behalf of inviter and mails the accept
// link. The role is fixed by the inviter here and never user-selectable on
// the acceptance form.
func (s *InvitationService) Create(ctx context.Context, inviter *model.User, req *model.CreateInvitationRequest) (*model.Invitation, error) {
	inv := &model.Invitation{
		Token:      uuid.New().String(),
		Email:      strings.ToLower(strings.TrimSpace(req.Email)),
		Role:       req.Role,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		SchoolCode: inviter.SchoolCode,
		SchoolName: inviter.SchoolName,
		InvitedBy:  inviter.FirstName + " " + inviter.LastName,
		Info:       req.Info,
		ExpiresAt:  time.Now().Add(s.cfg.InvitationTTL),
	}

	if err := s.invs.Create(ctx, inv); err != nil {
		return nil, err
	}

	if err := s.mail.SendInvitation(ctx, inv, mailer.AcceptURL(s.cfg.BaseURL, inv)); err != nil {
		s.log.Warn().Err(err).Str("token", inv.Token).Msg("Invitation mail failed")
	}
	return inv, nil
}

// Resolve looks up an invitation for the acceptance page. A missing, revoked
// or already consumed token resolves to ErrInvitationInvalid; a past expiry
// to ErrInvitationExpired. School branding is returned alongside so the page
// can render in school colors.
func (s *InvitationService) Resolve(ctx context.Context, token string) (*model.Invitation, *model.Branding, error) {
	if token == "" {
		return nil, nil, ErrInvitationInvalid
	}

	inv, err := s.invs.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil, ErrInvitationInvalid
		}
		return nil, nil, err
	}
	if inv.AcceptedAt != nil || inv.RevokedAt != nil {
		return nil, nil, ErrInvitationInvalid
	}
	if !inv.ExpiresAt.After(time.Now()) {
		return nil, nil, ErrInvitationExpired
	}

	branding := model.DefaultBranding
	if school, err := s.schools.GetByCode(ctx, inv.SchoolCode); err == nil {
		branding = school.Branding
	}
	return inv, &branding, nil
}

// Accept turns a pending invitation plus the submitted form into a new
// authenticated account. Validation runs in a fixed order — password
// equality, minimum length, role-specific required fields — and the first
// failing check short-circuits before any account is created.
func (s *InvitationService) Accept(ctx context.Context, token string, form *model.AcceptInvitationRequest) (*model.User, string, error) {
	inv, _, err := s.Resolve(ctx, token)
	if err != nil {
		return nil, "", err
	}

	if form.Password != form.ConfirmPassword {
		return nil, "", ErrPasswordMismatch
	}
	if len(form.Password) < 8 {
		return nil, "", ErrPasswordTooShort
	}
	if inv.Role == model.RoleStudent && form.ParentEmail == "" {
		return nil, "", ErrParentEmailRequired
	}
	if inv.Role == model.RoleParent && form.Relationship == "" {
		return nil, "", ErrRelationshipRequired
	}

	data := &model.RegisterData{
		Role:       inv.Role,
		FirstName:  inv.FirstName,
		LastName:   inv.LastName,
		Email:      inv.Email,
		Password:   form.Password,
		SchoolCode: inv.SchoolCode,
		SchoolName: inv.SchoolName,
		Phone:      form.Phone,
		Address:    form.Address,
	}
	switch {
	case inv.Role == model.RoleStudent:
		data.Student = &model.StudentProfile{
			StudentID:   inv.Info.StudentID,
			ClassGrade:  inv.Info.ClassGrade,
			ParentEmail: form.ParentEmail,
			DateOfBirth: form.DateOfBirth,
		}
	case inv.Role == model.RoleParent:
		data.Parent = &model.ParentProfile{
			StudentID:    inv.Info.StudentID,
			Relationship: form.Relationship,
			Occupation:   form.Occupation,
		}
	case inv.Role.IsStaffRole():
		data.Staff = &model.StaffProfile{
			EmployeeID:     inv.Info.EmployeeID,
			Department:     inv.Info.Department,
			Qualifications: form.Qualifications,
			Experience:     form.Experience,
		}
	}

	user, sessionToken, err := s.auth.Register(ctx, data)
	if err != nil {
		return nil, "", err
	}

	if err := s.invs.MarkAccepted(ctx, inv.Token, time.Now()); err != nil {
		// Account exists but the token stayed pending; log and keep going.
		s.log.Warn().Err(err).Str("token", inv.Token).Msg("Mark invitation accepted failed")
	}
	return user, sessionToken, nil
}

// List returns every invitation for a school, newest first.
func (s *InvitationService) List(ctx context.Context, schoolCode string) ([]model.Invitation, error) {
	return s.invs.ListBySchool(ctx, schoolCode)
}

// Revoke withdraws a pending invitation belonging to the caller's school.
func (s *InvitationService) Revoke(ctx context.Context, token, schoolCode string) error {
	return s.invs.Revoke(ctx, token, schoolCode, time.Now())
}

// CSVColumns are the recognized bulk-import header names; the first four are
// required.
var CSVColumns = []string{"email", "role", "first_name", "last_name", "employee_id", "department", "student_id", "class_grade"}

// ImportCSV reads a CSV of users and creates one invitation per valid row.
// Row failures are collected and reported, not fatal: valid rows still
// import.
func (s *InvitationService) ImportCSV(ctx context.Context, inviter *model.User, r io.Reader) (*model.ImportResult, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range CSVColumns[:4] {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("missing required column %q", required)
		}
	}

	field := func(record []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	result := &model.ImportResult{}
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Failed = append(result.Failed, model.ImportError{Line: line, Reason: err.Error()})
			continue
		}

		req := &model.CreateInvitationRequest{
			Email:     field(record, "email"),
			Role:      model.Role(strings.ToLower(field(record, "role"))),
			FirstName: field(record, "first_name"),
			LastName:  field(record, "last_name"),
			Info: model.InvitationInfo{
				EmployeeID: field(record, "employee_id"),
				Department: field(record, "department"),
				StudentID:  field(record, "student_id"),
				ClassGrade: field(record, "class_grade"),
			},
		}

		switch {
		case req.Email == "" || !strings.Contains(req.Email, "@"):
			result.Failed = append(result.Failed, model.ImportError{Line: line, Reason: "invalid email"})
		case !req.Role.Valid():
			result.Failed = append(result.Failed, model.ImportError{Line: line, Reason: fmt.Sprintf("unknown role %q", req.Role)})
		case req.FirstName == "" || req.LastName == "":
			result.Failed = append(result.Failed, model.ImportError{Line: line, Reason: "first_name and last_name are required"})
		default:
			if _, err := s.Create(ctx, inviter, req); err != nil {
				result.Failed = append(result.Failed, model.ImportError{Line: line, Reason: err.Error()})
			} else {
				result.Imported++
			}
		}
	}
	return result, nil
}
