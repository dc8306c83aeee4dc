// Package mailer delivers the transactional messages the auth and invitation
// flows produce. Production deployments plug a real provider behind the
// Mailer interface; the console implementation just logs outbound mail.
package mailer

import (
	"context"
	"fmt"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/schoolhub/schoolhub-backend/internal/model"
)

// Mailer sends transactional mail.
type Mailer interface {
	SendInvitation(ctx context.Context, inv *model.Invitation, acceptURL string) error
	SendPasswordReset(ctx context.Context, email, resetURL string) error
}

// AcceptURL builds the absolute invitation-acceptance link carried in
// invitation mail: /auth/accept-invitation?token=&school=&role=.
func AcceptURL(baseURL string, inv *model.Invitation) string {
	q := url.Values{}
	q.Set("token", inv.Token)
	q.Set("school", inv.SchoolCode)
	q.Set("role", string(inv.Role))
	return fmt.Sprintf("%s/auth/accept-invitation?%s", baseURL, q.Encode())
}

// ConsoleMailer writes outbound mail to the log instead of sending it.
type ConsoleMailer struct {
	log zerolog.Logger
}

// NewConsoleMailer creates a ConsoleMailer.
func NewConsoleMailer(log zerolog.Logger) *ConsoleMailer {
	return &ConsoleMailer{log: log}
}

func (m *ConsoleMailer) SendInvitation(_ context.Context, inv *model.Invitation, acceptURL string) error {
	m.log.Info().
		Str("to", inv.Email).
		Str("role", string(inv.Role)).
		Str("school", inv.SchoolCode).
		Str("accept_url", acceptURL).
		Time("expires_at", inv.ExpiresAt).
		Msg("Invitation email")
	return nil
}

func (m *ConsoleMailer) SendPasswordReset(_ context.Context, email, resetURL string) error {
	m.log.Info().
		Str("to", email).
		Str("reset_url", resetURL).
		Msg("Password reset email")
	return nil
}
