package mailer

import (
	"context"
	"fmt"
	"log"
	"net/smtp"
	"strings"
)

// Mailer delivers password reset links. Delivery is an external concern;
// the session layer only cares whether it succeeded.
type Mailer interface {
	SendPasswordReset(ctx context.Context, email, resetToken string) error
}

// ConsoleMailer logs the reset link instead of sending it. Default for
// local development.
type ConsoleMailer struct {
	frontendURL string
}

func NewConsoleMailer(frontendURL string) *ConsoleMailer {
	return &ConsoleMailer{frontendURL: frontendURL}
}

func (m *ConsoleMailer) SendPasswordReset(_ context.Context, email, resetToken string) error {
	log.Printf("[DEV-EMAIL] password reset email=%s url=%s", email, resetURL(m.frontendURL, resetToken))
	return nil
}

// SMTPMailer sends the reset link over plain-auth SMTP.
type SMTPMailer struct {
	addr        string
	auth        smtp.Auth
	from        string
	frontendURL string
}

func NewSMTPMailer(host string, port int, username, password, from, frontendURL string) *SMTPMailer {
	var auth smtp.Auth
	if username != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}
	return &SMTPMailer{
		addr:        fmt.Sprintf("%s:%d", host, port),
		auth:        auth,
		from:        from,
		frontendURL: frontendURL,
	}
}

func (m *SMTPMailer) SendPasswordReset(_ context.Context, email, resetToken string) error {
	url := resetURL(m.frontendURL, resetToken)
	msg := strings.Join([]string{
		"From: Notes App <" + m.from + ">",
		"To: " + email,
		"Subject: Password Reset Request - Notes App",
		"",
		"You have requested to reset your Notes App password.",
		"",
		"Open this link to set a new password:",
		url,
		"",
		"For security reasons, the link expires in 10 minutes.",
		"If you did not request this reset, ignore this email.",
	}, "\r\n")

	if err := smtp.SendMail(m.addr, m.auth, m.from, []string{email}, []byte(msg)); err != nil {
		return fmt.Errorf("send password reset mail: %w", err)
	}
	return nil
}

func resetURL(frontendURL, token string) string {
	return strings.TrimRight(frontendURL, "/") + "/reset-password?token=" + token
}
