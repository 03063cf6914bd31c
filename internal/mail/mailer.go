// Package mail delivers transactional email. When SMTP is not configured
// the log mailer is used instead so local development never needs a relay.
package mail

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"billaudit-backend/internal/shared/telemetry"
)

// Mailer sends login codes to users.
type Mailer interface {
	SendOTP(to, code string) error
}

// SMTPMailer delivers through an SMTP relay via gomail.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(host string, port int, user, pass, from string) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, user, pass),
		from:   from,
	}
}

var _ Mailer = (*SMTPMailer)(nil)

func (m *SMTPMailer) SendOTP(to, code string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Your login code")
	msg.SetBody("text/plain", fmt.Sprintf(
		"Your one-time login code is %s.\n\nIt expires in 10 minutes. If you did not request it, ignore this email.\n", code))
	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send otp email: %w", err)
	}
	return nil
}

// LogMailer writes codes to the log instead of sending email.
type LogMailer struct{}

var _ Mailer = LogMailer{}

func (LogMailer) SendOTP(to, code string) error {
	telemetry.Info("mail.otp_logged", map[string]any{"to": to, "code": code})
	return nil
}
