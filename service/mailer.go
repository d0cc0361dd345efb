package service

import (
	"fmt"
	"stellarone-api/config"
	"stellarone-api/logger"
	"time"

	"gopkg.in/gomail.v2"
)

// Mailer dispatches one-time codes to a user's registered email address.
type Mailer interface {
	SendOTP(to, code string, ttl time.Duration) error
	SendResetCode(to, code string, ttl time.Duration) error
}

// SMTPMailer sends mail through the configured SMTP relay.
type SMTPMailer struct{}

func NewSMTPMailer() *SMTPMailer {
	return &SMTPMailer{}
}

func (m *SMTPMailer) send(to, subject, body string) error {
	cfg := config.AppConfig.SMTP

	recipient := to
	if cfg.OverrideRecipient != "" {
		logger.Log.WithField("override", cfg.OverrideRecipient).Warn("SMTP override recipient is set, redirecting mail")
		recipient = cfg.OverrideRecipient
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", cfg.From)
	msg.SetHeader("To", recipient)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	if err := dialer.DialAndSend(msg); err != nil {
		logger.Log.WithError(err).Error("Failed to send email")
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (m *SMTPMailer) SendOTP(to, code string, ttl time.Duration) error {
	body := fmt.Sprintf("Your StellarOne verification code is %s. It expires in %d minutes.", code, int(ttl.Minutes()))
	return m.send(to, "Your StellarOne verification code", body)
}

func (m *SMTPMailer) SendResetCode(to, code string, ttl time.Duration) error {
	body := fmt.Sprintf("Your StellarOne password reset code is %s. It expires in %d minutes.", code, int(ttl.Minutes()))
	return m.send(to, "StellarOne password reset", body)
}
