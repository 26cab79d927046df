package mailer

//go:generate go run go.uber.org/mock/mockgen -source=./mailer.go -destination=./mocks/mailer_mock.go -package=mocks

import (
	"fmt"
	"net"
	"net/smtp"
	"strings"

	"github.com/rs/zerolog/log"

	"staybook/config"
)

// Mailer is the outbound notification sink. The booking flow only ever needs
// this single method; delivery failures are reported, never fatal.
type Mailer interface {
	SendActivationEmail(recipient, subject, htmlBody string) error
}

type smtpMailer struct {
	config *config.Config
}

func New(cfg *config.Config) Mailer {
	return &smtpMailer{
		config: cfg,
	}
}

func (m *smtpMailer) SendActivationEmail(recipient, subject, htmlBody string) error {
	cfg := m.config.Mail
	addr := net.JoinHostPort(cfg.Host, cfg.Port)

	headers := []string{
		"From: " + cfg.From,
		"To: " + recipient,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=\"UTF-8\"",
	}
	message := strings.Join(headers, "\r\n") + "\r\n\r\n" + htmlBody

	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}

	if err := smtp.SendMail(addr, auth, cfg.From, []string{recipient}, []byte(message)); err != nil {
		log.Error().Err(err).Str("recipient", recipient).Msg("failed to send activation email")

		return fmt.Errorf("failed to send activation email: %w", err)
	}

	log.Info().Str("recipient", recipient).Msg("activation email sent")

	return nil
}
