package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/resend/resend-go/v2"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// ErrMailNotConfigured is returned per send attempt when no transport
// credentials are present. Missing credentials never crash the process.
var ErrMailNotConfigured = errors.New("mail transport not configured")

type MailConfig struct {
	ResendAPIKey string
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	From         string
}

func NewMailConfig() *MailConfig {
	port := 587
	if raw := os.Getenv("SMTP_PORT"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			port = n
		}
	}
	return &MailConfig{
		ResendAPIKey: os.Getenv("RESEND_API_KEY"),
		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     port,
		SMTPUser:     os.Getenv("SMTP_USER"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		From:         os.Getenv("FROM_EMAIL"),
	}
}

// Mailer is the outbound transport capability: one best-effort attempt
// per message, success or failure.
type Mailer interface {
	Send(ctx context.Context, to []string, subject, body string) error
}

// NewMailer picks the transport from the environment: Resend when an API
// key is set, SMTP when a host is set, otherwise a transport that fails
// every attempt.
func NewMailer(cfg *MailConfig, logger *zap.Logger) Mailer {
	switch {
	case cfg.ResendAPIKey != "":
		logger.Info("using Resend mail transport", zap.String("from", cfg.From))
		return &ResendMailer{client: resend.NewClient(cfg.ResendAPIKey), from: cfg.From}
	case cfg.SMTPHost != "":
		logger.Info("using SMTP mail transport",
			zap.String("host", cfg.SMTPHost), zap.Int("port", cfg.SMTPPort))
		dialer := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword)
		return &SMTPMailer{dialer: dialer, from: cfg.From}
	default:
		logger.Warn("no mail transport configured, notification dispatch will fail per attempt")
		return disabledMailer{}
	}
}

// ResendMailer sends through the Resend HTTP API.
type ResendMailer struct {
	client *resend.Client
	from   string
}

func (m *ResendMailer) Send(ctx context.Context, to []string, subject, body string) error {
	params := &resend.SendEmailRequest{
		From:    m.from,
		To:      to,
		Subject: subject,
		Text:    body,
	}
	if _, err := m.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("send via resend: %w", err)
	}
	return nil
}

// SMTPMailer sends through a plain SMTP relay.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func (m *SMTPMailer) Send(_ context.Context, to []string, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send via smtp: %w", err)
	}
	return nil
}

type disabledMailer struct{}

func (disabledMailer) Send(context.Context, []string, string, string) error {
	return ErrMailNotConfigured
}
