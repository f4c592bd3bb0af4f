// Package mail delivers account notifications over SMTP.
package mail

import (
	"context"
	"errors"
	"fmt"
	"time"

	gomail "github.com/wneessen/go-mail"

	"github.com/custommatt/account-api/internal/core/ports"
)

const (
	defaultPort     = 587
	defaultTimeout  = 10 * time.Second
	defaultFromName = "Our Store"
)

var ErrNotConfigured = errors.New("mail transport not configured")

// Config captures the SMTP settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	FromName string
	Timeout  time.Duration
}

// SMTPMailer sends welcome mails through an authenticated SMTP relay. One
// instance is created at startup and shared by all workers.
type SMTPMailer struct {
	client   *gomail.Client
	from     string
	fromName string
}

func NewSMTPMailer(cfg Config) (*SMTPMailer, error) {
	if cfg.Host == "" || cfg.Username == "" {
		return nil, ErrNotConfigured
	}
	if cfg.Port <= 0 {
		cfg.Port = defaultPort
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.FromName == "" {
		cfg.FromName = defaultFromName
	}

	client, err := gomail.NewClient(cfg.Host,
		gomail.WithPort(cfg.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(cfg.Username),
		gomail.WithPassword(cfg.Password),
		gomail.WithTLSPortPolicy(gomail.TLSMandatory),
		gomail.WithTimeout(cfg.Timeout),
	)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}

	return &SMTPMailer{client: client, from: cfg.Username, fromName: cfg.FromName}, nil
}

// Verify dials and authenticates against the relay without sending.
func (m *SMTPMailer) Verify(ctx context.Context) error {
	if err := m.client.DialWithContext(ctx); err != nil {
		return fmt.Errorf("smtp verify: %w", err)
	}
	return m.client.Close()
}

func (m *SMTPMailer) SendWelcome(ctx context.Context, w ports.WelcomeMessage) error {
	msg, err := newWelcomeMsg(m.fromName, m.from, w)
	if err != nil {
		return fmt.Errorf("build welcome mail: %w", err)
	}
	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send welcome mail: %w", err)
	}
	return nil
}

// LogMailer stands in for SMTP when no relay is configured. It only records
// that a mail would have been sent.
type LogMailer struct {
	Log func(w ports.WelcomeMessage)
}

func (l LogMailer) SendWelcome(_ context.Context, w ports.WelcomeMessage) error {
	if l.Log != nil {
		l.Log(w)
	}
	return nil
}
