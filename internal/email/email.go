// Package email sends the new-submission notification via SMTP.
// It wraps github.com/wneessen/go-mail with defaults that suit a site that
// sends a handful of messages a day.
package email

import (
	"context"
	"fmt"
	"time"

	"github.com/wneessen/go-mail"
)

// Config holds SMTP server configuration.
type Config struct {
	// Host is the SMTP server hostname.
	Host string

	// Port is the SMTP server port (typically 587 for STARTTLS, 465 for SSL).
	Port int

	// Username for SMTP authentication (empty disables auth).
	Username string

	// Password for SMTP authentication.
	Password string

	// FromAddress is the sender email address.
	FromAddress string

	// FromName is the sender display name (optional).
	FromName string

	// Timeout for SMTP operations (default: 30 seconds).
	Timeout time.Duration
}

// Sender sends emails using the configured SMTP server.
type Sender struct {
	cfg Config
}

// NewSender creates a new email sender with the given configuration.
func NewSender(cfg Config) *Sender {
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Sender{cfg: cfg}
}

// Message represents an email message to be sent.
type Message struct {
	To       []string // Recipient email addresses
	Subject  string   // Email subject line
	TextBody string   // Plain text body
	ReplyTo  string   // Reply-To address (optional)
}

// Send sends an email message.
func (s *Sender) Send(ctx context.Context, msg Message) error {
	if len(msg.To) == 0 {
		return fmt.Errorf("email: no recipients specified")
	}
	if msg.TextBody == "" {
		return fmt.Errorf("email: message body is empty")
	}

	m := mail.NewMsg()

	if s.cfg.FromName != "" {
		if err := m.FromFormat(s.cfg.FromName, s.cfg.FromAddress); err != nil {
			return fmt.Errorf("email: invalid from address: %w", err)
		}
	} else {
		if err := m.From(s.cfg.FromAddress); err != nil {
			return fmt.Errorf("email: invalid from address: %w", err)
		}
	}

	if err := m.To(msg.To...); err != nil {
		return fmt.Errorf("email: invalid to address: %w", err)
	}

	if msg.ReplyTo != "" {
		if err := m.ReplyTo(msg.ReplyTo); err != nil {
			return fmt.Errorf("email: invalid reply-to address: %w", err)
		}
	}

	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextPlain, msg.TextBody)

	opts := []mail.Option{
		mail.WithPort(s.cfg.Port),
		mail.WithTimeout(s.cfg.Timeout),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if s.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.cfg.Username),
			mail.WithPassword(s.cfg.Password),
		)
	}

	client, err := mail.NewClient(s.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("email: client setup: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("email: send: %w", err)
	}
	return nil
}
