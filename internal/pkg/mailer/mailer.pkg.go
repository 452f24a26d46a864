package mailer

import (
	"context"
	"fmt"
	"readafrik-checkout/internal/common/enum"
	"readafrik-checkout/internal/pkg/logger"
	"strings"
	"time"
)

const DefaultFrom = "ReadAfrik <noreply@readafrik.com>"

// Message is one outbound email. Text is optional.
type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
	Text    string `json:"text,omitempty"`
}

// Notifier delivers a Message. Implementations return an error when the
// backend did not accept the message.
type Notifier interface {
	Send(ctx context.Context, msg *Message) error
}

type Config struct {
	Service      enum.EmailServiceEnum
	From         string
	ResendAPIKey string
	ResendURL    string
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPass     string
	SMTPSecure   bool
	Timeout      time.Duration
}

// NewBackend returns the notifier selected by cfg.Service. "nodemailer" is
// accepted as an alias for "smtp" and an unknown service falls back to the
// console.
func NewBackend(cfg *Config) (Notifier, error) {
	if cfg.From == "" {
		cfg.From = DefaultFrom
	}

	switch enum.EmailServiceEnum(strings.ToLower(cfg.Service.ToString())) {
	case enum.CONSOLE, "":
		return NewConsole(), nil
	case enum.SMTP, enum.NODEMAILER:
		return NewSMTP(cfg)
	case enum.RESEND:
		return NewResend(cfg)
	default:
		logger.Warning.Printf("unknown EMAIL_SERVICE %q, logging emails to console", cfg.Service)
		return NewConsole(), nil
	}
}

func (m *Message) validate() error {
	if strings.TrimSpace(m.To) == "" {
		return fmt.Errorf("mailer: message has no recipient")
	}
	if m.HTML == "" && m.Text == "" {
		return fmt.Errorf("mailer: message to %s has no body", m.To)
	}
	return nil
}
