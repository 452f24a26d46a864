package mailer

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"
)

type SMTP struct {
	from   string
	client *mail.Client
}

func NewSMTP(cfg *Config) (*SMTP, error) {
	if cfg.SMTPHost == "" {
		return nil, fmt.Errorf("mailer: SMTP_HOST is required for the smtp service")
	}

	opts := []mail.Option{mail.WithTLSPolicy(mail.TLSOpportunistic)}
	if cfg.SMTPPort > 0 {
		opts = append(opts, mail.WithPort(cfg.SMTPPort))
	}
	if cfg.SMTPSecure {
		opts = append(opts, mail.WithSSL())
	}
	if cfg.SMTPUser != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.SMTPUser),
			mail.WithPassword(cfg.SMTPPass),
		)
	}
	if cfg.Timeout > 0 {
		opts = append(opts, mail.WithTimeout(cfg.Timeout))
	}

	client, err := mail.NewClient(cfg.SMTPHost, opts...)
	if err != nil {
		return nil, fmt.Errorf("mailer: failed to create SMTP client: %w", err)
	}

	return &SMTP{from: cfg.From, client: client}, nil
}

func (s *SMTP) Send(ctx context.Context, msg *Message) error {
	if err := msg.validate(); err != nil {
		return err
	}

	m, err := buildMsg(s.from, msg)
	if err != nil {
		return err
	}

	if err := s.client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("mailer: smtp send to %s failed: %w", msg.To, err)
	}
	return nil
}

func buildMsg(from string, msg *Message) (*mail.Msg, error) {
	m := mail.NewMsg()
	if err := m.From(from); err != nil {
		return nil, fmt.Errorf("mailer: invalid sender %q: %w", from, err)
	}
	if err := m.To(msg.To); err != nil {
		return nil, fmt.Errorf("mailer: invalid recipient %q: %w", msg.To, err)
	}
	m.Subject(msg.Subject)

	switch {
	case msg.Text != "" && msg.HTML != "":
		m.SetBodyString(mail.TypeTextPlain, msg.Text)
		m.AddAlternativeString(mail.TypeTextHTML, msg.HTML)
	case msg.HTML != "":
		m.SetBodyString(mail.TypeTextHTML, msg.HTML)
	default:
		m.SetBodyString(mail.TypeTextPlain, msg.Text)
	}
	return m, nil
}
