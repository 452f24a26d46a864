package mailer

import (
	"context"
	"fmt"
	"net/http"
	"readafrik-checkout/internal/pkg/helper"
	"readafrik-checkout/internal/pkg/logger"
)

const DefaultResendURL = "https://api.resend.com/emails"

type Resend struct {
	apiKey string
	url    string
	from   string
	client *http.Client
}

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html,omitempty"`
	Text    string   `json:"text,omitempty"`
}

type resendResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Message string `json:"message"`
}

func NewResend(cfg *Config) (*Resend, error) {
	if cfg.ResendAPIKey == "" {
		return nil, fmt.Errorf("mailer: RESEND_API_KEY is required for the resend service")
	}
	url := cfg.ResendURL
	if url == "" {
		url = DefaultResendURL
	}
	return &Resend{
		apiKey: cfg.ResendAPIKey,
		url:    url,
		from:   cfg.From,
		client: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

func (r *Resend) Send(ctx context.Context, msg *Message) error {
	if err := msg.validate(); err != nil {
		return err
	}

	resp, err := helper.HTTPRequest(&helper.HTTPRequestPayload{
		Method: helper.POST,
		URL:    r.url,
		Body: resendRequest{
			From:    r.from,
			To:      []string{msg.To},
			Subject: msg.Subject,
			HTML:    msg.HTML,
			Text:    msg.Text,
		},
	}, &helper.HTTPRequestConfig{Ctx: ctx, Client: r.client, BearerToken: r.apiKey})
	if err != nil {
		return fmt.Errorf("mailer: resend request failed: %w", err)
	}

	var out resendResponse
	_ = resp.Decode(&out)
	if !resp.IsSuccess() {
		return fmt.Errorf("mailer: resend rejected message (%d %s): %s", resp.StatusCode, out.Name, out.Message)
	}

	logger.Debug.Printf("resend accepted message %s to %s", out.ID, msg.To)
	return nil
}
