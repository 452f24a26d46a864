package paystack

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"readafrik-checkout/internal/pkg/helper"
	"strings"
	"time"
)

const DefaultBaseURL = "https://api.paystack.co"

// DefaultChannels are the payment channels offered at checkout.
var DefaultChannels = []string{"card", "bank", "ussd", "mobile_money"}

type Config struct {
	SecretKey string
	PublicKey string
	BaseURL   string
	Timeout   time.Duration
}

type IClient interface {
	Configured() bool
	PublicKey() string
	InitializeTransaction(ctx context.Context, req *InitializeRequest) (*InitializeResponse, error)
	VerifyTransaction(ctx context.Context, reference string) (*VerifyResponse, error)
}

type Client struct {
	publicKey  string
	secretKey  string
	baseURL    string
	httpClient *http.Client
}

func Setup(cfg *Config) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		publicKey:  cfg.PublicKey,
		secretKey:  cfg.SecretKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// Configured reports whether a secret key is available. Calls made without
// one are rejected by Paystack, so callers should check first.
func (c *Client) Configured() bool {
	return c.secretKey != ""
}

// PublicKey is the publishable key the storefront's inline popup opens
// with. It is safe to hand to browsers.
func (c *Client) PublicKey() string {
	return c.publicKey
}

func (c *Client) InitializeTransaction(ctx context.Context, req *InitializeRequest) (*InitializeResponse, error) {
	resp, err := helper.HTTPRequest(&helper.HTTPRequestPayload{
		Method: helper.POST,
		URL:    c.baseURL + "/transaction/initialize",
		Body:   req,
	}, c.requestConfig(ctx))
	if err != nil {
		return nil, err
	}

	var out InitializeResponse
	if err := resp.Decode(&out); err != nil {
		return nil, &Error{StatusCode: resp.StatusCode, Message: fmt.Sprintf("unreadable initialize response: %v", err)}
	}
	if !out.Status {
		return &out, &Error{StatusCode: resp.StatusCode, Message: out.Message}
	}

	return &out, nil
}

func (c *Client) VerifyTransaction(ctx context.Context, reference string) (*VerifyResponse, error) {
	resp, err := helper.HTTPRequest(&helper.HTTPRequestPayload{
		Method: helper.GET,
		URL:    c.baseURL + "/transaction/verify/" + url.PathEscape(reference),
	}, c.requestConfig(ctx))
	if err != nil {
		return nil, err
	}

	var out VerifyResponse
	if err := resp.Decode(&out); err != nil {
		return nil, &Error{StatusCode: resp.StatusCode, Message: fmt.Sprintf("unreadable verify response: %v", err)}
	}
	if !out.Status {
		return &out, &Error{StatusCode: resp.StatusCode, Message: out.Message}
	}

	return &out, nil
}

func (c *Client) requestConfig(ctx context.Context) *helper.HTTPRequestConfig {
	return &helper.HTTPRequestConfig{
		Ctx:         ctx,
		Client:      c.httpClient,
		BearerToken: c.secretKey,
	}
}
