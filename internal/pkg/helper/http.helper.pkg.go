package helper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"readafrik-checkout/internal/pkg/logger"
)

type HTTPMethod string

const (
	GET    HTTPMethod = "GET"
	POST   HTTPMethod = "POST"
	PUT    HTTPMethod = "PUT"
	DELETE HTTPMethod = "DELETE"
)

func (m HTTPMethod) ToString() string {
	return string(m)
}

type HTTPRequestPayload struct {
	Method HTTPMethod
	URL    string
	Body   any
	Params map[string]string
}

type BasicAuth struct {
	Username string
	Password string
}

type HTTPRequestConfig struct {
	Ctx         context.Context
	Client      *http.Client
	Headers     http.Header
	Auth        *BasicAuth
	BearerToken string
}

type HTTPAPIResponse struct {
	StatusCode int
	Headers    http.Header
	Data       json.RawMessage
}

// Decode unmarshals the response body into v.
func (r *HTTPAPIResponse) Decode(v any) error {
	if len(r.Data) == 0 {
		return fmt.Errorf("empty response body (status %d)", r.StatusCode)
	}
	return json.Unmarshal(r.Data, v)
}

func (r *HTTPAPIResponse) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// HTTPRequest performs a JSON request. Non-2xx statuses are not errors; the
// caller inspects StatusCode and the decoded body.
func HTTPRequest(payload *HTTPRequestPayload, config *HTTPRequestConfig) (*HTTPAPIResponse, error) {
	if config.Ctx == nil {
		config.Ctx = context.Background()
	}
	client := config.Client
	if client == nil {
		client = http.DefaultClient
	}

	body, err := handleRequestBody(payload, config)
	if err != nil {
		return nil, err
	}

	req, err := prepareRequest(payload, body, config)
	if err != nil {
		return nil, err
	}

	logger.Debug.Printf("%s %s", req.Method, req.URL.Redacted())

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", req.URL.Host, err)
	}
	defer resp.Body.Close()

	data, err := parseResponseBody(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return &HTTPAPIResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Data:       data,
	}, nil
}

func handleRequestBody(payload *HTTPRequestPayload, config *HTTPRequestConfig) (io.Reader, error) {
	if config.Headers == nil {
		config.Headers = http.Header{}
	}
	config.Headers.Set("Accept", "application/json")

	if payload.Body == nil {
		return nil, nil
	}

	b, err := JSONToByte(payload.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request body: %w", err)
	}
	config.Headers.Set("Content-Type", "application/json")
	return bytes.NewReader(b), nil
}

func prepareRequest(payload *HTTPRequestPayload, body io.Reader, config *HTTPRequestConfig) (*http.Request, error) {
	req, err := http.NewRequestWithContext(config.Ctx, payload.Method.ToString(), payload.URL, body)
	if err != nil {
		return nil, err
	}

	for key, values := range config.Headers {
		req.Header[key] = append(req.Header[key], values...)
	}

	if config.BearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+config.BearerToken)
	} else if config.Auth != nil {
		req.SetBasicAuth(config.Auth.Username, config.Auth.Password)
	}

	if len(payload.Params) > 0 {
		q := req.URL.Query()
		for key, value := range payload.Params {
			q.Add(key, value)
		}
		req.URL.RawQuery = q.Encode()
	}

	return req, nil
}

func parseResponseBody(resp *http.Response) (json.RawMessage, error) {
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(b), nil
}
