// Package rest implements the SMS, call and email providers against a JSON
// HTTP messaging gateway.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dukex/hireflow/pkg/protocol"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	// DefaultTimeout bounds every provider request.
	DefaultTimeout = 30 * time.Second

	maxErrorBytes = 4 << 10
)

// ErrNoBaseURL is returned by NewClient when the gateway URL is empty.
var ErrNoBaseURL = errors.New("provider base url is required")

// Client talks to the messaging gateway. It satisfies protocol.SMSProvider,
// protocol.CallProvider and protocol.EmailProvider.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  *slog.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.http = client
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.http.Timeout = timeout
		}
	}
}

func NewClient(baseURL, apiKey string, logger *slog.Logger, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, ErrNoBaseURL
	}

	client := &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http: &http.Client{
			Timeout:   DefaultTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger: logger.With("module", "rest_provider"),
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

type smsRequest struct {
	To      string `json:"to"`
	Message string `json:"message"`
}

type callRequest struct {
	PhoneNumber string `json:"phone_number"`
	Script      string `json:"script,omitempty"`
}

type sendResponse struct {
	ID string `json:"id"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (c *Client) SendSMS(ctx context.Context, to, message string) (string, error) {
	return c.send(ctx, "sms", "/sms", smsRequest{To: to, Message: message})
}

func (c *Client) PlaceCall(ctx context.Context, phoneNumber, script string) (string, error) {
	return c.send(ctx, "call", "/calls", callRequest{PhoneNumber: phoneNumber, Script: script})
}

func (c *Client) SendEmail(ctx context.Context, message protocol.EmailMessage) (string, error) {
	return c.send(ctx, "email", "/emails", message)
}

func (c *Client) send(ctx context.Context, provider, path string, payload any) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode %s request: %w", provider, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create %s request: %w", provider, err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", protocol.NewProviderError(provider, err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &protocol.ProviderError{
			Provider:   provider,
			StatusCode: resp.StatusCode,
			Message:    errorText(resp.Body),
		}
	}

	var out sendResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", protocol.NewProviderError(provider, fmt.Errorf("invalid response: %w", err))
	}

	c.logger.DebugContext(ctx, "Provider request accepted", "provider", provider, "id", out.ID)

	return out.ID, nil
}

// errorText extracts the gateway's error message, falling back to the raw body.
func errorText(body io.Reader) string {
	raw, _ := io.ReadAll(io.LimitReader(body, maxErrorBytes))

	var parsed errorResponse
	if json.Unmarshal(raw, &parsed) == nil {
		if parsed.Error != "" {
			return parsed.Error
		}

		if parsed.Message != "" {
			return parsed.Message
		}
	}

	return strings.TrimSpace(string(raw))
}
