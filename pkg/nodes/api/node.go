// Package api provides the node that calls an arbitrary HTTP API.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dukex/hireflow/pkg/models"
	"github.com/dukex/hireflow/pkg/protocol"
)

// VariableLastAPIResponse holds the decoded body of the most recent API call.
const VariableLastAPIResponse = "lastAPIResponse"

const maxResponseBytes = 1 << 20

// APINode performs an HTTP request and stores the response in the variable bag.
type APINode struct {
	id     string
	config APIConfig
	client protocol.HTTPDoer
}

// APIConfig defines the configuration for API nodes.
type APIConfig struct {
	URL     string            `json:"url"`
	Method  string            `json:"method"`
	Headers map[string]string `json:"headers"`
	Body    string            `json:"body,omitempty"`
	Timeout time.Duration     `json:"timeout"`
	Retries RetryConfig       `json:"retries"`
}

// RetryConfig defines retry behavior for transport failures and 5xx responses.
type RetryConfig struct {
	Attempts int           `json:"attempts"`
	Delay    time.Duration `json:"delay"`
}

// NewAPINode creates a new API node.
func NewAPINode(id string, config map[string]any, client protocol.HTTPDoer) (*APINode, error) {
	apiConfig := APIConfig{
		URL:     protocol.ConfigString(config, "url"),
		Method:  http.MethodGet,
		Body:    bodyString(config["body"]),
		Timeout: 30 * time.Second,
		Retries: RetryConfig{Attempts: 1},
	}

	if method := protocol.ConfigString(config, "method"); method != "" {
		apiConfig.Method = strings.ToUpper(method)
	}

	headers, err := protocol.ConfigStringMap(config, "headers")
	if err != nil {
		return nil, err
	}

	apiConfig.Headers = headers

	timeout, ok, err := protocol.ConfigNumber(config, "timeout")
	if err != nil {
		return nil, err
	}

	if ok {
		if timeout < 1 || timeout > 300 {
			return nil, protocol.InvalidConfig("timeout", "must be between 1 and 300 seconds")
		}

		apiConfig.Timeout = time.Duration(timeout * float64(time.Second))
	}

	retries, err := protocol.ConfigMap(config, "retries")
	if err != nil {
		return nil, err
	}

	if retries != nil {
		if attempts, ok, _ := protocol.ConfigNumber(retries, "attempts"); ok && attempts >= 1 && attempts <= 10 {
			apiConfig.Retries.Attempts = int(attempts)
		}

		if delay, ok, _ := protocol.ConfigNumber(retries, "delay"); ok && delay >= 0 && delay <= 30000 {
			apiConfig.Retries.Delay = time.Duration(delay) * time.Millisecond
		}
	}

	return &APINode{id: id, config: apiConfig, client: client}, nil
}

func (n *APINode) ID() string {
	return n.id
}

func (n *APINode) Type() models.NodeType {
	return models.NodeTypeAPI
}

// Execute resolves url, headers and body, performs the request and stores the
// decoded response under lastAPIResponse.
func (n *APINode) Execute(ctx context.Context, run *protocol.Run) (protocol.Result, error) {
	url := run.Resolve(n.config.URL)
	if url == "" {
		return protocol.Continue, protocol.MissingField("url")
	}

	body := run.Resolve(n.config.Body)
	headers := make(map[string]string, len(n.config.Headers))

	for key, value := range n.config.Headers {
		headers[key] = run.Resolve(value)
	}

	run.Logf(models.LogLevelInfo, "Calling %s %s", n.config.Method, url)

	var (
		response any
		lastErr  error
	)

	for attempt := 1; attempt <= n.config.Retries.Attempts; attempt++ {
		if attempt > 1 {
			select {
			case <-time.After(n.config.Retries.Delay):
			case <-ctx.Done():
				return protocol.Continue, ctx.Err()
			}
		}

		response, lastErr = n.performRequest(ctx, url, body, headers)
		if lastErr == nil {
			break
		}

		var providerErr *protocol.ProviderError
		if errors.As(lastErr, &providerErr) && providerErr.StatusCode < http.StatusInternalServerError {
			break
		}
	}

	if lastErr != nil {
		return protocol.Continue, protocol.AsProviderError("api", lastErr)
	}

	run.Context().SetVariable(VariableLastAPIResponse, response)
	run.Logf(models.LogLevelInfo, "API call to %s succeeded", url)

	return protocol.Continue, nil
}

func (n *APINode) performRequest(ctx context.Context, url, body string, headers map[string]string) (any, error) {
	ctx, cancel := context.WithTimeout(ctx, n.config.Timeout)
	defer cancel()

	var reqBody io.Reader
	if body != "" {
		reqBody = strings.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, n.config.Method, url, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range headers {
		req.Header.Set(key, value)
	}

	if body != "" && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	oversized := len(respBody) > maxResponseBytes
	if oversized {
		respBody = respBody[:maxResponseBytes]
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &protocol.ProviderError{
			Provider:   "api",
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(respBody)),
		}
	}

	if oversized {
		return nil, &protocol.ProviderError{
			Provider:   "api",
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("response body exceeds %d bytes", maxResponseBytes),
		}
	}

	var decoded any
	if err := json.Unmarshal(respBody, &decoded); err == nil {
		return decoded, nil
	}

	return string(respBody), nil
}

// bodyString accepts either a literal string body or a structured object that
// is sent as JSON.
func bodyString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}

		return string(data)
	}
}
