// Package webhook provides the node that notifies an external endpoint with
// the current state of a run.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dukex/hireflow/pkg/models"
	"github.com/dukex/hireflow/pkg/protocol"
)

const defaultTimeout = 30 * time.Second

// Envelope is the fixed payload POSTed by a webhook node.
type Envelope struct {
	WorkflowID  string         `json:"workflowId"`
	ExecutionID string         `json:"executionId"`
	Timestamp   time.Time      `json:"timestamp"`
	Data        map[string]any `json:"data"`
	Candidate   map[string]any `json:"candidate"`
}

type WebhookNode struct {
	id      string
	url     string
	headers map[string]string
	client  protocol.HTTPDoer
}

func NewWebhookNode(id string, config map[string]any, client protocol.HTTPDoer) (*WebhookNode, error) {
	headers, err := protocol.ConfigStringMap(config, "headers")
	if err != nil {
		return nil, err
	}

	return &WebhookNode{
		id:      id,
		url:     protocol.ConfigString(config, "url"),
		headers: headers,
		client:  client,
	}, nil
}

func (n *WebhookNode) ID() string {
	return n.id
}

func (n *WebhookNode) Type() models.NodeType {
	return models.NodeTypeWebhook
}

// Execute posts the envelope. Any response outside 2xx fails the node.
func (n *WebhookNode) Execute(ctx context.Context, run *protocol.Run) (protocol.Result, error) {
	url := run.Resolve(n.url)
	if url == "" {
		return protocol.Continue, protocol.MissingField("url")
	}

	envelope := Envelope{
		WorkflowID:  run.Execution.WorkflowID,
		ExecutionID: run.Execution.ID,
		Timestamp:   run.Now(),
		Data:        run.Context().Variables,
		Candidate:   run.Context().CandidateData,
	}

	payload, err := json.Marshal(envelope)
	if err != nil {
		return protocol.Continue, fmt.Errorf("failed to encode webhook payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return protocol.Continue, protocol.InvalidConfig("url", err.Error())
	}

	req.Header.Set("Content-Type", "application/json")

	for key, value := range n.headers {
		req.Header.Set(key, run.Resolve(value))
	}

	run.Logf(models.LogLevelInfo, "Sending webhook to %s", url)

	resp, err := n.client.Do(req)
	if err != nil {
		return protocol.Continue, protocol.NewProviderError("webhook", err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

		return protocol.Continue, &protocol.ProviderError{
			Provider:   "webhook",
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(body)),
		}
	}

	run.Logf(models.LogLevelInfo, "Webhook delivered to %s (status %d)", url, resp.StatusCode)

	return protocol.Continue, nil
}
