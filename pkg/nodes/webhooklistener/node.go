// Package webhooklistener provides the node that suspends a run until an
// external system calls back.
package webhooklistener

import (
	"context"
	"time"

	"github.com/dukex/hireflow/pkg/listeners"
	"github.com/dukex/hireflow/pkg/models"
	"github.com/dukex/hireflow/pkg/protocol"
)

// WebhookListenerNode registers a callback URL for the current execution and
// node, then suspends the run.
type WebhookListenerNode struct {
	id              string
	timeout         time.Duration
	expectedPayload map[string]any
	registrar       protocol.WebhookRegistrar
}

// NewWebhookListenerNode parses timeout (seconds, default 3600, 0 disables
// expiry) and an optional expectedPayload JSON Schema.
func NewWebhookListenerNode(id string, config map[string]any, registrar protocol.WebhookRegistrar) (*WebhookListenerNode, error) {
	timeout := listeners.DefaultTimeout

	configured, ok, err := protocol.ConfigDuration(config, "timeout", time.Second)
	if err != nil {
		return nil, err
	}

	if ok {
		timeout = configured
	}

	expected, err := protocol.ConfigMap(config, "expectedPayload")
	if err != nil {
		return nil, err
	}

	if expected == nil {
		if expected, err = protocol.ConfigMap(config, "expected_payload"); err != nil {
			return nil, err
		}
	}

	if err := listeners.CompileSchema(expected); err != nil {
		return nil, protocol.InvalidConfig("expectedPayload", err.Error())
	}

	return &WebhookListenerNode{
		id:              id,
		timeout:         timeout,
		expectedPayload: expected,
		registrar:       registrar,
	}, nil
}

func (n *WebhookListenerNode) ID() string {
	return n.id
}

func (n *WebhookListenerNode) Type() models.NodeType {
	return models.NodeTypeWebhookListener
}

// Execute registers the listener, marks the execution waiting and signals
// suspension.
func (n *WebhookListenerNode) Execute(ctx context.Context, run *protocol.Run) (protocol.Result, error) {
	execution := run.Execution

	listener, err := n.registrar.Register(ctx, execution.WorkflowID, execution.ID, n.id, n.timeout)
	if err != nil {
		return protocol.Continue, err
	}

	execution.Status = models.ExecutionStatusWaiting
	execution.WaitingForWebhook = &models.WaitingForWebhook{
		NodeID:          n.id,
		WebhookURL:      listener.WebhookURL,
		ExpectedPayload: n.expectedPayload,
	}

	if listener.ExpiresAt != nil {
		run.Logf(models.LogLevelInfo, "Waiting for webhook at %s until %s", listener.WebhookURL, listener.ExpiresAt.Format(time.RFC3339))
	} else {
		run.Logf(models.LogLevelInfo, "Waiting for webhook at %s", listener.WebhookURL)
	}

	return protocol.Result{Suspend: true}, nil
}
