package webhook

import (
	"context"

	"github.com/dukex/hireflow/pkg/protocol"
)

type WebhookNodeFactory struct {
	client protocol.HTTPDoer
}

func NewWebhookNodeFactory(client protocol.HTTPDoer) protocol.NodeFactory {
	return &WebhookNodeFactory{client: client}
}

func (f *WebhookNodeFactory) Create(_ context.Context, id string, config map[string]any) (protocol.Node, error) {
	return NewWebhookNode(id, config, f.client)
}

func (f *WebhookNodeFactory) ID() string {
	return "webhook"
}

func (f *WebhookNodeFactory) Name() string {
	return "Outgoing Webhook"
}

func (f *WebhookNodeFactory) Description() string {
	return "POSTs the workflow variables and candidate data to an external URL"
}

func (f *WebhookNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"url": map[string]any{"type": "string", "description": "Destination URL. Supports placeholders"},
			"headers": map[string]any{
				"type":                 "object",
				"additionalProperties": map[string]any{"type": "string"},
			},
		},
		"required": []string{"url"},
	}
}
