package webhooklistener

import (
	"context"

	"github.com/dukex/hireflow/pkg/protocol"
)

type WebhookListenerNodeFactory struct {
	registrar protocol.WebhookRegistrar
}

func NewWebhookListenerNodeFactory(registrar protocol.WebhookRegistrar) protocol.NodeFactory {
	return &WebhookListenerNodeFactory{registrar: registrar}
}

func (f *WebhookListenerNodeFactory) Create(_ context.Context, id string, config map[string]any) (protocol.Node, error) {
	return NewWebhookListenerNode(id, config, f.registrar)
}

func (f *WebhookListenerNodeFactory) ID() string {
	return "webhook_listener"
}

func (f *WebhookListenerNodeFactory) Name() string {
	return "Wait for Webhook"
}

func (f *WebhookListenerNodeFactory) Description() string {
	return "Pauses the workflow until an external system POSTs to the generated callback URL"
}

func (f *WebhookListenerNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"timeout": map[string]any{
				"type":        "integer",
				"description": "Seconds to wait before the execution is cancelled. 0 waits forever",
				"default":     3600,
				"minimum":     0,
			},
			"expectedPayload": map[string]any{
				"type":        "object",
				"description": "JSON Schema the callback body must satisfy",
			},
		},
	}
}
