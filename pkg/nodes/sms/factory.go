package sms

import (
	"context"

	"github.com/dukex/hireflow/pkg/protocol"
)

// SMSNodeFactory creates SMSNode instances bound to a provider.
type SMSNodeFactory struct {
	provider protocol.SMSProvider
}

func NewSMSNodeFactory(provider protocol.SMSProvider) protocol.NodeFactory {
	return &SMSNodeFactory{provider: provider}
}

func (f *SMSNodeFactory) Create(_ context.Context, id string, config map[string]any) (protocol.Node, error) {
	return NewSMSNode(id, config, f.provider), nil
}

func (f *SMSNodeFactory) ID() string {
	return "sms"
}

func (f *SMSNodeFactory) Name() string {
	return "Send SMS"
}

func (f *SMSNodeFactory) Description() string {
	return "Sends a text message to a phone number through the configured SMS provider"
}

func (f *SMSNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"recipient": map[string]any{
				"type":        "string",
				"description": "Destination phone number. Supports placeholders such as {{candidate.phone}}",
			},
			"message": map[string]any{
				"type":        "string",
				"description": "Message text. Supports placeholders",
			},
		},
		"required": []string{"recipient", "message"},
	}
}
