package email

import (
	"context"

	"github.com/dukex/hireflow/pkg/protocol"
)

type EmailNodeFactory struct {
	provider protocol.EmailProvider
}

func NewEmailNodeFactory(provider protocol.EmailProvider) protocol.NodeFactory {
	return &EmailNodeFactory{provider: provider}
}

func (f *EmailNodeFactory) Create(_ context.Context, id string, config map[string]any) (protocol.Node, error) {
	return NewEmailNode(id, config, f.provider), nil
}

func (f *EmailNodeFactory) ID() string {
	return "email"
}

func (f *EmailNodeFactory) Name() string {
	return "Send Email"
}

func (f *EmailNodeFactory) Description() string {
	return "Sends an email through the configured email provider"
}

func (f *EmailNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"to":      map[string]any{"type": "string", "description": "Recipient address. Supports placeholders"},
			"subject": map[string]any{"type": "string", "description": "Subject line. Supports placeholders"},
			"body":    map[string]any{"type": "string", "description": "Message body. Supports placeholders"},
		},
		"required": []string{"to", "subject", "body"},
	}
}
