// Package sms provides the node that sends a text message through an SMS provider.
package sms

import (
	"context"

	"github.com/dukex/hireflow/pkg/models"
	"github.com/dukex/hireflow/pkg/protocol"
)

// VariableLastSMSID holds the provider id of the most recent message.
const VariableLastSMSID = "lastSMSId"

// SMSNode sends message to recipient. Both fields accept placeholders.
type SMSNode struct {
	id        string
	recipient string
	message   string
	provider  protocol.SMSProvider
}

// NewSMSNode creates a new SMS node.
func NewSMSNode(id string, config map[string]any, provider protocol.SMSProvider) *SMSNode {
	return &SMSNode{
		id:        id,
		recipient: protocol.ConfigString(config, "recipient", "to"),
		message:   protocol.ConfigString(config, "message"),
		provider:  provider,
	}
}

func (n *SMSNode) ID() string {
	return n.id
}

func (n *SMSNode) Type() models.NodeType {
	return models.NodeTypeSMS
}

// Execute resolves the recipient and message and hands them to the provider.
func (n *SMSNode) Execute(ctx context.Context, run *protocol.Run) (protocol.Result, error) {
	recipient := run.Resolve(n.recipient)
	if recipient == "" {
		return protocol.Continue, protocol.MissingField("recipient")
	}

	message := run.Resolve(n.message)
	if message == "" {
		return protocol.Continue, protocol.MissingField("message")
	}

	run.Logf(models.LogLevelInfo, "Sending SMS to %s", recipient)

	messageID, err := n.provider.SendSMS(ctx, recipient, message)
	if err != nil {
		return protocol.Continue, protocol.AsProviderError("sms", err)
	}

	run.Context().SetVariable(VariableLastSMSID, messageID)
	run.Logf(models.LogLevelInfo, "SMS sent to %s (id %s)", recipient, messageID)

	return protocol.Continue, nil
}
