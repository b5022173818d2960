// Package email provides the node that delivers an email through an email provider.
package email

import (
	"context"

	"github.com/dukex/hireflow/pkg/models"
	"github.com/dukex/hireflow/pkg/protocol"
)

type EmailNode struct {
	id       string
	to       string
	subject  string
	body     string
	provider protocol.EmailProvider
}

func NewEmailNode(id string, config map[string]any, provider protocol.EmailProvider) *EmailNode {
	return &EmailNode{
		id:       id,
		to:       protocol.ConfigString(config, "to", "recipient"),
		subject:  protocol.ConfigString(config, "subject"),
		body:     protocol.ConfigString(config, "body", "message"),
		provider: provider,
	}
}

func (n *EmailNode) ID() string {
	return n.id
}

func (n *EmailNode) Type() models.NodeType {
	return models.NodeTypeEmail
}

// Execute resolves every field before calling the provider, so a missing field
// never results in a partially sent message.
func (n *EmailNode) Execute(ctx context.Context, run *protocol.Run) (protocol.Result, error) {
	message := protocol.EmailMessage{
		To:      run.Resolve(n.to),
		Subject: run.Resolve(n.subject),
		Body:    run.Resolve(n.body),
	}

	switch {
	case message.To == "":
		return protocol.Continue, protocol.MissingField("to")
	case message.Subject == "":
		return protocol.Continue, protocol.MissingField("subject")
	case message.Body == "":
		return protocol.Continue, protocol.MissingField("body")
	}

	run.Logf(models.LogLevelInfo, "Sending email to %s", message.To)

	if _, err := n.provider.SendEmail(ctx, message); err != nil {
		return protocol.Continue, protocol.AsProviderError("email", err)
	}

	run.Logf(models.LogLevelInfo, "Email sent to %s: %s", message.To, message.Subject)

	return protocol.Continue, nil
}
