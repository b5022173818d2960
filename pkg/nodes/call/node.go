// Package call provides the node that places a voice call through a call provider.
package call

import (
	"context"

	"github.com/dukex/hireflow/pkg/models"
	"github.com/dukex/hireflow/pkg/protocol"
)

// VariableLastCallID holds the provider id of the most recent call.
const VariableLastCallID = "lastCallId"

type CallNode struct {
	id          string
	phoneNumber string
	script      string
	provider    protocol.CallProvider
}

func NewCallNode(id string, config map[string]any, provider protocol.CallProvider) *CallNode {
	return &CallNode{
		id:          id,
		phoneNumber: protocol.ConfigString(config, "phoneNumber", "phone_number"),
		script:      protocol.ConfigString(config, "script"),
		provider:    provider,
	}
}

func (n *CallNode) ID() string {
	return n.id
}

func (n *CallNode) Type() models.NodeType {
	return models.NodeTypeCall
}

func (n *CallNode) Execute(ctx context.Context, run *protocol.Run) (protocol.Result, error) {
	phoneNumber := run.Resolve(n.phoneNumber)
	if phoneNumber == "" {
		return protocol.Continue, protocol.MissingField("phoneNumber")
	}

	script := run.Resolve(n.script)

	run.Logf(models.LogLevelInfo, "Placing call to %s", phoneNumber)

	callID, err := n.provider.PlaceCall(ctx, phoneNumber, script)
	if err != nil {
		return protocol.Continue, protocol.AsProviderError("call", err)
	}

	run.Context().SetVariable(VariableLastCallID, callID)
	run.Logf(models.LogLevelInfo, "Call placed to %s (id %s)", phoneNumber, callID)

	return protocol.Continue, nil
}
