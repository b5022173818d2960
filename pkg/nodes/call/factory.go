package call

import (
	"context"

	"github.com/dukex/hireflow/pkg/protocol"
)

type CallNodeFactory struct {
	provider protocol.CallProvider
}

func NewCallNodeFactory(provider protocol.CallProvider) protocol.NodeFactory {
	return &CallNodeFactory{provider: provider}
}

func (f *CallNodeFactory) Create(_ context.Context, id string, config map[string]any) (protocol.Node, error) {
	return NewCallNode(id, config, f.provider), nil
}

func (f *CallNodeFactory) ID() string {
	return "call"
}

func (f *CallNodeFactory) Name() string {
	return "Voice Call"
}

func (f *CallNodeFactory) Description() string {
	return "Places an automated voice call, optionally reading a script"
}

func (f *CallNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"phoneNumber": map[string]any{
				"type":        "string",
				"description": "Number to call. Supports placeholders",
			},
			"script": map[string]any{
				"type":        "string",
				"description": "Text read to the callee",
			},
		},
		"required": []string{"phoneNumber"},
	}
}
