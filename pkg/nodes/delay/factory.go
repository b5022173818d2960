package delay

import (
	"context"

	"github.com/dukex/hireflow/pkg/clock"
	"github.com/dukex/hireflow/pkg/protocol"
)

type DelayNodeFactory struct {
	clock clock.Clock
}

func NewDelayNodeFactory(c clock.Clock) protocol.NodeFactory {
	return &DelayNodeFactory{clock: c}
}

func (f *DelayNodeFactory) Create(_ context.Context, id string, config map[string]any) (protocol.Node, error) {
	return NewDelayNode(id, config, f.clock)
}

func (f *DelayNodeFactory) ID() string {
	return "delay"
}

func (f *DelayNodeFactory) Name() string {
	return "Delay"
}

func (f *DelayNodeFactory) Description() string {
	return "Waits for a fixed amount of time before continuing"
}

func (f *DelayNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"duration": map[string]any{"type": "number", "minimum": 0},
			"unit": map[string]any{
				"type":    "string",
				"default": "seconds",
				"enum":    []string{"seconds", "minutes", "hours", "days"},
			},
		},
		"required": []string{"duration"},
	}
}
