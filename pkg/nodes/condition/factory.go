package condition

import (
	"context"

	"github.com/dukex/hireflow/pkg/protocol"
)

// ConditionNodeFactory creates ConditionNode instances.
type ConditionNodeFactory struct{}

// NewConditionNodeFactory creates a new condition node factory.
func NewConditionNodeFactory() protocol.NodeFactory {
	return &ConditionNodeFactory{}
}

// Create creates a new ConditionNode instance.
func (f *ConditionNodeFactory) Create(_ context.Context, id string, config map[string]any) (protocol.Node, error) {
	return NewConditionNode(id, config)
}

// ID returns the factory ID.
func (f *ConditionNodeFactory) ID() string {
	return "condition"
}

// Name returns the factory name.
func (f *ConditionNodeFactory) Name() string {
	return "Condition"
}

// Description returns the factory description.
func (f *ConditionNodeFactory) Description() string {
	return "Compares a variable with a value and follows the connections tagged true or false"
}

// Schema returns the JSON schema for condition node configuration.
func (f *ConditionNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"field": map[string]any{
				"type":        "string",
				"description": "Variable name to read. candidate.* and job.* read the candidate and job payloads",
				"examples":    []string{"score", "candidate.status"},
			},
			"operator": map[string]any{
				"type":    "string",
				"default": OperatorEquals,
				"enum":    []string{OperatorEquals, OperatorNotEquals, OperatorGreaterThan, OperatorLessThan},
			},
			"value": map[string]any{
				"type":        "string",
				"description": "Value to compare against. Supports placeholders",
			},
		},
		"required": []string{"field"},
	}
}
