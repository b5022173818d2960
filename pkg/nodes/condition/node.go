// Package condition provides the node that compares a variable with a value
// and selects the true or false branch.
package condition

import (
	"context"
	"strconv"
	"strings"

	"github.com/dukex/hireflow/pkg/models"
	"github.com/dukex/hireflow/pkg/protocol"
	"github.com/dukex/hireflow/pkg/template"
)

// VariableLastConditionResult holds the boolean outcome of the most recent condition.
const VariableLastConditionResult = "lastConditionResult"

const (
	OperatorEquals      = "equals"
	OperatorNotEquals   = "not_equals"
	OperatorGreaterThan = "greater_than"
	OperatorLessThan    = "less_than"
)

// ConditionNode evaluates field <operator> value. The outcome is stored in
// the variable bag and returned as the branch to follow.
type ConditionNode struct {
	id       string
	field    string
	operator string
	value    string
}

// NewConditionNode creates a new condition node.
func NewConditionNode(id string, config map[string]any) (*ConditionNode, error) {
	operator := protocol.ConfigString(config, "operator")
	if operator == "" {
		operator = OperatorEquals
	}

	switch operator {
	case OperatorEquals, OperatorNotEquals, OperatorGreaterThan, OperatorLessThan:
	default:
		return nil, protocol.InvalidConfig("operator", "must be one of equals, not_equals, greater_than, less_than")
	}

	return &ConditionNode{
		id:       id,
		field:    protocol.ConfigString(config, "field"),
		operator: operator,
		value:    protocol.ConfigString(config, "value"),
	}, nil
}

// ID returns the node ID.
func (n *ConditionNode) ID() string {
	return n.id
}

// Type returns the node type.
func (n *ConditionNode) Type() models.NodeType {
	return models.NodeTypeCondition
}

// Execute evaluates the condition and routes to the matching branch.
func (n *ConditionNode) Execute(_ context.Context, run *protocol.Run) (protocol.Result, error) {
	if n.field == "" {
		return protocol.Continue, protocol.MissingField("field")
	}

	actual, _ := template.Lookup(n.field, run.Context())
	expected := run.Resolve(n.value)

	result := Evaluate(actual, n.operator, expected)

	run.Context().SetVariable(VariableLastConditionResult, result)
	run.Logf(models.LogLevelInfo, "Condition %s %s %q evaluated to %t", n.field, n.operator, expected, result)

	if result {
		return protocol.Result{Branch: models.BranchTrue}, nil
	}

	return protocol.Result{Branch: models.BranchFalse}, nil
}

// Evaluate compares actual with expected. Both sides are compared as numbers
// when both parse as numbers and as strings otherwise.
func Evaluate(actual any, operator, expected string) bool {
	actualText := template.Format(actual)

	left, leftOK := asNumber(actual)
	right, rightErr := strconv.ParseFloat(strings.TrimSpace(expected), 64)
	numeric := leftOK && rightErr == nil

	switch operator {
	case OperatorEquals:
		if numeric {
			return left == right
		}

		return actualText == expected
	case OperatorNotEquals:
		if numeric {
			return left != right
		}

		return actualText != expected
	case OperatorGreaterThan:
		if numeric {
			return left > right
		}

		return actual != nil && actualText > expected
	case OperatorLessThan:
		if numeric {
			return left < right
		}

		return actual != nil && actualText < expected
	default:
		return false
	}
}

func asNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)

		return f, err == nil
	default:
		return 0, false
	}
}
