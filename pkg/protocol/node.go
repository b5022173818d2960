// Package protocol defines the contract between the execution engine and
// node handlers.
package protocol

import (
	"context"
	"fmt"
	"time"

	"github.com/dukex/hireflow/pkg/clock"
	"github.com/dukex/hireflow/pkg/models"
	"github.com/dukex/hireflow/pkg/template"
)

// Node executes one workflow node against a run.
type Node interface {
	ID() string
	Type() models.NodeType
	Execute(ctx context.Context, run *Run) (Result, error)
}

// NodeFactory creates node instances and provides metadata about the node type.
type NodeFactory interface {
	// Create creates a new node instance with the given configuration
	Create(ctx context.Context, id string, config map[string]any) (Node, error)

	// ID returns the node type this factory builds
	ID() string

	// Name returns the human-readable name for this node type
	Name() string

	// Description returns a description of what this node does
	Description() string

	// Schema returns the JSON schema for configuring this node
	Schema() map[string]any
}

// Result is the effect a node reports back to the engine.
type Result struct {
	// Suspend stops traversal and leaves the execution waiting.
	Suspend bool

	// Branch, when set, restricts traversal to untagged connections and
	// connections tagged with the same branch.
	Branch string
}

// Continue is the result of a node that completed normally.
var Continue = Result{}

// Run is the state a node executes against: the node definition and the
// execution it belongs to, including its variable bag.
type Run struct {
	Node      *models.WorkflowNode
	Execution *models.WorkflowExecution
	Clock     clock.Clock
}

// Context returns the run's mutable variable bag.
func (r *Run) Context() *models.ExecutionContext {
	return &r.Execution.Context
}

// Resolve substitutes placeholders in s against the run context.
func (r *Run) Resolve(s string) string {
	return template.Resolve(s, r.Context())
}

// Logf appends a log entry attributed to the current node.
func (r *Run) Logf(level models.LogLevel, format string, args ...any) {
	r.Execution.Log(r.Now(), level, r.Node.ID, fmt.Sprintf(format, args...))
}

// Now returns the current time of the run's clock.
func (r *Run) Now() time.Time {
	if r.Clock == nil {
		return time.Now().UTC()
	}

	return r.Clock.Now()
}
