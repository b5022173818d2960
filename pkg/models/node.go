package models

// NodeType identifies the handler that executes a node.
type NodeType string

const (
	NodeTypeStart           NodeType = "start"
	NodeTypeEnd             NodeType = "end"
	NodeTypeSMS             NodeType = "sms"
	NodeTypeCall            NodeType = "call"
	NodeTypeEmail           NodeType = "email"
	NodeTypeAPI             NodeType = "api"
	NodeTypeDelay           NodeType = "delay"
	NodeTypeCondition       NodeType = "condition"
	NodeTypeWebhook         NodeType = "webhook"
	NodeTypeWebhookListener NodeType = "webhook_listener"
	NodeTypeDatabase        NodeType = "database"
)

// Branch labels carried by connections leaving a condition node.
const (
	BranchTrue  = "true"
	BranchFalse = "false"
)

// Position is the canvas location of a node. It has no effect on execution.
type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// WorkflowNode is a single typed step of a workflow.
type WorkflowNode struct {
	ID       string         `json:"id"             validate:"required" yaml:"id"`
	Type     NodeType       `json:"type"           validate:"required" yaml:"type"`
	Name     string         `json:"name,omitempty" yaml:"name,omitempty"`
	Position Position       `json:"position"       yaml:"position"`
	Data     map[string]any `json:"data"           yaml:"data"`
}

// Connection is a directed edge between two nodes. Branch is only meaningful
// on connections leaving a condition node and is either empty, BranchTrue or
// BranchFalse.
type Connection struct {
	ID     string `json:"id"               validate:"required" yaml:"id"`
	From   string `json:"from"             validate:"required" yaml:"from"`
	To     string `json:"to"               validate:"required" yaml:"to"`
	Branch string `json:"branch,omitempty" validate:"omitempty,oneof=true false" yaml:"branch,omitempty"`
}
