// Package control provides the start and end marker nodes.
package control

import (
	"context"

	"github.com/dukex/hireflow/pkg/models"
	"github.com/dukex/hireflow/pkg/protocol"
)

// MarkerNode is the no-op node used for start and end.
type MarkerNode struct {
	id       string
	nodeType models.NodeType
}

func NewMarkerNode(id string, nodeType models.NodeType) *MarkerNode {
	return &MarkerNode{id: id, nodeType: nodeType}
}

func (n *MarkerNode) ID() string {
	return n.id
}

func (n *MarkerNode) Type() models.NodeType {
	return n.nodeType
}

func (n *MarkerNode) Execute(_ context.Context, run *protocol.Run) (protocol.Result, error) {
	if n.nodeType == models.NodeTypeStart {
		run.Logf(models.LogLevelInfo, "Workflow started")
	} else {
		run.Logf(models.LogLevelInfo, "Reached end of workflow")
	}

	return protocol.Continue, nil
}
