package control

import (
	"context"

	"github.com/dukex/hireflow/pkg/models"
	"github.com/dukex/hireflow/pkg/protocol"
)

// MarkerNodeFactory creates start or end nodes.
type MarkerNodeFactory struct {
	nodeType models.NodeType
}

func NewStartNodeFactory() protocol.NodeFactory {
	return &MarkerNodeFactory{nodeType: models.NodeTypeStart}
}

func NewEndNodeFactory() protocol.NodeFactory {
	return &MarkerNodeFactory{nodeType: models.NodeTypeEnd}
}

func (f *MarkerNodeFactory) Create(_ context.Context, id string, _ map[string]any) (protocol.Node, error) {
	return NewMarkerNode(id, f.nodeType), nil
}

func (f *MarkerNodeFactory) ID() string {
	return string(f.nodeType)
}

func (f *MarkerNodeFactory) Name() string {
	if f.nodeType == models.NodeTypeStart {
		return "Start"
	}

	return "End"
}

func (f *MarkerNodeFactory) Description() string {
	if f.nodeType == models.NodeTypeStart {
		return "Entry point of the workflow"
	}

	return "Terminates the branch it is reached on"
}

func (f *MarkerNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": map[string]any{},
	}
}
