package graph

import (
	"errors"
	"fmt"
)

var (
	// ErrDanglingConnection indicates a connection references a node id that does not exist.
	ErrDanglingConnection = errors.New("dangling connection")

	// ErrDuplicateNodeID indicates two nodes share the same id.
	ErrDuplicateNodeID = errors.New("duplicate node id")

	// ErrDuplicateConnectionID indicates two connections share the same id.
	ErrDuplicateConnectionID = errors.New("duplicate connection id")

	// ErrUnreachableNode indicates a node has no inbound path from start. Reported as a warning.
	ErrUnreachableNode = errors.New("unreachable node")

	// ErrMissingStartNode indicates the graph has no start node.
	ErrMissingStartNode = errors.New("missing start node")

	// ErrMultipleStartNodes indicates more than one start node was declared.
	ErrMultipleStartNodes = errors.New("multiple start nodes")

	// ErrCycleDetected indicates the connections form a cycle.
	ErrCycleDetected = errors.New("cycle detected")

	// ErrInvalidBranch indicates a branch label on a connection that does not leave a condition node.
	ErrInvalidBranch = errors.New("invalid branch")
)

// Error is a structural problem found in a workflow graph.
type Error struct {
	Kind         error
	NodeID       string
	ConnectionID string
}

func (e *Error) Error() string {
	switch {
	case e.ConnectionID != "" && e.NodeID != "":
		return fmt.Sprintf("%v: connection %s references node %s", e.Kind, e.ConnectionID, e.NodeID)
	case e.ConnectionID != "":
		return fmt.Sprintf("%v: connection %s", e.Kind, e.ConnectionID)
	case e.NodeID != "":
		return fmt.Sprintf("%v: node %s", e.Kind, e.NodeID)
	default:
		return e.Kind.Error()
	}
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func nodeError(kind error, nodeID string) *Error {
	return &Error{Kind: kind, NodeID: nodeID}
}

func connectionError(kind error, connectionID, nodeID string) *Error {
	return &Error{Kind: kind, ConnectionID: connectionID, NodeID: nodeID}
}
