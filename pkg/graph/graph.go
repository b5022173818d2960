// Package graph builds an indexed view of a workflow's nodes and connections
// and validates its structure.
package graph

import (
	"errors"
	"sort"

	"github.com/dukex/hireflow/pkg/models"
)

// Graph is an immutable arena of nodes addressed by index, with an adjacency
// list built once at construction time.
type Graph struct {
	nodes       []*models.WorkflowNode
	connections []*models.Connection
	index       map[string]int
	outgoing    [][]int
	incoming    [][]int
	start       int
}

// New indexes nodes and connections. It fails with an *Error (possibly several
// joined) when ids collide, a connection dangles, more than one start node
// exists or a branch label is used outside a condition node.
func New(nodes []*models.WorkflowNode, connections []*models.Connection) (*Graph, error) {
	g := &Graph{
		nodes:       nodes,
		connections: connections,
		index:       make(map[string]int, len(nodes)),
		outgoing:    make([][]int, len(nodes)),
		incoming:    make([][]int, len(nodes)),
		start:       -1,
	}

	var errs []error

	for i, node := range nodes {
		if _, exists := g.index[node.ID]; exists {
			errs = append(errs, nodeError(ErrDuplicateNodeID, node.ID))

			continue
		}

		g.index[node.ID] = i

		if node.Type == models.NodeTypeStart {
			if g.start >= 0 {
				errs = append(errs, nodeError(ErrMultipleStartNodes, node.ID))

				continue
			}

			g.start = i
		}
	}

	seen := make(map[string]bool, len(connections))

	for i, conn := range connections {
		if seen[conn.ID] {
			errs = append(errs, connectionError(ErrDuplicateConnectionID, conn.ID, ""))

			continue
		}

		seen[conn.ID] = true

		from, ok := g.index[conn.From]
		if !ok {
			errs = append(errs, connectionError(ErrDanglingConnection, conn.ID, conn.From))

			continue
		}

		to, ok := g.index[conn.To]
		if !ok {
			errs = append(errs, connectionError(ErrDanglingConnection, conn.ID, conn.To))

			continue
		}

		if conn.Branch != "" && nodes[from].Type != models.NodeTypeCondition {
			errs = append(errs, connectionError(ErrInvalidBranch, conn.ID, conn.From))

			continue
		}

		g.outgoing[from] = append(g.outgoing[from], i)
		g.incoming[to] = append(g.incoming[to], i)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return g, nil
}

// FromWorkflow indexes a workflow definition.
func FromWorkflow(workflow *models.Workflow) (*Graph, error) {
	return New(workflow.Nodes, workflow.Connections)
}

// FromSnapshot indexes the graph snapshot carried by an execution.
func FromSnapshot(snapshot models.GraphSnapshot) (*Graph, error) {
	return New(snapshot.Nodes, snapshot.Connections)
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.nodes)
}

// Node returns the node with the given id.
func (g *Graph) Node(id string) (*models.WorkflowNode, bool) {
	i, ok := g.index[id]
	if !ok {
		return nil, false
	}

	return g.nodes[i], true
}

// Start returns the start node or ErrMissingStartNode.
func (g *Graph) Start() (*models.WorkflowNode, error) {
	if g.start < 0 {
		return nil, ErrMissingStartNode
	}

	return g.nodes[g.start], nil
}

// Outgoing returns the connections leaving nodeID in declaration order.
func (g *Graph) Outgoing(nodeID string) []*models.Connection {
	i, ok := g.index[nodeID]
	if !ok {
		return nil
	}

	out := make([]*models.Connection, 0, len(g.outgoing[i]))
	for _, c := range g.outgoing[i] {
		out = append(out, g.connections[c])
	}

	return out
}

// Successors returns the target node ids of Outgoing(nodeID), in the same order.
func (g *Graph) Successors(nodeID string) []string {
	conns := g.Outgoing(nodeID)

	ids := make([]string, 0, len(conns))
	for _, c := range conns {
		ids = append(ids, c.To)
	}

	return ids
}

// CheckAcyclic runs Kahn's topological sort and returns an *Error wrapping
// ErrCycleDetected naming one node on a cycle when the sort cannot complete.
func (g *Graph) CheckAcyclic() error {
	inDegree := make([]int, len(g.nodes))
	for i := range g.nodes {
		inDegree[i] = len(g.incoming[i])
	}

	queue := make([]int, 0, len(g.nodes))

	for i, deg := range inDegree {
		if deg == 0 {
			queue = append(queue, i)
		}
	}

	sorted := 0

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		sorted++

		for _, c := range g.outgoing[current] {
			target := g.index[g.connections[c].To]

			inDegree[target]--
			if inDegree[target] == 0 {
				queue = append(queue, target)
			}
		}
	}

	if sorted == len(g.nodes) {
		return nil
	}

	for i, deg := range inDegree {
		if deg > 0 {
			return nodeError(ErrCycleDetected, g.nodes[i].ID)
		}
	}

	return ErrCycleDetected
}

// Unreachable returns the ids of nodes with no inbound path from start,
// sorted. Every node except start is unreachable when there is no start.
func (g *Graph) Unreachable() []string {
	reachable := make([]bool, len(g.nodes))

	if g.start >= 0 {
		reachable[g.start] = true
		queue := []int{g.start}

		for len(queue) > 0 {
			current := queue[0]
			queue = queue[1:]

			for _, c := range g.outgoing[current] {
				target := g.index[g.connections[c].To]
				if !reachable[target] {
					reachable[target] = true
					queue = append(queue, target)
				}
			}
		}
	}

	var ids []string

	for i, node := range g.nodes {
		if !reachable[i] && node.Type != models.NodeTypeStart {
			ids = append(ids, node.ID)
		}
	}

	sort.Strings(ids)

	return ids
}
