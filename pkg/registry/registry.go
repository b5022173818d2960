// Package registry keeps the node factories the engine dispatches to.
package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/dukex/hireflow/pkg/models"
	"github.com/dukex/hireflow/pkg/protocol"
)

// ErrUnknownNodeType indicates no factory is registered for a node type.
var ErrUnknownNodeType = errors.New("unknown node type")

type Registry struct {
	logger        *slog.Logger
	mu            sync.RWMutex
	nodeFactories map[string]protocol.NodeFactory
}

func NewRegistry(log *slog.Logger) *Registry {
	return &Registry{
		logger:        log,
		nodeFactories: make(map[string]protocol.NodeFactory),
	}
}

// RegisterNode adds or replaces the factory for factory.ID().
func (r *Registry) RegisterNode(factory protocol.NodeFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nodeFactories[factory.ID()] = factory
	r.logger.Debug("Registered node type", "type", factory.ID())
}

// HasNode reports whether nodeType has a registered factory.
func (r *Registry) HasNode(nodeType models.NodeType) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.nodeFactories[string(nodeType)]

	return ok
}

// CreateNode builds the handler for a workflow node.
func (r *Registry) CreateNode(ctx context.Context, node *models.WorkflowNode) (protocol.Node, error) {
	r.mu.RLock()
	factory, ok := r.nodeFactories[string(node.Type)]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNodeType, node.Type)
	}

	config := node.Data
	if config == nil {
		config = map[string]any{}
	}

	handler, err := factory.Create(ctx, node.ID, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s node %s: %w", node.Type, node.ID, err)
	}

	return handler, nil
}

// GetAvailableNodes returns every registered factory ordered by type.
func (r *Registry) GetAvailableNodes() []protocol.NodeFactory {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factories := make([]protocol.NodeFactory, 0, len(r.nodeFactories))
	for _, factory := range r.nodeFactories {
		factories = append(factories, factory)
	}

	sort.Slice(factories, func(i, j int) bool {
		return factories[i].ID() < factories[j].ID()
	})

	return factories
}

// HealthCheck reports whether any node type is registered.
func (r *Registry) HealthCheck() (string, bool) {
	r.mu.RLock()
	count := len(r.nodeFactories)
	r.mu.RUnlock()

	if count == 0 {
		return "No node types registered", false
	}

	return fmt.Sprintf("%d node types registered", count), true
}
