package database

import (
	"context"
	"log/slog"

	"github.com/dukex/hireflow/pkg/protocol"
)

// DatabaseNodeFactory creates DatabaseNode instances.
type DatabaseNodeFactory struct {
	logger *slog.Logger
}

// NewDatabaseNodeFactory creates a new database node factory.
func NewDatabaseNodeFactory(logger *slog.Logger) protocol.NodeFactory {
	return &DatabaseNodeFactory{logger: logger}
}

// Create creates a new DatabaseNode instance.
func (f *DatabaseNodeFactory) Create(_ context.Context, id string, config map[string]any) (protocol.Node, error) {
	return NewDatabaseNode(id, config, f.logger), nil
}

// ID returns the factory ID.
func (f *DatabaseNodeFactory) ID() string {
	return "database"
}

// Name returns the factory name.
func (f *DatabaseNodeFactory) Name() string {
	return "Database"
}

// Description returns the factory description.
func (f *DatabaseNodeFactory) Description() string {
	return "Records a database operation in the execution log. No database is contacted"
}

// Schema returns the JSON schema for database node configuration.
func (f *DatabaseNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"operation": map[string]any{
				"type":    "string",
				"default": "query",
				"enum":    []string{"query", "insert", "update", "delete"},
			},
			"table": map[string]any{"type": "string"},
			"query": map[string]any{"type": "string", "description": "Supports placeholders"},
		},
	}
}
