// Package database provides the database node. It performs no storage
// operation; it records the requested operation in the execution log and the
// process log so the step is visible while the integration does not exist.
package database

import (
	"context"
	"log/slog"

	"github.com/dukex/hireflow/pkg/models"
	"github.com/dukex/hireflow/pkg/protocol"
)

// DatabaseNode logs the configured operation and continues.
type DatabaseNode struct {
	id        string
	operation string
	table     string
	query     string
	logger    *slog.Logger
}

// NewDatabaseNode creates a new database node.
func NewDatabaseNode(id string, config map[string]any, logger *slog.Logger) *DatabaseNode {
	operation := protocol.ConfigString(config, "operation")
	if operation == "" {
		operation = "query"
	}

	return &DatabaseNode{
		id:        id,
		operation: operation,
		table:     protocol.ConfigString(config, "table"),
		query:     protocol.ConfigString(config, "query"),
		logger:    logger,
	}
}

// ID returns the node ID.
func (n *DatabaseNode) ID() string {
	return n.id
}

// Type returns the node type.
func (n *DatabaseNode) Type() models.NodeType {
	return models.NodeTypeDatabase
}

// Execute records the operation without touching any database.
func (n *DatabaseNode) Execute(ctx context.Context, run *protocol.Run) (protocol.Result, error) {
	query := run.Resolve(n.query)

	n.logger.InfoContext(ctx, "Database operation skipped",
		"node_id", n.id,
		"execution_id", run.Execution.ID,
		"operation", n.operation,
		"table", n.table)

	if n.table != "" {
		run.Logf(models.LogLevelInfo, "Database %s on %s recorded (no database configured)", n.operation, n.table)
	} else {
		run.Logf(models.LogLevelInfo, "Database %s recorded (no database configured)", n.operation)
	}

	if query != "" {
		run.Logf(models.LogLevelInfo, "Query: %s", query)
	}

	return protocol.Continue, nil
}
