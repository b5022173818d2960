// Package workflow reads workflow definitions from YAML or JSON documents.
package workflow

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/dukex/hireflow/pkg/models"
	"gopkg.in/yaml.v3"
)

// ErrEmptyDocument indicates a workflow file without content.
var ErrEmptyDocument = errors.New("empty workflow document")

// Load reads and parses the workflow file at path.
func Load(path string) (*models.Workflow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read workflow file: %w", err)
	}

	workflow, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return workflow, nil
}

// Parse decodes a YAML or JSON workflow document. The document is normalized
// through JSON so node data holds the same value types (float64 numbers,
// map[string]any objects) as a workflow received over HTTP.
func Parse(data []byte) (*models.Workflow, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid workflow document: %w", err)
	}

	if raw == nil {
		return nil, ErrEmptyDocument
	}

	normalized, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid workflow document: %w", err)
	}

	var workflow models.Workflow
	if err := json.Unmarshal(normalized, &workflow); err != nil {
		return nil, fmt.Errorf("invalid workflow document: %w", err)
	}

	if workflow.Nodes == nil {
		workflow.Nodes = []*models.WorkflowNode{}
	}

	if workflow.Connections == nil {
		workflow.Connections = []*models.Connection{}
	}

	return &workflow, nil
}
