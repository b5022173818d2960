package api

import (
	"context"

	"github.com/dukex/hireflow/pkg/protocol"
)

// APINodeFactory creates APINode instances.
type APINodeFactory struct {
	client protocol.HTTPDoer
}

// NewAPINodeFactory creates a new API node factory.
func NewAPINodeFactory(client protocol.HTTPDoer) protocol.NodeFactory {
	return &APINodeFactory{client: client}
}

// Create creates a new APINode instance.
func (f *APINodeFactory) Create(_ context.Context, id string, config map[string]any) (protocol.Node, error) {
	return NewAPINode(id, config, f.client)
}

// ID returns the factory ID.
func (f *APINodeFactory) ID() string {
	return "api"
}

// Name returns the factory name.
func (f *APINodeFactory) Name() string {
	return "API Request"
}

// Description returns the factory description.
func (f *APINodeFactory) Description() string {
	return "Performs an HTTP request and stores the response in lastAPIResponse"
}

// Schema returns the JSON schema for API node configuration.
func (f *APINodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"url": map[string]any{
				"type":        "string",
				"description": "HTTP URL to request. Supports placeholders",
				"examples": []string{
					"https://api.example.com/candidates/{{candidate.id}}",
				},
			},
			"method": map[string]any{
				"type":    "string",
				"default": "GET",
				"enum":    []string{"GET", "POST", "PUT", "DELETE", "PATCH", "HEAD", "OPTIONS"},
			},
			"headers": map[string]any{
				"type":                 "object",
				"description":          "HTTP headers. Values support placeholders",
				"additionalProperties": map[string]any{"type": "string"},
			},
			"body": map[string]any{
				"type":        "string",
				"description": "Request body. Supports placeholders",
			},
			"timeout": map[string]any{
				"type":        "integer",
				"description": "Request timeout in seconds",
				"default":     30,
				"minimum":     1,
				"maximum":     300,
			},
			"retries": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"attempts": map[string]any{"type": "integer", "default": 1, "minimum": 1, "maximum": 10},
					"delay":    map[string]any{"type": "integer", "default": 0, "minimum": 0, "maximum": 30000},
				},
			},
		},
		"required": []string{"url"},
	}
}
