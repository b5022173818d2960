package protocol

import (
	"errors"
	"fmt"

	"github.com/dukex/hireflow/pkg/models"
)

var (
	// ErrMissingField indicates a required node configuration field is empty after substitution.
	ErrMissingField = errors.New("missing required field")

	// ErrProviderError indicates a downstream service rejected or failed a request.
	ErrProviderError = errors.New("provider error")

	// ErrInvalidConfig indicates a node configuration value has the wrong shape.
	ErrInvalidConfig = errors.New("invalid node configuration")
)

// MissingField returns an error naming the empty field.
func MissingField(field string) error {
	return fmt.Errorf("%w: %s", ErrMissingField, field)
}

// InvalidConfig returns an error describing a malformed configuration value.
func InvalidConfig(field, reason string) error {
	return fmt.Errorf("%w: %s %s", ErrInvalidConfig, field, reason)
}

// ProviderError wraps a failure reported by an external collaborator.
type ProviderError struct {
	Provider   string
	StatusCode int
	Message    string
	Err        error
}

// NewProviderError wraps err as a failure of provider.
func NewProviderError(provider string, err error) *ProviderError {
	return &ProviderError{Provider: provider, Message: err.Error(), Err: err}
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s provider error (status %d): %s", e.Provider, e.StatusCode, e.Message)
	}

	return fmt.Sprintf("%s provider error: %s", e.Provider, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

func (e *ProviderError) Is(target error) bool {
	return target == ErrProviderError
}

// NodeExecutionError is a handler failure attributed to the node that raised it.
// Its message becomes the terminal log entry and failure reason of the run.
type NodeExecutionError struct {
	NodeID   string
	NodeType models.NodeType
	Err      error
}

func (e *NodeExecutionError) Error() string {
	return fmt.Sprintf("node %s (%s) failed: %v", e.NodeID, e.NodeType, e.Err)
}

func (e *NodeExecutionError) Unwrap() error {
	return e.Err
}

// AsProviderError returns err unchanged when it already is a *ProviderError and
// wraps it as a failure of provider otherwise.
func AsProviderError(provider string, err error) error {
	var providerErr *ProviderError
	if errors.As(err, &providerErr) {
		return providerErr
	}

	return NewProviderError(provider, err)
}
