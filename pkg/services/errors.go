// Package services implements workflow management on top of the persistence
// layer and maps failures to a small error taxonomy for the HTTP layer.
package services

import (
	"errors"
	"fmt"

	"github.com/dukex/hireflow/pkg/graph"
	"github.com/dukex/hireflow/pkg/persistence"
)

// Error codes carried by ServiceError.
const (
	CodeValidation = "VALIDATION_ERROR"
	CodeConflict   = "CONFLICT"
	CodeNotFound   = "NOT_FOUND"
)

// Business Logic Errors - These indicate client errors (4xx responses).
var (
	// Validation Errors (400 Bad Request).
	ErrInvalidRequest     = errors.New("invalid request")
	ErrWorkflowNil        = errors.New("workflow cannot be nil")
	ErrUnknownNodeType    = errors.New("unknown node type")
	ErrStartNodeRequired  = errors.New("an active workflow needs a start node")
	ErrInvalidWorkflowDoc = errors.New("invalid workflow document")

	// Business Logic Conflicts (409 Conflict).
	ErrWorkflowExists = errors.New("workflow already exists")
	ErrNodeExists     = errors.New("node already exists")

	// Not Found (404).
	ErrWorkflowNotFound   = persistence.ErrWorkflowNotFound
	ErrNodeNotFound       = errors.New("node not found")
	ErrConnectionNotFound = errors.New("connection not found")
)

// ServiceError wraps service-level errors with additional context.
type ServiceError struct {
	Op      string // Operation name
	Code    string // Error code for API responses
	Message string // Human-readable message
	Err     error  // Underlying error
}

func (e *ServiceError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}

	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func (e *ServiceError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// IsValidationError checks if an error is a validation error that should return HTTP 400.
func IsValidationError(err error) bool {
	var serviceErr *ServiceError
	if errors.As(err, &serviceErr) && serviceErr.Code == CodeValidation {
		return true
	}

	var graphErr *graph.Error

	return errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, ErrWorkflowNil) ||
		errors.Is(err, ErrUnknownNodeType) ||
		errors.Is(err, ErrStartNodeRequired) ||
		errors.Is(err, ErrInvalidWorkflowDoc) ||
		errors.As(err, &graphErr)
}

// IsConflictError checks if an error is a business logic conflict that should return HTTP 409.
func IsConflictError(err error) bool {
	return errors.Is(err, ErrWorkflowExists) ||
		errors.Is(err, ErrNodeExists)
}

// IsNotFoundError checks if an error should return HTTP 404.
func IsNotFoundError(err error) bool {
	return persistence.IsWorkflowNotFound(err) ||
		errors.Is(err, ErrNodeNotFound) ||
		errors.Is(err, ErrConnectionNotFound)
}

// NewValidationError creates a new validation error with context.
func NewValidationError(op, message string, err error) *ServiceError {
	return &ServiceError{
		Op:      op,
		Code:    CodeValidation,
		Message: message,
		Err:     err,
	}
}

func newConflictError(op, message string, err error) *ServiceError {
	return &ServiceError{Op: op, Code: CodeConflict, Message: message, Err: err}
}

func newNotFoundError(op, message string, err error) *ServiceError {
	return &ServiceError{Op: op, Code: CodeNotFound, Message: message, Err: err}
}
