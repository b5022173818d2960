package engine

import (
	"errors"

	"github.com/dukex/hireflow/pkg/listeners"
)

var (
	// ErrNotFound indicates there is no execution, or no active webhook
	// listener, for the request.
	ErrNotFound = errors.New("not found")

	// ErrNotWaiting indicates a resume targeted an execution that is not
	// suspended on the given node.
	ErrNotWaiting = errors.New("execution is not waiting for a webhook")

	// ErrNotCancellable indicates a cancel of an execution already in a terminal state.
	ErrNotCancellable = errors.New("execution cannot be cancelled")

	// ErrInvalidPayload is returned when a resume payload fails the listener's schema.
	ErrInvalidPayload = listeners.ErrInvalidPayload
)
