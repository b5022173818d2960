package web

import (
	"errors"

	"github.com/dukex/hireflow/pkg/engine"
	"github.com/dukex/hireflow/pkg/services"
	"github.com/gofiber/fiber/v3"
	"github.com/moogar0880/problems"
)

func badRequest(c fiber.Ctx, detail string) error {
	problem := problems.NewStatusProblem(400).
		WithInstance(c.Path()).
		WithType("validation_error").
		WithDetail(detail)

	return c.Status(fiber.StatusBadRequest).JSON(problem)
}

func notFound(c fiber.Ctx, problemType, detail string) error {
	problem := problems.NewStatusProblem(404).
		WithInstance(c.Path()).
		WithType(problemType).
		WithDetail(detail)

	return c.Status(fiber.StatusNotFound).JSON(problem)
}

func conflict(c fiber.Ctx, problemType, detail string) error {
	problem := problems.NewStatusProblem(409).
		WithInstance(c.Path()).
		WithType(problemType).
		WithDetail(detail)

	return c.Status(fiber.StatusConflict).JSON(problem)
}

func internalError(c fiber.Ctx, err error) error {
	problem := problems.NewStatusProblem(500).
		WithInstance(c.Path()).
		WithType("internal_error").
		WithError(err)

	return c.Status(fiber.StatusInternalServerError).JSON(problem)
}

// handleServiceError provides typed error handling for service layer errors.
func handleServiceError(c fiber.Ctx, err error) error {
	switch {
	case services.IsNotFoundError(err):
		problemType := "workflow_not_found"

		switch {
		case errors.Is(err, services.ErrNodeNotFound):
			problemType = "node_not_found"
		case errors.Is(err, services.ErrConnectionNotFound):
			problemType = "connection_not_found"
		}

		return notFound(c, problemType, err.Error())

	case services.IsValidationError(err):
		return badRequest(c, err.Error())

	case services.IsConflictError(err):
		return conflict(c, "conflict", err.Error())

	default:
		return internalError(c, err)
	}
}

// handleEngineError maps execution failures: unknown executions and consumed
// listeners are 404, state conflicts are 409 and rejected payloads are 400.
func handleEngineError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, engine.ErrNotFound):
		return notFound(c, "execution_not_found", err.Error())

	case errors.Is(err, engine.ErrNotWaiting):
		return conflict(c, "execution_not_waiting", err.Error())

	case errors.Is(err, engine.ErrNotCancellable):
		return conflict(c, "execution_not_cancellable", err.Error())

	case errors.Is(err, engine.ErrInvalidPayload):
		return badRequest(c, err.Error())

	default:
		return internalError(c, err)
	}
}
