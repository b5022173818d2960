package main

import (
	"github.com/dukex/hireflow/pkg/services"
	"github.com/dukex/hireflow/pkg/web"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	fiberlogger "github.com/gofiber/fiber/v3/middleware/logger"
)

type API struct {
	app      *app
	validate *validator.Validate
}

func NewAPI(a *app) *API {
	return &API{
		app:      a,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (a *API) App() *fiber.App {
	workflowService := services.NewWorkflow(a.app.persistence, a.app.registry, a.app.clock)
	publishingService := services.NewPublishing(workflowService)
	nodeService := services.NewNode(workflowService)

	handlers := web.NewAPIHandlers(
		workflowService,
		publishingService,
		nodeService,
		a.app.engine,
		a.validate,
		a.app.registry,
	)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("Hireflow API")
	})

	handlers.RegisterRoutes(app)

	return app
}
