package routes

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/mailer"
	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/response"
	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/services"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"gorm.io/gorm"
)

// Deps are the collaborators the HTTP app is built from. Verifier, Mailer and
// LimiterStorage are optional.
type Deps struct {
	DB             *gorm.DB
	Verifier       services.IdentityVerifier
	Mailer         mailer.Mailer
	LimiterStorage fiber.Storage
}

// NewApp builds the fiber app with global middleware and every route.
func NewApp(cfg *config.Config, deps Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "todo-backend",
		BodyLimit:    1 * 1024 * 1024,
		ErrorHandler: ErrorHandler,
	})

	if cfg.SentryDSN != "" {
		app.Use(sentryfiber.New(sentryfiber.Options{
			Repanic:         true,
			WaitForDelivery: false,
		}))
	}
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.RequestLog())
	app.Use(middleware.CORS(cfg))
	app.Use(middleware.SecurityHeaders())

	loc := cfg.Location()
	h := Handlers{
		Auth:     handlers.NewAuthHandler(services.NewAuthService(deps.DB, cfg, deps.Verifier, deps.Mailer)),
		Health:   handlers.NewHealthHandler(deps.DB),
		User:     handlers.NewUserHandler(services.NewUserService(deps.DB), services.NewActivityService(deps.DB, loc)),
		Project:  handlers.NewProjectHandler(services.NewProjectService(deps.DB)),
		Goal:     handlers.NewGoalHandler(services.NewGoalService(deps.DB)),
		Task:     handlers.NewTaskHandler(services.NewTaskService(deps.DB, loc)),
		Category: handlers.NewCategoryHandler(services.NewCategoryService(deps.DB)),
	}
	Setup(app, cfg, h, deps.LimiterStorage)

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(dto.Envelope{Error: "Route not found", Success: false})
	})
	return app
}

// ErrorHandler answers anything that escaped a handler with the envelope.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		if fe.Code >= fiber.StatusInternalServerError {
			slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
			fe = fiber.ErrInternalServerError
		}
		return c.Status(fe.Code).JSON(dto.Envelope{Error: fe.Message, Success: false})
	}
	return response.Error(c, err)
}
