package routes

import (
	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Auth     *handlers.AuthHandler
	Health   *handlers.HealthHandler
	User     *handlers.UserHandler
	Project  *handlers.ProjectHandler
	Goal     *handlers.GoalHandler
	Task     *handlers.TaskHandler
	Category *handlers.CategoryHandler
}

// Setup mounts every route under /api. A rate limit of 0 disables limiting.
func Setup(app *fiber.App, cfg *config.Config, h Handlers, storage fiber.Storage) {
	api := app.Group("/api")
	if cfg.RateLimitMax > 0 {
		api.Use(middleware.RateLimit(cfg.RateLimitMax, cfg.RateLimitWindow, storage))
	}

	api.Get("/health", h.Health.Check)

	// Auth: public, stricter limit.
	auth := api.Group("/auth")
	if cfg.RateLimitAuthMax > 0 {
		auth.Use(middleware.RateLimit(cfg.RateLimitAuthMax, cfg.RateLimitWindow, storage))
	}
	auth.Post("/signup", h.Auth.Signup)
	auth.Post("/login", h.Auth.Login)
	auth.Post("/refresh", h.Auth.Refresh)
	auth.Post("/logout", h.Auth.Logout)
	auth.Post("/oauth/:provider", h.Auth.OAuth)
	auth.Post("/forgot-password", h.Auth.ForgotPassword)
	auth.Post("/reset-password", h.Auth.ResetPassword)

	jwt := middleware.JWTProtected(cfg)

	user := api.Group("/user", jwt)
	user.Get("/", h.User.Profile)
	user.Delete("/", h.User.DeleteAccount)
	user.Put("/update-profile", h.User.UpdateProfile)
	user.Get("/settings", h.User.Settings)
	user.Put("/settings", h.User.UpdateSettings)
	user.Get("/activity", h.User.Activity)

	projects := api.Group("/projects", jwt)
	projects.Get("/", h.Project.List)
	projects.Post("/", h.Project.Create)
	projects.Get("/:id", h.Project.Get)
	projects.Put("/:id", h.Project.Replace)
	projects.Patch("/:id", h.Project.Patch)
	projects.Delete("/:id", h.Project.Delete)

	goals := api.Group("/goals", jwt)
	goals.Get("/", h.Goal.List)
	goals.Post("/", h.Goal.Create)
	goals.Get("/:id", h.Goal.Get)
	goals.Put("/:id", h.Goal.Replace)
	goals.Patch("/:id", h.Goal.Patch)
	goals.Delete("/:id", h.Goal.Delete)

	tasks := api.Group("/tasks", jwt)
	tasks.Get("/", h.Task.List)
	tasks.Post("/", h.Task.Create)
	tasks.Get("/:id", h.Task.Get)
	tasks.Put("/:id", h.Task.Replace)
	tasks.Patch("/:id", h.Task.Patch)
	tasks.Delete("/:id", h.Task.Delete)

	categories := api.Group("/categories", jwt)
	categories.Get("/", h.Category.List)
	categories.Post("/", h.Category.Create)
	categories.Get("/:id", h.Category.Get)
	categories.Put("/:id", h.Category.Replace)
	categories.Patch("/:id", h.Category.Patch)
	categories.Delete("/:id", h.Category.Delete)
}
