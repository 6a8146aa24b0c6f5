package response

import (
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/dto"
	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
)

func OK(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusOK).JSON(dto.Envelope{Data: data, Success: true})
}

func Created(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusCreated).JSON(dto.Envelope{Data: data, Success: true})
}

func Message(c *fiber.Ctx, message string) error {
	return OK(c, dto.MessageResponse{Message: message})
}

// Error translates err through apperr and writes the failure envelope.
// Server-side failures are logged and reported; their details never reach the client.
func Error(c *fiber.Ctx, err error) error {
	appErr := apperr.Translate(err)
	status := appErr.Status()

	if status >= fiber.StatusInternalServerError {
		slog.Error("request failed",
			"method", c.Method(),
			"path", c.Path(),
			"request_id", requestID(c),
			"user_id", userID(c),
			"error", err.Error(),
		)
		if hub := sentryfiber.GetHubFromContext(c); hub != nil {
			hub.CaptureException(err)
		} else {
			sentry.CaptureException(err)
		}
	}

	return c.Status(status).JSON(dto.Envelope{
		Error:   appErr.Message,
		Errors:  appErr.Fields,
		Success: false,
	})
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return ""
}

func userID(c *fiber.Ctx) string {
	if id, ok := c.Locals("user_id").(string); ok {
		return id
	}
	return ""
}
