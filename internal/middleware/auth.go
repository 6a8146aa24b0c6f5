package middleware

import (
	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/dto"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
)

// JWTProtected verifies the bearer access token and stores it in Locals("user").
func JWTProtected(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{JWTAlg: jwtware.HS256, Key: []byte(cfg.JWTSecret)},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.Envelope{
				Error:   "Unauthorized: invalid or expired token",
				Success: false,
			})
		},
	})
}
