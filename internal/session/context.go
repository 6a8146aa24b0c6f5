// Package session derives the caller's identity from the verified access token.
package session

import (
	"errors"

	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/apperr"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrUnauthorized = apperr.Unauthorized("Unauthorized")

// UserID re-derives the user id from the JWT placed in Locals("user") by the
// JWT middleware. Every handler calls it; nothing is cached between requests.
func UserID(c *fiber.Ctx) (uuid.UUID, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok || token == nil || !token.Valid {
		return uuid.Nil, ErrUnauthorized
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, ErrUnauthorized
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return uuid.Nil, ErrUnauthorized
	}

	id, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, errors.Join(ErrUnauthorized, err)
	}

	c.Locals("user_id", id.String())
	return id, nil
}
