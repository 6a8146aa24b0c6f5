package handlers

import (
	"strconv"

	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/validation"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var (
	errInvalidBody = apperr.BadRequest("Invalid request body")
	errInvalidID   = apperr.BadRequest("Invalid id")
)

// bind decodes the JSON body into out and validates it.
func bind(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return errInvalidBody
	}
	return validation.Check(out)
}

func pathID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, errInvalidID
	}
	return id, nil
}

// queryUUID returns nil when key is absent.
func queryUUID(c *fiber.Ctx, key string) (*uuid.UUID, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, apperr.BadRequest("Invalid " + key)
	}
	return &id, nil
}

func queryBool(c *fiber.Ctx, key string) (*bool, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, apperr.BadRequest(key + " must be true or false")
	}
	return &b, nil
}
