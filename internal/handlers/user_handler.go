package handlers

import (
	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/response"
	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/session"
	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	userService     *services.UserService
	activityService *services.ActivityService
}

func NewUserHandler(userService *services.UserService, activityService *services.ActivityService) *UserHandler {
	return &UserHandler{userService: userService, activityService: activityService}
}

func (h *UserHandler) Profile(c *fiber.Ctx) error {
	userID, err := session.UserID(c)
	if err != nil {
		return response.Error(c, err)
	}

	user, err := h.userService.Profile(c.UserContext(), userID)
	if err != nil {
		return response.Error(c, err)
	}
	return response.OK(c, fiber.Map{"user": user})
}

func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	userID, err := session.UserID(c)
	if err != nil {
		return response.Error(c, err)
	}
	var req dto.UpdateProfileRequest
	if err := bind(c, &req); err != nil {
		return response.Error(c, err)
	}

	user, err := h.userService.UpdateProfile(c.UserContext(), userID, &req)
	if err != nil {
		return response.Error(c, err)
	}
	return response.OK(c, fiber.Map{"user": user})
}

// DeleteAccount accepts an empty body for accounts without a password.
func (h *UserHandler) DeleteAccount(c *fiber.Ctx) error {
	userID, err := session.UserID(c)
	if err != nil {
		return response.Error(c, err)
	}
	var req dto.DeleteAccountRequest
	if len(c.Body()) > 0 {
		if err := bind(c, &req); err != nil {
			return response.Error(c, err)
		}
	}

	if err := h.userService.DeleteAccount(c.UserContext(), userID, req.Password); err != nil {
		return response.Error(c, err)
	}
	return response.Message(c, "Account deleted successfully")
}

func (h *UserHandler) Settings(c *fiber.Ctx) error {
	userID, err := session.UserID(c)
	if err != nil {
		return response.Error(c, err)
	}

	settings, err := h.userService.Settings(c.UserContext(), userID)
	if err != nil {
		return response.Error(c, err)
	}
	return response.OK(c, fiber.Map{"settings": settings})
}

func (h *UserHandler) UpdateSettings(c *fiber.Ctx) error {
	userID, err := session.UserID(c)
	if err != nil {
		return response.Error(c, err)
	}
	var req dto.SettingsRequest
	if err := bind(c, &req); err != nil {
		return response.Error(c, err)
	}

	settings, err := h.userService.UpdateSettings(c.UserContext(), userID, &req)
	if err != nil {
		return response.Error(c, err)
	}
	return response.OK(c, fiber.Map{"settings": settings})
}

func (h *UserHandler) Activity(c *fiber.Ctx) error {
	userID, err := session.UserID(c)
	if err != nil {
		return response.Error(c, err)
	}
	days, err := services.ParseDays(c.Query("days"))
	if err != nil {
		return response.Error(c, err)
	}

	summary, err := h.activityService.Summary(c.UserContext(), userID, days)
	if err != nil {
		return response.Error(c, err)
	}
	return response.OK(c, summary)
}
