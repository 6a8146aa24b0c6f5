package handlers

import (
	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/response"
	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := bind(c, &req); err != nil {
		return response.Error(c, err)
	}

	resp, err := h.authService.Signup(c.UserContext(), &req)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, resp)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := bind(c, &req); err != nil {
		return response.Error(c, err)
	}

	resp, err := h.authService.Login(c.UserContext(), &req)
	if err != nil {
		return response.Error(c, err)
	}
	return response.OK(c, resp)
}

func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := bind(c, &req); err != nil {
		return response.Error(c, err)
	}

	resp, err := h.authService.Refresh(c.UserContext(), &req)
	if err != nil {
		return response.Error(c, err)
	}
	return response.OK(c, resp)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	var req dto.LogoutRequest
	if err := bind(c, &req); err != nil {
		return response.Error(c, err)
	}

	if err := h.authService.Logout(c.UserContext(), &req); err != nil {
		return response.Error(c, err)
	}
	return response.Message(c, "Logged out successfully")
}

func (h *AuthHandler) OAuth(c *fiber.Ctx) error {
	var req dto.OAuthRequest
	if err := bind(c, &req); err != nil {
		return response.Error(c, err)
	}

	resp, err := h.authService.OAuth(c.UserContext(), c.Params("provider"), &req)
	if err != nil {
		return response.Error(c, err)
	}
	return response.OK(c, resp)
}

func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var req dto.ForgotPasswordRequest
	if err := bind(c, &req); err != nil {
		return response.Error(c, err)
	}

	if err := h.authService.ForgotPassword(c.UserContext(), &req); err != nil {
		return response.Error(c, err)
	}
	return response.Message(c, services.ForgotPasswordMessage)
}

func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req dto.ResetPasswordRequest
	if err := bind(c, &req); err != nil {
		return response.Error(c, err)
	}

	if err := h.authService.ResetPassword(c.UserContext(), &req); err != nil {
		return response.Error(c, err)
	}
	return response.Message(c, "Password has been reset")
}
