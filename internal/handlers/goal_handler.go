package handlers

import (
	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/response"
	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/session"
	"github.com/gofiber/fiber/v2"
)

type GoalHandler struct {
	goalService *services.GoalService
}

func NewGoalHandler(goalService *services.GoalService) *GoalHandler {
	return &GoalHandler{goalService: goalService}
}

func (h *GoalHandler) List(c *fiber.Ctx) error {
	userID, err := session.UserID(c)
	if err != nil {
		return response.Error(c, err)
	}
	projectID, err := queryUUID(c, "projectId")
	if err != nil {
		return response.Error(c, err)
	}

	goals, err := h.goalService.List(c.UserContext(), userID, projectID)
	if err != nil {
		return response.Error(c, err)
	}
	return response.OK(c, fiber.Map{"goals": goals})
}

func (h *GoalHandler) Create(c *fiber.Ctx) error {
	userID, err := session.UserID(c)
	if err != nil {
		return response.Error(c, err)
	}
	var req dto.GoalRequest
	if err := bind(c, &req); err != nil {
		return response.Error(c, err)
	}

	goal, err := h.goalService.Create(c.UserContext(), userID, &req)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, fiber.Map{"goal": goal})
}

func (h *GoalHandler) Get(c *fiber.Ctx) error {
	userID, err := session.UserID(c)
	if err != nil {
		return response.Error(c, err)
	}
	id, err := pathID(c)
	if err != nil {
		return response.Error(c, err)
	}

	goal, err := h.goalService.Get(c.UserContext(), userID, id)
	if err != nil {
		return response.Error(c, err)
	}
	return response.OK(c, fiber.Map{"goal": goal})
}

func (h *GoalHandler) Replace(c *fiber.Ctx) error {
	userID, err := session.UserID(c)
	if err != nil {
		return response.Error(c, err)
	}
	id, err := pathID(c)
	if err != nil {
		return response.Error(c, err)
	}
	var req dto.GoalRequest
	if err := bind(c, &req); err != nil {
		return response.Error(c, err)
	}

	goal, err := h.goalService.Replace(c.UserContext(), userID, id, &req)
	if err != nil {
		return response.Error(c, err)
	}
	return response.OK(c, fiber.Map{"goal": goal})
}

func (h *GoalHandler) Patch(c *fiber.Ctx) error {
	userID, err := session.UserID(c)
	if err != nil {
		return response.Error(c, err)
	}
	id, err := pathID(c)
	if err != nil {
		return response.Error(c, err)
	}
	var req dto.GoalPatchRequest
	if err := bind(c, &req); err != nil {
		return response.Error(c, err)
	}

	goal, err := h.goalService.Patch(c.UserContext(), userID, id, &req)
	if err != nil {
		return response.Error(c, err)
	}
	return response.OK(c, fiber.Map{"goal": goal})
}

func (h *GoalHandler) Delete(c *fiber.Ctx) error {
	userID, err := session.UserID(c)
	if err != nil {
		return response.Error(c, err)
	}
	id, err := pathID(c)
	if err != nil {
		return response.Error(c, err)
	}

	if err := h.goalService.Delete(c.UserContext(), userID, id); err != nil {
		return response.Error(c, err)
	}
	return response.Message(c, "Goal deleted")
}
