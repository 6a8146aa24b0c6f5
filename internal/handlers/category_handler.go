package handlers

import (
	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/response"
	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/session"
	"github.com/gofiber/fiber/v2"
)

type CategoryHandler struct {
	categoryService *services.CategoryService
}

func NewCategoryHandler(categoryService *services.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

func (h *CategoryHandler) List(c *fiber.Ctx) error {
	userID, err := session.UserID(c)
	if err != nil {
		return response.Error(c, err)
	}

	categories, err := h.categoryService.List(c.UserContext(), userID)
	if err != nil {
		return response.Error(c, err)
	}
	return response.OK(c, fiber.Map{"categories": categories})
}

func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	userID, err := session.UserID(c)
	if err != nil {
		return response.Error(c, err)
	}
	var req dto.CategoryRequest
	if err := bind(c, &req); err != nil {
		return response.Error(c, err)
	}

	category, err := h.categoryService.Create(c.UserContext(), userID, &req)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, fiber.Map{"category": category})
}

func (h *CategoryHandler) Get(c *fiber.Ctx) error {
	userID, err := session.UserID(c)
	if err != nil {
		return response.Error(c, err)
	}
	id, err := pathID(c)
	if err != nil {
		return response.Error(c, err)
	}

	category, err := h.categoryService.Get(c.UserContext(), userID, id)
	if err != nil {
		return response.Error(c, err)
	}
	return response.OK(c, fiber.Map{"category": category})
}

func (h *CategoryHandler) Replace(c *fiber.Ctx) error {
	userID, err := session.UserID(c)
	if err != nil {
		return response.Error(c, err)
	}
	id, err := pathID(c)
	if err != nil {
		return response.Error(c, err)
	}
	var req dto.CategoryRequest
	if err := bind(c, &req); err != nil {
		return response.Error(c, err)
	}

	category, err := h.categoryService.Replace(c.UserContext(), userID, id, &req)
	if err != nil {
		return response.Error(c, err)
	}
	return response.OK(c, fiber.Map{"category": category})
}

func (h *CategoryHandler) Patch(c *fiber.Ctx) error {
	userID, err := session.UserID(c)
	if err != nil {
		return response.Error(c, err)
	}
	id, err := pathID(c)
	if err != nil {
		return response.Error(c, err)
	}
	var req dto.CategoryPatchRequest
	if err := bind(c, &req); err != nil {
		return response.Error(c, err)
	}

	category, err := h.categoryService.Patch(c.UserContext(), userID, id, &req)
	if err != nil {
		return response.Error(c, err)
	}
	return response.OK(c, fiber.Map{"category": category})
}

func (h *CategoryHandler) Delete(c *fiber.Ctx) error {
	userID, err := session.UserID(c)
	if err != nil {
		return response.Error(c, err)
	}
	id, err := pathID(c)
	if err != nil {
		return response.Error(c, err)
	}

	if err := h.categoryService.Delete(c.UserContext(), userID, id); err != nil {
		return response.Error(c, err)
	}
	return response.Message(c, "Category deleted")
}
