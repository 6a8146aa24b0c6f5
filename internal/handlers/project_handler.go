package handlers

import (
	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/response"
	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/session"
	"github.com/gofiber/fiber/v2"
)

type ProjectHandler struct {
	projectService *services.ProjectService
}

func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

func (h *ProjectHandler) List(c *fiber.Ctx) error {
	userID, err := session.UserID(c)
	if err != nil {
		return response.Error(c, err)
	}

	projects, err := h.projectService.List(c.UserContext(), userID, c.Query("status"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.OK(c, fiber.Map{"projects": projects})
}

func (h *ProjectHandler) Create(c *fiber.Ctx) error {
	userID, err := session.UserID(c)
	if err != nil {
		return response.Error(c, err)
	}
	var req dto.ProjectRequest
	if err := bind(c, &req); err != nil {
		return response.Error(c, err)
	}

	project, err := h.projectService.Create(c.UserContext(), userID, &req)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, fiber.Map{"project": project})
}

func (h *ProjectHandler) Get(c *fiber.Ctx) error {
	userID, err := session.UserID(c)
	if err != nil {
		return response.Error(c, err)
	}
	id, err := pathID(c)
	if err != nil {
		return response.Error(c, err)
	}

	project, err := h.projectService.Get(c.UserContext(), userID, id)
	if err != nil {
		return response.Error(c, err)
	}
	return response.OK(c, fiber.Map{"project": project})
}

func (h *ProjectHandler) Replace(c *fiber.Ctx) error {
	userID, err := session.UserID(c)
	if err != nil {
		return response.Error(c, err)
	}
	id, err := pathID(c)
	if err != nil {
		return response.Error(c, err)
	}
	var req dto.ProjectRequest
	if err := bind(c, &req); err != nil {
		return response.Error(c, err)
	}

	project, err := h.projectService.Replace(c.UserContext(), userID, id, &req)
	if err != nil {
		return response.Error(c, err)
	}
	return response.OK(c, fiber.Map{"project": project})
}

func (h *ProjectHandler) Patch(c *fiber.Ctx) error {
	userID, err := session.UserID(c)
	if err != nil {
		return response.Error(c, err)
	}
	id, err := pathID(c)
	if err != nil {
		return response.Error(c, err)
	}
	var req dto.ProjectPatchRequest
	if err := bind(c, &req); err != nil {
		return response.Error(c, err)
	}

	project, err := h.projectService.Patch(c.UserContext(), userID, id, &req)
	if err != nil {
		return response.Error(c, err)
	}
	return response.OK(c, fiber.Map{"project": project})
}

// Delete honours ?cascade=true; any other value leaves tasks protected.
func (h *ProjectHandler) Delete(c *fiber.Ctx) error {
	userID, err := session.UserID(c)
	if err != nil {
		return response.Error(c, err)
	}
	id, err := pathID(c)
	if err != nil {
		return response.Error(c, err)
	}

	cascade := c.Query("cascade") == "true"
	if err := h.projectService.Delete(c.UserContext(), userID, id, cascade); err != nil {
		return response.Error(c, err)
	}
	return response.Message(c, "Project deleted")
}
