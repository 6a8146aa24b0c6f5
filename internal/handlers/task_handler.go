package handlers

import (
	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/response"
	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/session"
	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/tasktree"
	"github.com/gofiber/fiber/v2"
)

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

func taskFilter(c *fiber.Ctx) (dto.TaskFilter, error) {
	var (
		f   dto.TaskFilter
		err error
	)
	if f.ProjectID, err = queryUUID(c, "projectId"); err != nil {
		return f, err
	}
	if f.GoalID, err = queryUUID(c, "goalId"); err != nil {
		return f, err
	}
	if f.CategoryID, err = queryUUID(c, "categoryId"); err != nil {
		return f, err
	}
	if c.Query("parentId") == "root" {
		f.RootOnly = true
	} else if f.ParentID, err = queryUUID(c, "parentId"); err != nil {
		return f, err
	}
	if f.Completed, err = queryBool(c, "completed"); err != nil {
		return f, err
	}
	return f, nil
}

// List returns {tasks} or, with groupBy, {groups: [{name, tasks}]}.
func (h *TaskHandler) List(c *fiber.Ctx) error {
	userID, err := session.UserID(c)
	if err != nil {
		return response.Error(c, err)
	}
	filter, err := taskFilter(c)
	if err != nil {
		return response.Error(c, err)
	}

	if raw := c.Query("groupBy"); raw != "" {
		by, ok := tasktree.ParseGroupBy(raw)
		if !ok {
			return response.Error(c, apperr.BadRequest("groupBy must be one of category, priority, dueDate"))
		}
		groups, err := h.taskService.ListGrouped(c.UserContext(), userID, filter, by)
		if err != nil {
			return response.Error(c, err)
		}
		return response.OK(c, fiber.Map{"groups": groups})
	}

	tasks, err := h.taskService.List(c.UserContext(), userID, filter)
	if err != nil {
		return response.Error(c, err)
	}
	return response.OK(c, fiber.Map{"tasks": tasks})
}

func (h *TaskHandler) Create(c *fiber.Ctx) error {
	userID, err := session.UserID(c)
	if err != nil {
		return response.Error(c, err)
	}
	var req dto.TaskRequest
	if err := bind(c, &req); err != nil {
		return response.Error(c, err)
	}

	task, err := h.taskService.Create(c.UserContext(), userID, &req)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Created(c, fiber.Map{"task": task})
}

func (h *TaskHandler) Get(c *fiber.Ctx) error {
	userID, err := session.UserID(c)
	if err != nil {
		return response.Error(c, err)
	}
	id, err := pathID(c)
	if err != nil {
		return response.Error(c, err)
	}

	task, err := h.taskService.Get(c.UserContext(), userID, id)
	if err != nil {
		return response.Error(c, err)
	}
	return response.OK(c, fiber.Map{"task": task})
}

func (h *TaskHandler) Replace(c *fiber.Ctx) error {
	userID, err := session.UserID(c)
	if err != nil {
		return response.Error(c, err)
	}
	id, err := pathID(c)
	if err != nil {
		return response.Error(c, err)
	}
	var req dto.TaskRequest
	if err := bind(c, &req); err != nil {
		return response.Error(c, err)
	}

	res, err := h.taskService.Replace(c.UserContext(), userID, id, &req)
	if err != nil {
		return response.Error(c, err)
	}
	return response.OK(c, res)
}

func (h *TaskHandler) Patch(c *fiber.Ctx) error {
	userID, err := session.UserID(c)
	if err != nil {
		return response.Error(c, err)
	}
	id, err := pathID(c)
	if err != nil {
		return response.Error(c, err)
	}
	var req dto.TaskPatchRequest
	if err := bind(c, &req); err != nil {
		return response.Error(c, err)
	}

	res, err := h.taskService.Patch(c.UserContext(), userID, id, &req)
	if err != nil {
		return response.Error(c, err)
	}
	return response.OK(c, res)
}

func (h *TaskHandler) Delete(c *fiber.Ctx) error {
	userID, err := session.UserID(c)
	if err != nil {
		return response.Error(c, err)
	}
	id, err := pathID(c)
	if err != nil {
		return response.Error(c, err)
	}

	if err := h.taskService.Delete(c.UserContext(), userID, id); err != nil {
		return response.Error(c, err)
	}
	return response.Message(c, "Task deleted")
}
