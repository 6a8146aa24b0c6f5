package dto

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/models"
	"github.com/google/uuid"
)

type TaskRequest struct {
	Title            string      `json:"title" validate:"required,notblank,max=255"`
	Description      string      `json:"description" validate:"max=5000"`
	Priority         string      `json:"priority" validate:"omitempty,priority"`
	Emotion          string      `json:"emotion" validate:"omitempty,emotion"`
	DueDate          *time.Time  `json:"dueDate"`
	EstimatedMinutes *int        `json:"estimatedMinutes" validate:"omitempty,min=0,max=10080"`
	ActualMinutes    *int        `json:"actualMinutes" validate:"omitempty,min=0,max=10080"`
	Recurrence       string      `json:"recurrence" validate:"omitempty,recurrence"`
	RecurrenceEnd    *time.Time  `json:"recurrenceEnd"`
	Position         int         `json:"position" validate:"min=0"`
	Completed        bool        `json:"completed"`
	ProjectID        *uuid.UUID  `json:"projectId"`
	GoalID           *uuid.UUID  `json:"goalId"`
	ParentID         *uuid.UUID  `json:"parentId"`
	CategoryIDs      []uuid.UUID `json:"categoryIds" validate:"max=20"`
}

// TaskPatchRequest touches only what is present. Nullable fields use
// Optional so an explicit null clears them.
type TaskPatchRequest struct {
	Title            *string             `json:"title,omitempty" validate:"omitempty,notblank,max=255"`
	Description      *string             `json:"description,omitempty" validate:"omitempty,max=5000"`
	Priority         *string             `json:"priority,omitempty" validate:"omitempty,priority"`
	Emotion          *string             `json:"emotion,omitempty" validate:"omitempty,emotion"`
	DueDate          Optional[time.Time] `json:"dueDate,omitzero"`
	EstimatedMinutes Optional[int]       `json:"estimatedMinutes,omitzero" validate:"omitempty,min=0,max=10080"`
	ActualMinutes    Optional[int]       `json:"actualMinutes,omitzero" validate:"omitempty,min=0,max=10080"`
	Recurrence       *string             `json:"recurrence,omitempty" validate:"omitempty,recurrence"`
	RecurrenceEnd    Optional[time.Time] `json:"recurrenceEnd,omitzero"`
	Position         *int                `json:"position,omitempty" validate:"omitempty,min=0"`
	Completed        *bool               `json:"completed,omitempty"`
	ProjectID        *uuid.UUID          `json:"projectId,omitempty"`
	GoalID           *uuid.UUID          `json:"goalId,omitempty"`
	ParentID         *uuid.UUID          `json:"parentId,omitempty"`
	CategoryIDs      *[]uuid.UUID        `json:"categoryIds,omitempty" validate:"omitempty,max=20"`
}

// TaskFilter narrows GET /tasks.
type TaskFilter struct {
	ProjectID  *uuid.UUID
	GoalID     *uuid.UUID
	CategoryID *uuid.UUID
	ParentID   *uuid.UUID
	RootOnly   bool
	Completed  *bool
}

// TaskView is a task plus its derived subtask progress (null without subtasks).
type TaskView struct {
	models.Task
	Progress *float64 `json:"progress"`
}

type TaskGroup struct {
	Name  string     `json:"name"`
	Tasks []TaskView `json:"tasks"`
}
