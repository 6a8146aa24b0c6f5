package dto

import (
	"time"

	"github.com/google/uuid"
)

type GoalRequest struct {
	ProjectID   uuid.UUID   `json:"projectId" validate:"required"`
	Name        string      `json:"name" validate:"required,notblank,max=100"`
	Description string      `json:"description" validate:"max=2000"`
	TargetDate  *time.Time  `json:"targetDate"`
	Completed   bool        `json:"completed"`
	TaskIDs     []uuid.UUID `json:"taskIds" validate:"max=500"`
}

// GoalPatchRequest touches only what is present. A nil TaskIDs leaves the
// association alone; a present empty list clears it.
type GoalPatchRequest struct {
	ProjectID   *uuid.UUID          `json:"projectId,omitempty"`
	Name        *string             `json:"name,omitempty" validate:"omitempty,notblank,max=100"`
	Description *string             `json:"description,omitempty" validate:"omitempty,max=2000"`
	TargetDate  Optional[time.Time] `json:"targetDate,omitzero"`
	Completed   *bool               `json:"completed,omitempty"`
	TaskIDs     *[]uuid.UUID        `json:"taskIds,omitempty" validate:"omitempty,max=500"`
}
