package dto

import "time"

// ProjectRequest is used by POST and PUT; PUT resets omitted optional fields.
type ProjectRequest struct {
	Name        string     `json:"name" validate:"required,notblank,max=100"`
	Description string     `json:"description" validate:"max=2000"`
	Color       string     `json:"color" validate:"omitempty,hexcolor"`
	Status      string     `json:"status" validate:"omitempty,project_status"`
	DueDate     *time.Time `json:"dueDate"`
}

type ProjectPatchRequest struct {
	Name        *string             `json:"name,omitempty" validate:"omitempty,notblank,max=100"`
	Description *string             `json:"description,omitempty" validate:"omitempty,max=2000"`
	Color       *string             `json:"color,omitempty" validate:"omitempty,hexcolor"`
	Status      *string             `json:"status,omitempty" validate:"omitempty,project_status"`
	DueDate     Optional[time.Time] `json:"dueDate,omitzero"`
}
