package dto

type CategoryRequest struct {
	Name  string `json:"name" validate:"required,notblank,max=50"`
	Color string `json:"color" validate:"omitempty,hexcolor"`
	Icon  string `json:"icon" validate:"max=50"`
}

type CategoryPatchRequest struct {
	Name  *string `json:"name,omitempty" validate:"omitempty,notblank,max=50"`
	Color *string `json:"color,omitempty" validate:"omitempty,hexcolor"`
	Icon  *string `json:"icon,omitempty" validate:"omitempty,max=50"`
}
