package dto

import "github.com/ahmetcoskunkizilkaya/todo-backend/internal/apperr"

// Envelope wraps every API response: {data, success:true} or
// {error, success:false, errors?}.
type Envelope struct {
	Data    any                 `json:"data,omitempty"`
	Error   string              `json:"error,omitempty"`
	Errors  []apperr.FieldError `json:"errors,omitempty"`
	Success bool                `json:"success"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
}
