package dto

import (
	"github.com/ahmetcoskunkizilkaya/todo-backend/internal/models"
)

type SignupRequest struct {
	Name     string `json:"name" validate:"max=100"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// OAuthRequest carries the OIDC identity token obtained by the client from the provider.
type OAuthRequest struct {
	IDToken string `json:"idToken" validate:"required"`
	Name    string `json:"name" validate:"max=100"`
	Image   string `json:"image" validate:"omitempty,url,max=500"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest leaves the length rule to the service, which checks
// the token first.
type ResetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	ExpiresIn    int64        `json:"expiresIn"`
	User         UserResponse `json:"user"`
}

type UserResponse struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	Image        string `json:"image"`
	AuthProvider string `json:"authProvider"`
}

func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:           u.ID.String(),
		Email:        u.Email,
		Name:         u.Name,
		Image:        u.Image,
		AuthProvider: u.AuthProvider,
	}
}
