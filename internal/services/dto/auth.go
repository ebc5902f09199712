package dto

import "savage_backend/internal/models"

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	FullName string `json:"full_name"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type UserResponse struct {
	ID        string              `json:"id"`
	Email     string              `json:"email"`
	FullName  string              `json:"full_name,omitempty"`
	AvatarURL string              `json:"avatar_url,omitempty"`
	Provider  models.AuthProvider `json:"provider"`
	Role      models.UserRole     `json:"role"`
}

// AuthResponse - ответ на register/login/refresh/OAuth callback
type AuthResponse struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	TokenType    string        `json:"token_type"`
	User         *UserResponse `json:"user,omitempty"`
}

func NewUserResponse(user *models.User) *UserResponse {
	return &UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		FullName:  user.FullName,
		AvatarURL: user.AvatarURL,
		Provider:  user.Provider,
		Role:      user.Role,
	}
}
