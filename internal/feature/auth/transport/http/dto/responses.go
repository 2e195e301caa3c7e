package dto

import (
	"time"

	"nexusauth/internal/feature/auth/domain/entity"
)

// UserResponse is the public projection of an identity.
type UserResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Bio           string    `json:"bio"`
	LastLogin     time.Time `json:"lastLogin"`
	SecurityScore int       `json:"securityScore"`
}

// NewUserResponse converts a profile into its JSON form.
func NewUserResponse(p entity.Profile) UserResponse {
	return UserResponse{
		ID:            p.ID,
		Name:          p.Name,
		Email:         p.Email,
		Bio:           p.Bio,
		LastLogin:     p.LastLogin,
		SecurityScore: p.SecurityScore,
	}
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
	Code    string `json:"code,omitempty"`
}
