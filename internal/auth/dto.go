package auth

import (
	"github.com/mohib357/mamstar-plan/internal/users"
)

// LoginRequest captures the user credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse contains the access token and the authenticated user.
type LoginResponse struct {
	Token     string         `json:"token"`
	ExpiresIn int            `json:"expiresIn"`
	User      *users.UserDTO `json:"user"`
}
