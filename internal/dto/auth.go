package dto

import "github.com/clinicore/crm_admin_app/internal/core/domain"

// LoginRequest defines the credentials sent to POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse represents the response for a successful login.
type LoginResponse struct {
	Token   string             `json:"token"`
	Profile domain.UserProfile `json:"profile"`
}

// ChangePasswordRequest defines the payload for POST /auth/change-password.
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=8"`
}
