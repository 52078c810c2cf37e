// AngelaMos | 2026
// dto.go

package auth

import (
	"time"

	"github.com/playerone/storefront/internal/password"
)

// Password fields only carry a byte cap here so the policy can report every
// violated rule at once instead of stopping at the first tag.
type RegisterRequest struct {
	Name     string `json:"name"     validate:"required,max=100"`
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,max=255"`
	Password string `json:"password" validate:"required,max=72"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required,max=72"`
	NewPassword     string `json:"new_password"     validate:"required,max=72"`
}

type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type RegisterResponse struct {
	Message          string            `json:"message"`
	User             UserSummary       `json:"user"`
	PasswordStrength password.Strength `json:"password_strength"`
}

type LoginResponse struct {
	Message   string       `json:"message"`
	Token     string       `json:"token"`
	TokenType string       `json:"token_type"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

type VerifyResponse struct {
	User UserResponse `json:"user"`
}

type PolicyDetails struct {
	Violations       []string          `json:"violations"`
	PasswordStrength password.Strength `json:"password_strength"`
}

func ToUserSummary(u *UserInfo) UserSummary {
	return UserSummary{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
	}
}

func ToUserResponse(u *UserInfo) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}
