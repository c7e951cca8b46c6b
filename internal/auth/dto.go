// AngelaMos | 2026
// dto.go

package auth

import (
	"github.com/pakair-dev/pakair-api/internal/user"
)

type RegisterRequest struct {
	FirstName    string `json:"first_name"    validate:"required,min=1,max=100"`
	LastName     string `json:"last_name"     validate:"required,min=1,max=100"`
	Email        string `json:"email"         validate:"required,email,max=255"`
	Phone        string `json:"phone"         validate:"required,min=7,max=20"`
	Password     string `json:"password"      validate:"required,min=8,max=128"`
	AgreeToTerms bool   `json:"agree_to_terms" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type TokenPairResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}

type AuthResponse struct {
	User   user.UserResponse `json:"user"`
	Tokens TokenPairResponse `json:"tokens"`
}
