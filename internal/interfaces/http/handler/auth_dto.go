package handler

import (
	"time"

	"github.com/google/uuid"
)

// =====================
// Auth Request DTOs
// =====================

// LoginRequest represents the request body for login.
// LoginType selects which account table the credentials are checked
// against: "admin_manager" for staff, "student" for students.
type LoginRequest struct {
	LoginType string `json:"login_type" binding:"required,oneof=admin_manager student"`
	Username  string `json:"username" binding:"required,min=1,max=100"`
	Password  string `json:"password" binding:"required,min=1,max=128"`
}

// RefreshTokenRequest represents the request body for token refresh.
// The token may instead be supplied via the refresh_token cookie.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// ChangePasswordRequest represents the request body for password change
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=128"`
}

// =====================
// Auth Response DTOs
// =====================

// TokenResponse represents the token data in auth responses
type TokenResponse struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

// PrincipalResponse represents the authenticated account in auth responses
type PrincipalResponse struct {
	ID          uuid.UUID `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	Role        string    `json:"role"`
}

// LoginResponse represents the response body for successful login
type LoginResponse struct {
	Token     TokenResponse     `json:"token"`
	Principal PrincipalResponse `json:"principal"`
}

// RefreshTokenResponse represents the response body for successful token refresh
type RefreshTokenResponse struct {
	Token TokenResponse `json:"token"`
}

// CurrentUserResponse represents the response body for current account info.
// The roster fields are populated for student accounts only.
type CurrentUserResponse struct {
	Principal   PrincipalResponse `json:"principal"`
	Room        string            `json:"room,omitempty"`
	Allergies   string            `json:"allergies,omitempty"`
	FoodType    string            `json:"food_type,omitempty"`
	DaysPresent int               `json:"days_present,omitempty"`
}

// LogoutResponse represents the response body for logout
type LogoutResponse struct {
	Message string `json:"message"`
}
