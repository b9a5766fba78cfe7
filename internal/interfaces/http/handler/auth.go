package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/messhall/backend/internal/application/identity"
	"github.com/messhall/backend/internal/interfaces/http/dto"
	"github.com/messhall/backend/internal/interfaces/http/middleware"
)

const refreshTokenCookie = "refresh_token"

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	BaseHandler
	authService *identity.AuthService
	// CookieSecure controls the Secure flag on auth cookies. It should
	// be true everywhere except local development over plain HTTP.
	cookieSecure bool
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *identity.AuthService, cookieSecure bool) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		cookieSecure: cookieSecure,
	}
}

// Login authenticates a staff or student account and issues a token pair.
// Tokens are returned in the body and also set as HttpOnly cookies so
// browser clients need no token handling of their own.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: login_type, username and password are required")
		return
	}

	// Get client IP for login tracking
	clientIP := c.ClientIP()

	result, err := h.authService.Login(c.Request.Context(), identity.LoginInput{
		LoginType: identity.LoginType(req.LoginType),
		Username:  req.Username,
		Password:  req.Password,
		IP:        clientIP,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.setAuthCookies(c, result.AccessToken, result.RefreshToken,
		result.AccessTokenExpiresAt, result.RefreshTokenExpiresAt)

	response := LoginResponse{
		Token: TokenResponse{
			AccessToken:           result.AccessToken,
			RefreshToken:          result.RefreshToken,
			AccessTokenExpiresAt:  result.AccessTokenExpiresAt,
			RefreshTokenExpiresAt: result.RefreshTokenExpiresAt,
			TokenType:             result.TokenType,
		},
		Principal: PrincipalResponse{
			ID:          result.Principal.ID,
			Username:    result.Principal.Username,
			DisplayName: result.Principal.DisplayName,
			Role:        result.Principal.Role,
		},
	}

	h.Success(c, response)
}

// RefreshToken exchanges a refresh token for a new token pair. The token
// is taken from the request body, falling back to the refresh cookie.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req RefreshTokenRequest
	_ = c.ShouldBindJSON(&req)

	if req.RefreshToken == "" {
		if cookie, err := c.Cookie(refreshTokenCookie); err == nil {
			req.RefreshToken = cookie
		}
	}
	if req.RefreshToken == "" {
		h.BadRequest(c, "Missing refresh token")
		return
	}

	// The auth service extracts user info from the refresh token itself
	result, err := h.authService.RefreshToken(c.Request.Context(), identity.RefreshTokenInput{
		RefreshToken: req.RefreshToken,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.setAuthCookies(c, result.AccessToken, result.RefreshToken,
		result.AccessTokenExpiresAt, result.RefreshTokenExpiresAt)

	response := RefreshTokenResponse{
		Token: TokenResponse{
			AccessToken:           result.AccessToken,
			RefreshToken:          result.RefreshToken,
			AccessTokenExpiresAt:  result.AccessTokenExpiresAt,
			RefreshTokenExpiresAt: result.RefreshTokenExpiresAt,
			TokenType:             result.TokenType,
		},
	}

	h.Success(c, response)
}

// Logout invalidates the current session and clears auth cookies
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetJWTClaims(c)
	if claims == nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		h.BadRequest(c, "Invalid user ID in token")
		return
	}

	err = h.authService.Logout(c.Request.Context(), identity.LogoutInput{
		UserID:    userID,
		TokenJTI:  claims.ID,
		ExpiresAt: claims.GetExpiresAtTime(),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.clearAuthCookies(c)

	h.Success(c, LogoutResponse{
		Message: "Logged out successfully",
	})
}

// GetCurrentUser returns the authenticated account's information
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	claims := middleware.GetJWTClaims(c)
	if claims == nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		h.BadRequest(c, "Invalid user ID in token")
		return
	}

	result, err := h.authService.GetCurrentUser(c.Request.Context(), identity.GetCurrentUserInput{
		UserID: userID,
		Role:   claims.Role,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	response := CurrentUserResponse{
		Principal: PrincipalResponse{
			ID:          result.Principal.ID,
			Username:    result.Principal.Username,
			DisplayName: result.Principal.DisplayName,
			Role:        result.Principal.Role,
		},
		Room:        result.Room,
		Allergies:   result.Allergies,
		FoodType:    result.FoodType,
		DaysPresent: result.DaysPresent,
	}

	h.Success(c, response)
}

// ChangePassword changes the current staff account's password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	claims := middleware.GetJWTClaims(c)
	if claims == nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		h.BadRequest(c, "Invalid user ID in token")
		return
	}

	err = h.authService.ChangePassword(c.Request.Context(), identity.ChangePasswordInput{
		UserID:      userID,
		OldPassword: req.OldPassword,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{
		"message": "Password changed successfully",
	}))
}

// setAuthCookies stores both tokens as HttpOnly cookies scoped to the API
func (h *AuthHandler) setAuthCookies(c *gin.Context, accessToken, refreshToken string, accessExpiry, refreshExpiry time.Time) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.AccessTokenCookie, accessToken,
		int(time.Until(accessExpiry).Seconds()), "/", "", h.cookieSecure, true)
	c.SetCookie(refreshTokenCookie, refreshToken,
		int(time.Until(refreshExpiry).Seconds()), "/api/v1/auth", "", h.cookieSecure, true)
}

// clearAuthCookies expires both auth cookies
func (h *AuthHandler) clearAuthCookies(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.AccessTokenCookie, "", -1, "/", "", h.cookieSecure, true)
	c.SetCookie(refreshTokenCookie, "", -1, "/api/v1/auth", "", h.cookieSecure, true)
}
