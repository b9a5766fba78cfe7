package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/messhall/backend/internal/infrastructure/auth"
	"github.com/messhall/backend/internal/infrastructure/config"
	"github.com/messhall/backend/internal/interfaces/http/middleware"
)

// testJWTConfig returns a default JWT config for tests
func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:                 "test-secret-key-32-characters-long",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "test-issuer",
		MaxRefreshCount:        10,
	}
}

// newJSONRequest builds a gin test context carrying a JSON body
func newJSONRequest(t *testing.T, method, path string, body any) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	return c, w
}

// setClaims injects JWT claims into the context the way the auth
// middleware would
func setClaims(c *gin.Context, userID uuid.UUID, username, role string) {
	now := time.Now()
	claims := &auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(15 * time.Minute)),
		},
		UserID:    userID.String(),
		Username:  username,
		Role:      role,
		TokenType: auth.TokenTypeAccess,
	}
	c.Set(middleware.JWTClaimsKey, claims)
	c.Set(middleware.JWTUserIDKey, claims.UserID)
	c.Set(middleware.JWTUsernameKey, claims.Username)
	c.Set(middleware.JWTRoleKey, claims.Role)
}

// decodeResponse unmarshals the recorded body into the response envelope
func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}
